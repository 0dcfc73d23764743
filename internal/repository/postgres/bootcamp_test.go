package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/onclass/bootcamp-api/internal/domain"
	"github.com/onclass/bootcamp-api/internal/errs"
)

func newMock(t *testing.T) (*BootcampRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBootcampRepo(db), mock
}

func expectations(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBootcampSave(t *testing.T) {
	repo, mock := newMock(t)
	launch := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO bootcamp`).
		WithArgs("Go Bootcamp", "Backend track", launch, 60).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(`INSERT INTO bootcamp_capacity`).
		WithArgs(int64(7), int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO bootcamp_capacity`).
		WithArgs(int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(2, 1))

	saved, err := repo.Save(context.Background(), &domain.Bootcamp{
		Name:        "Go Bootcamp",
		Description: "Backend track",
		LaunchDate:  launch,
		Duration:    60,
		CapacityIDs: []int64{1, 2},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID != 7 {
		t.Fatalf("expected id 7, got %d", saved.ID)
	}
	expectations(t, mock)
}

func TestBootcampSaveNameConflict(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO bootcamp`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bootcamp_name_key"})

	_, err := repo.Save(context.Background(), &domain.Bootcamp{
		Name:        "Go Bootcamp",
		Description: "Backend track",
		LaunchDate:  time.Now(),
		Duration:    60,
	})
	if !errs.IsCode(err, errs.BootcampAlreadyExists) {
		t.Fatalf("expected BootcampAlreadyExists, got %v", err)
	}
	expectations(t, mock)
}

func TestBootcampExistsByName(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("Go Bootcamp").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByName(context.Background(), "Go Bootcamp")
	if err != nil {
		t.Fatalf("exists by name: %v", err)
	}
	if !exists {
		t.Fatal("expected true")
	}
	expectations(t, mock)
}

func TestBootcampFindExistingIDs(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT id FROM bootcamp WHERE id = ANY`).
		WithArgs(pq.Array([]int64{1, 2, 3})).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(3)))

	got, err := repo.FindExistingIDs(context.Background(), []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("find existing ids: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 ids, got %v", got)
	}
	if _, ok := got[2]; ok {
		t.Fatal("id 2 must be absent")
	}
	expectations(t, mock)
}

func TestBootcampFindPageOrdersByTechnologyCount(t *testing.T) {
	repo, mock := newMock(t)
	launch := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`ORDER BY COUNT\(bc.capacity_id\) DESC, b.name ASC`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "description", "launch_date", "duration"}).
			AddRow(int64(1), "Go Bootcamp", "Backend track", launch, 60))
	mock.ExpectQuery(`SELECT capacity_id FROM bootcamp_capacity`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"capacity_id"}).AddRow(int64(4)).AddRow(int64(9)))

	got, err := repo.FindPage(context.Background(), domain.PaginationRequest{
		Page: 0, Size: 10,
		SortBy:        domain.SortByTechnologyCount,
		SortDirection: domain.SortDesc,
	})
	if err != nil {
		t.Fatalf("find page: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if len(got[0].CapacityIDs) != 2 || got[0].CapacityIDs[0] != 4 {
		t.Fatalf("unexpected capacity ids: %v", got[0].CapacityIDs)
	}
	expectations(t, mock)
}

func TestBootcampFindByIDNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name, description, launch_date, duration`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "launch_date", "duration"}))

	_, err := repo.FindByID(context.Background(), 42)
	if !errs.IsCode(err, errs.BootcampNotFound) {
		t.Fatalf("expected BootcampNotFound, got %v", err)
	}
	expectations(t, mock)
}

func TestBootcampCountReferences(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT bootcamp_id\)`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	refs, err := repo.CountBootcampsReferencingCapacity(context.Background(), 4)
	if err != nil {
		t.Fatalf("count references: %v", err)
	}
	if refs != 3 {
		t.Fatalf("expected 3, got %d", refs)
	}
	expectations(t, mock)
}

func TestBootcampDeleteByIDNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`DELETE FROM bootcamp WHERE id`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteByID(context.Background(), 42)
	if !errs.IsCode(err, errs.BootcampNotFound) {
		t.Fatalf("expected BootcampNotFound, got %v", err)
	}
	expectations(t, mock)
}
