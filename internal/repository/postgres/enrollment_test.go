package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/onclass/bootcamp-api/internal/errs"
)

func newEnrollmentMock(t *testing.T) (*EnrollmentRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewEnrollmentRepo(db), mock
}

func TestEnrollmentEnroll(t *testing.T) {
	repo, mock := newEnrollmentMock(t)
	enrolledAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO bootcamp_user`).
		WithArgs(int64(3), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "enrolled_at"}).AddRow(int64(5), enrolledAt))

	e, err := repo.Enroll(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if e.ID != 5 || e.BootcampID != 3 || e.UserID != 10 {
		t.Fatalf("unexpected enrollment: %+v", e)
	}
	if !e.EnrolledAt.Equal(enrolledAt) {
		t.Fatalf("expected enrolled_at %v, got %v", enrolledAt, e.EnrolledAt)
	}
	expectations(t, mock)
}

func TestEnrollmentEnrollDuplicatePair(t *testing.T) {
	repo, mock := newEnrollmentMock(t)

	mock.ExpectQuery(`INSERT INTO bootcamp_user`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bootcamp_user_pair_key"})

	_, err := repo.Enroll(context.Background(), 3, 10)
	if !errs.IsCode(err, errs.UserAlreadyEnrolled) {
		t.Fatalf("expected UserAlreadyEnrolled, got %v", err)
	}
	expectations(t, mock)
}

func TestEnrollmentUnenrollNotFound(t *testing.T) {
	repo, mock := newEnrollmentMock(t)

	mock.ExpectExec(`DELETE FROM bootcamp_user`).
		WithArgs(int64(3), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Unenroll(context.Background(), 3, 10)
	if !errs.IsCode(err, errs.EnrollmentNotFound) {
		t.Fatalf("expected EnrollmentNotFound, got %v", err)
	}
	expectations(t, mock)
}

func TestEnrollmentIsEnrolled(t *testing.T) {
	repo, mock := newEnrollmentMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(3), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	enrolled, err := repo.IsEnrolled(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("is enrolled: %v", err)
	}
	if !enrolled {
		t.Fatal("expected true")
	}
	expectations(t, mock)
}

func TestEnrollmentFindBootcampsByUser(t *testing.T) {
	repo, mock := newEnrollmentMock(t)
	launch := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`ORDER BY bu.enrolled_at`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "name", "description", "launch_date", "duration"}).
			AddRow(int64(2), "Java Bootcamp", "JVM track", launch, 90).
			AddRow(int64(1), "Go Bootcamp", "Backend track", launch.AddDate(0, 6, 0), 60))

	got, err := repo.FindBootcampsByUser(context.Background(), 10)
	if err != nil {
		t.Fatalf("find bootcamps by user: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 1 {
		t.Fatalf("expected enrollment order [2 1], got %+v", got)
	}
	expectations(t, mock)
}

func TestEnrollmentFindUserIDsByBootcamp(t *testing.T) {
	repo, mock := newEnrollmentMock(t)

	mock.ExpectQuery(`SELECT user_id FROM bootcamp_user`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(10)).AddRow(int64(11)))

	got, err := repo.FindUserIDsByBootcamp(context.Background(), 3)
	if err != nil {
		t.Fatalf("find user ids: %v", err)
	}
	if len(got) != 2 || got[0] != 10 || got[1] != 11 {
		t.Fatalf("expected [10 11], got %v", got)
	}
	expectations(t, mock)
}
