// Package postgres implements the service-layer persistence contracts
// against PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/onclass/bootcamp-api/internal/domain"
	"github.com/onclass/bootcamp-api/internal/errs"
)

// uniqueViolation is the Postgres error code for a unique index conflict.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// BootcampRepo implements bootcamp.Repository against PostgreSQL.
type BootcampRepo struct{ db *sql.DB }

// NewBootcampRepo creates a Postgres-backed bootcamp repository.
func NewBootcampRepo(db *sql.DB) *BootcampRepo { return &BootcampRepo{db: db} }

// Save inserts the bootcamp row, then its capacity links. There is no
// transaction across the two writes; a link failure after the row is
// written is surfaced to the caller as-is.
func (r *BootcampRepo) Save(ctx context.Context, b *domain.Bootcamp) (*domain.Bootcamp, error) {
	saved := *b
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO bootcamp (name, description, launch_date, duration)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, b.Name, b.Description, b.LaunchDate, b.Duration).Scan(&saved.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errs.NewBusiness(errs.BootcampAlreadyExists)
		}
		return nil, fmt.Errorf("save bootcamp: %w", err)
	}

	for _, capacityID := range b.CapacityIDs {
		if _, err := r.db.ExecContext(ctx, `
			INSERT INTO bootcamp_capacity (bootcamp_id, capacity_id)
			VALUES ($1, $2)
		`, saved.ID, capacityID); err != nil {
			return nil, fmt.Errorf("save capacity link %d: %w", capacityID, err)
		}
	}
	return &saved, nil
}

func (r *BootcampRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM bootcamp WHERE name = $1)
	`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by name: %w", err)
	}
	return exists, nil
}

func (r *BootcampRepo) FindExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM bootcamp WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("find existing ids: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]struct{}, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

func (r *BootcampRepo) FindPage(ctx context.Context, p domain.PaginationRequest) ([]domain.Bootcamp, error) {
	q := fmt.Sprintf(`
		SELECT b.id, b.name, b.description, b.launch_date, b.duration
		FROM bootcamp b
		LEFT JOIN bootcamp_capacity bc ON b.id = bc.bootcamp_id
		GROUP BY b.id, b.name, b.description, b.launch_date, b.duration
		ORDER BY %s
		LIMIT $1 OFFSET $2
	`, orderByClause(p))

	rows, err := r.db.QueryContext(ctx, q, p.Size, p.Offset())
	if err != nil {
		return nil, fmt.Errorf("find page: %w", err)
	}
	defer rows.Close()

	var out []domain.Bootcamp
	for rows.Next() {
		var b domain.Bootcamp
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.LaunchDate, &b.Duration); err != nil {
			return nil, fmt.Errorf("scan bootcamp: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		ids, err := r.FindCapacityIDsByBootcamp(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].CapacityIDs = ids
	}
	return out, nil
}

// orderByClause maps the requested sort onto SQL. technology-count orders
// by the number of linked capacities with a stable name tie-break,
// matching the ordering the catalog side exposes.
func orderByClause(p domain.PaginationRequest) string {
	dir := "ASC"
	if p.SortDirection == domain.SortDesc {
		dir = "DESC"
	}
	if p.SortBy == domain.SortByTechnologyCount {
		return "COUNT(bc.capacity_id) " + dir + ", b.name ASC"
	}
	return "b.name " + dir
}

func (r *BootcampRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bootcamp`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count bootcamps: %w", err)
	}
	return total, nil
}

func (r *BootcampRepo) FindByID(ctx context.Context, id int64) (*domain.Bootcamp, error) {
	var b domain.Bootcamp
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, launch_date, duration
		FROM bootcamp WHERE id = $1
	`, id).Scan(&b.ID, &b.Name, &b.Description, &b.LaunchDate, &b.Duration)
	if err == sql.ErrNoRows {
		return nil, errs.NewBusiness(errs.BootcampNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find bootcamp: %w", err)
	}

	ids, err := r.FindCapacityIDsByBootcamp(ctx, id)
	if err != nil {
		return nil, err
	}
	b.CapacityIDs = ids
	return &b, nil
}

func (r *BootcampRepo) FindCapacityIDsByBootcamp(ctx context.Context, id int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT capacity_id FROM bootcamp_capacity
		WHERE bootcamp_id = $1 ORDER BY capacity_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("find capacity ids: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var capacityID int64
		if err := rows.Scan(&capacityID); err != nil {
			return nil, fmt.Errorf("scan capacity id: %w", err)
		}
		out = append(out, capacityID)
	}
	return out, rows.Err()
}

func (r *BootcampRepo) CountBootcampsReferencingCapacity(ctx context.Context, capacityID int64) (int64, error) {
	var refs int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT bootcamp_id) FROM bootcamp_capacity
		WHERE capacity_id = $1
	`, capacityID).Scan(&refs)
	if err != nil {
		return 0, fmt.Errorf("count capacity references: %w", err)
	}
	return refs, nil
}

func (r *BootcampRepo) DeleteLinksByBootcamp(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM bootcamp_capacity WHERE bootcamp_id = $1
	`, id); err != nil {
		return fmt.Errorf("delete capacity links: %w", err)
	}
	return nil
}

func (r *BootcampRepo) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bootcamp WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bootcamp: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errs.NewBusiness(errs.BootcampNotFound)
	}
	return nil
}
