package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/onclass/bootcamp-api/internal/domain"
	"github.com/onclass/bootcamp-api/internal/errs"
)

// EnrollmentRepo implements enrollment.Repository against PostgreSQL.
type EnrollmentRepo struct{ db *sql.DB }

// NewEnrollmentRepo creates a Postgres-backed enrollment repository.
func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo { return &EnrollmentRepo{db: db} }

// Enroll inserts the enrollment row. A unique-index conflict on the pair
// wins any race the orchestrator's pre-check lost.
func (r *EnrollmentRepo) Enroll(ctx context.Context, bootcampID, userID int64) (*domain.BootcampEnrollment, error) {
	e := &domain.BootcampEnrollment{BootcampID: bootcampID, UserID: userID}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO bootcamp_user (bootcamp_id, user_id, enrolled_at)
		VALUES ($1, $2, NOW())
		RETURNING id, enrolled_at
	`, bootcampID, userID).Scan(&e.ID, &e.EnrolledAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errs.NewBusiness(errs.UserAlreadyEnrolled)
		}
		return nil, fmt.Errorf("enroll user: %w", err)
	}
	return e, nil
}

func (r *EnrollmentRepo) Unenroll(ctx context.Context, bootcampID, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM bootcamp_user WHERE bootcamp_id = $1 AND user_id = $2
	`, bootcampID, userID)
	if err != nil {
		return fmt.Errorf("unenroll user: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errs.NewBusiness(errs.EnrollmentNotFound)
	}
	return nil
}

func (r *EnrollmentRepo) IsEnrolled(ctx context.Context, bootcampID, userID int64) (bool, error) {
	var enrolled bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bootcamp_user WHERE bootcamp_id = $1 AND user_id = $2
		)
	`, bootcampID, userID).Scan(&enrolled)
	if err != nil {
		return false, fmt.Errorf("is enrolled: %w", err)
	}
	return enrolled, nil
}

func (r *EnrollmentRepo) CountActiveEnrollments(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bootcamp_user WHERE user_id = $1
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return count, nil
}

func (r *EnrollmentRepo) FindBootcampsByUser(ctx context.Context, userID int64) ([]domain.Bootcamp, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT b.id, b.name, b.description, b.launch_date, b.duration
		FROM bootcamp b
		JOIN bootcamp_user bu ON b.id = bu.bootcamp_id
		WHERE bu.user_id = $1
		ORDER BY bu.enrolled_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("find bootcamps by user: %w", err)
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
	return out, rows.Err()
}

func (r *EnrollmentRepo) FindUserIDsByBootcamp(ctx context.Context, bootcampID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id FROM bootcamp_user
		WHERE bootcamp_id = $1 ORDER BY enrolled_at
	`, bootcampID)
	if err != nil {
		return nil, fmt.Errorf("find user ids by bootcamp: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		out = append(out, userID)
	}
	return out, rows.Err()
}
