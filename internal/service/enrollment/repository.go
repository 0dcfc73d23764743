package enrollment

import (
	"context"

	"github.com/onclass/bootcamp-api/internal/domain"
)

// Repository defines the persistence contract for enrollments.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Enroll inserts an enrollment row and returns it with the assigned id
	// and timestamp. A duplicate pair surfaces as the UserAlreadyEnrolled
	// business error.
	Enroll(ctx context.Context, bootcampID, userID int64) (*domain.BootcampEnrollment, error)

	// Unenroll removes the enrollment row for the pair.
	Unenroll(ctx context.Context, bootcampID, userID int64) error

	// IsEnrolled reports whether the pair is currently enrolled.
	IsEnrolled(ctx context.Context, bootcampID, userID int64) (bool, error)

	// CountActiveEnrollments returns the user's active enrollment count.
	CountActiveEnrollments(ctx context.Context, userID int64) (int64, error)

	// FindBootcampsByUser returns the bootcamps a user is enrolled in,
	// in enrollment order.
	FindBootcampsByUser(ctx context.Context, userID int64) ([]domain.Bootcamp, error)

	// FindUserIDsByBootcamp returns the user ids enrolled in a bootcamp.
	FindUserIDsByBootcamp(ctx context.Context, bootcampID int64) ([]int64, error)
}

// BootcampStore is the slice of the bootcamp persistence surface the
// enrollment orchestrator needs.
type BootcampStore interface {
	// FindByID returns a bootcamp, or the BootcampNotFound business error.
	FindByID(ctx context.Context, id int64) (*domain.Bootcamp, error)
}

// UserClient is the consumed surface of the user microservice.
type UserClient interface {
	CheckExist(ctx context.Context, ids []int64, messageID string) (map[int64]bool, error)
}
