package bootcamp

import (
	"context"

	"github.com/onclass/bootcamp-api/internal/domain"
)

// Repository defines the persistence contract for bootcamps and their
// capacity links. Implementations must be safe for concurrent use.
type Repository interface {
	// Save inserts a bootcamp and its capacity link rows and returns the
	// stored record including the assigned id. A name collision surfaces
	// as the BootcampAlreadyExists business error.
	Save(ctx context.Context, b *domain.Bootcamp) (*domain.Bootcamp, error)

	// ExistsByName reports whether a bootcamp with that exact name exists.
	ExistsByName(ctx context.Context, name string) (bool, error)

	// FindExistingIDs returns the subset of ids that exist in storage.
	FindExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error)

	// FindPage returns one sorted page of bootcamps, capacity ids included.
	FindPage(ctx context.Context, p domain.PaginationRequest) ([]domain.Bootcamp, error)

	// Count returns the total number of bootcamps.
	Count(ctx context.Context) (int64, error)

	// FindByID returns a bootcamp, or the BootcampNotFound business error.
	FindByID(ctx context.Context, id int64) (*domain.Bootcamp, error)

	// FindCapacityIDsByBootcamp returns the capacity ids linked to a bootcamp.
	FindCapacityIDsByBootcamp(ctx context.Context, id int64) ([]int64, error)

	// CountBootcampsReferencingCapacity returns how many bootcamps link the
	// given capacity.
	CountBootcampsReferencingCapacity(ctx context.Context, capacityID int64) (int64, error)

	// DeleteLinksByBootcamp removes all capacity link rows of a bootcamp.
	DeleteLinksByBootcamp(ctx context.Context, id int64) error

	// DeleteByID removes the bootcamp row.
	DeleteByID(ctx context.Context, id int64) error
}

// CapacityClient is the consumed surface of the capacity microservice.
type CapacityClient interface {
	CheckExist(ctx context.Context, ids []int64, messageID string) (map[int64]bool, error)
	GetWithTechnologies(ctx context.Context, ids []int64, messageID string) ([]domain.CapacitySummary, error)
	DeleteByIDs(ctx context.Context, ids []int64, messageID string) error
}

// DeletionRecorder captures upstream capacity deletions that failed after
// local link rows were removed. Implementations must be best-effort and
// must never return control-flow errors.
type DeletionRecorder interface {
	RecordFailedDeletion(ctx context.Context, bootcampID int64, capacityIDs []int64, messageID string)
}
