package bootcamp

import (
	"context"
	"strings"
	"time"

	"github.com/onclass/bootcamp-api/internal/domain"
	"github.com/onclass/bootcamp-api/internal/errs"
	"github.com/onclass/bootcamp-api/internal/pkg/logger"
)

const (
	maxNameLength        = 50
	maxDescriptionLength = 90
	minCapacities        = 1
	maxCapacities        = 4
	minDuration          = 1
)

// Service orchestrates bootcamp lifecycle operations across local storage
// and the capacity service. Each request's working state is local to the
// call; the service holds no mutable state of its own.
type Service struct {
	repo       Repository
	capacities CapacityClient
	recorder   DeletionRecorder
	now        func() time.Time
}

// NewService creates a bootcamp service. recorder may be nil when no
// reconciliation store is configured.
func NewService(repo Repository, capacities CapacityClient, recorder DeletionRecorder) *Service {
	return &Service{
		repo:       repo,
		capacities: capacities,
		recorder:   recorder,
		now:        time.Now,
	}
}

// Register validates and persists a new bootcamp. All local checks run
// before any I/O; the capacity service is consulted before the name
// uniqueness check against storage.
func (s *Service) Register(ctx context.Context, b *domain.Bootcamp, messageID string) (*domain.Bootcamp, error) {
	if err := s.validate(b); err != nil {
		return nil, err
	}

	existing, err := s.capacities.CheckExist(ctx, b.CapacityIDs, messageID)
	if err != nil {
		return nil, err
	}
	for _, id := range b.CapacityIDs {
		if !existing[id] {
			return nil, errs.NewBusiness(errs.CapacitiesNotFound)
		}
	}

	taken, err := s.repo.ExistsByName(ctx, b.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.NewBusiness(errs.BootcampAlreadyExists)
	}

	saved, err := s.repo.Save(ctx, b)
	if err != nil {
		return nil, err
	}
	logger.Info("bootcamp registered",
		"message_id", messageID, "bootcamp_id", saved.ID, "name", saved.Name)
	return saved, nil
}

// CheckExist returns a map covering every requested id with whether it
// exists. Empty input returns an empty map without touching storage.
func (s *Service) CheckExist(ctx context.Context, ids []int64, messageID string) (map[int64]bool, error) {
	if len(ids) == 0 {
		return map[int64]bool{}, nil
	}

	existing, err := s.repo.FindExistingIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		_, ok := existing[id]
		out[id] = ok
	}
	return out, nil
}

// List returns one page of bootcamps enriched with their capacity
// summaries. Total count and the page slice are fetched concurrently;
// enrichment then runs sequentially in slice order so the response order
// matches the requested sort.
func (s *Service) List(ctx context.Context, p domain.PaginationRequest, messageID string) (domain.Page[domain.BootcampWithCapacities], error) {
	var empty domain.Page[domain.BootcampWithCapacities]

	type countResult struct {
		total int64
		err   error
	}
	countCh := make(chan countResult, 1)
	go func() {
		total, err := s.repo.Count(ctx)
		countCh <- countResult{total, err}
	}()

	slice, err := s.repo.FindPage(ctx, p)
	count := <-countCh
	if err != nil {
		return empty, err
	}
	if count.err != nil {
		return empty, count.err
	}

	if len(slice) == 0 {
		return domain.NewPage([]domain.BootcampWithCapacities{}, p.Page, p.Size, count.total), nil
	}

	enriched := make([]domain.BootcampWithCapacities, 0, len(slice))
	for _, b := range slice {
		item, err := s.enrich(ctx, b, messageID)
		if err != nil {
			return empty, err
		}
		enriched = append(enriched, item)
	}
	return domain.NewPage(enriched, p.Page, p.Size, count.total), nil
}

// GetByID returns one bootcamp enriched with its capacity summaries.
func (s *Service) GetByID(ctx context.Context, id int64, messageID string) (domain.BootcampWithCapacities, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.BootcampWithCapacities{}, err
	}
	return s.enrich(ctx, *b, messageID)
}

// Delete removes a bootcamp and cascades to the capacity service for every
// capacity no other bootcamp references. Link rows go first, then the
// upstream delete, then the bootcamp row; an upstream failure aborts the
// deletion after the links are already gone, which is recorded for
// reconciliation.
func (s *Service) Delete(ctx context.Context, id int64, messageID string) error {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	capacityIDs, err := s.repo.FindCapacityIDsByBootcamp(ctx, id)
	if err != nil {
		return err
	}

	if len(capacityIDs) == 0 {
		if err := s.repo.DeleteLinksByBootcamp(ctx, id); err != nil {
			return err
		}
		return s.repo.DeleteByID(ctx, id)
	}

	// Reference counts are taken one capacity at a time; a capacity is
	// delete-eligible only when this bootcamp is its last reference.
	var orphaned []int64
	for _, capacityID := range capacityIDs {
		refs, err := s.repo.CountBootcampsReferencingCapacity(ctx, capacityID)
		if err != nil {
			return err
		}
		if refs <= 1 {
			orphaned = append(orphaned, capacityID)
		}
	}

	if err := s.repo.DeleteLinksByBootcamp(ctx, id); err != nil {
		return err
	}

	if len(orphaned) > 0 {
		if err := s.capacities.DeleteByIDs(ctx, orphaned, messageID); err != nil {
			if s.recorder != nil {
				s.recorder.RecordFailedDeletion(ctx, id, orphaned, messageID)
			}
			return err
		}
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	logger.Info("bootcamp deleted",
		"message_id", messageID, "bootcamp_id", b.ID, "orphaned_capacities", len(orphaned))
	return nil
}

// enrich resolves a bootcamp's capacity ids against the capacity service.
// A bootcamp with no linked capacities yields an empty list without an
// external call.
func (s *Service) enrich(ctx context.Context, b domain.Bootcamp, messageID string) (domain.BootcampWithCapacities, error) {
	out := domain.BootcampWithCapacities{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		LaunchDate:  b.LaunchDate,
		Duration:    b.Duration,
		Capacities:  []domain.CapacitySummary{},
	}

	capacityIDs := b.CapacityIDs
	if capacityIDs == nil {
		ids, err := s.repo.FindCapacityIDsByBootcamp(ctx, b.ID)
		if err != nil {
			return domain.BootcampWithCapacities{}, err
		}
		capacityIDs = ids
	}
	if len(capacityIDs) == 0 {
		return out, nil
	}

	summaries, err := s.capacities.GetWithTechnologies(ctx, capacityIDs, messageID)
	if err != nil {
		return domain.BootcampWithCapacities{}, err
	}
	out.Capacities = summaries
	return out, nil
}

// validate runs the local checks in their contractual order. No I/O
// happens here; the first failure wins.
func (s *Service) validate(b *domain.Bootcamp) error {
	if strings.TrimSpace(b.Name) == "" {
		return errs.NewBusiness(errs.NameRequired)
	}
	if strings.TrimSpace(b.Description) == "" {
		return errs.NewBusiness(errs.DescriptionRequired)
	}
	if len(b.Name) > maxNameLength {
		return errs.NewBusiness(errs.NameTooLong)
	}
	if len(b.Description) > maxDescriptionLength {
		return errs.NewBusiness(errs.DescriptionTooLong)
	}
	if b.LaunchDate.IsZero() {
		return errs.NewBusiness(errs.LaunchDateRequired)
	}
	if b.LaunchDate.Before(startOfDay(s.now())) {
		return errs.NewBusiness(errs.LaunchDatePast)
	}
	if b.Duration < minDuration {
		return errs.NewBusiness(errs.DurationInvalid)
	}
	if len(b.CapacityIDs) < minCapacities {
		return errs.NewBusiness(errs.CapacitiesRequired)
	}
	if len(b.CapacityIDs) > maxCapacities {
		return errs.NewBusiness(errs.CapacitiesMax)
	}
	seen := make(map[int64]struct{}, len(b.CapacityIDs))
	for _, id := range b.CapacityIDs {
		if _, dup := seen[id]; dup {
			return errs.NewBusiness(errs.CapacitiesDuplicated)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
