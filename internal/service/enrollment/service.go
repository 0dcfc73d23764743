package enrollment

import (
	"context"

	"github.com/onclass/bootcamp-api/internal/domain"
	"github.com/onclass/bootcamp-api/internal/errs"
	"github.com/onclass/bootcamp-api/internal/pkg/logger"
)

// maxBootcampsPerUser caps a user's simultaneous active enrollments.
const maxBootcampsPerUser = 5

// Service orchestrates enrollment operations across the enrollment store,
// the bootcamp store and the user service.
type Service struct {
	repo      Repository
	bootcamps BootcampStore
	users     UserClient
}

// NewService creates an enrollment service.
func NewService(repo Repository, bootcamps BootcampStore, users UserClient) *Service {
	return &Service{repo: repo, bootcamps: bootcamps, users: users}
}

// Enroll enrolls a user in a bootcamp. Checks run strictly in order: user
// exists, bootcamp exists, pair not already enrolled, cap not reached, no
// date conflict with any current enrollment. Only then is the row written.
func (s *Service) Enroll(ctx context.Context, bootcampID, userID int64, messageID string) (*domain.BootcampEnrollment, error) {
	if err := s.requireUser(ctx, userID, messageID); err != nil {
		return nil, err
	}

	b, err := s.bootcamps.FindByID(ctx, bootcampID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.repo.IsEnrolled(ctx, bootcampID, userID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		logger.Warn("duplicate enrollment attempt",
			"message_id", messageID, "bootcamp_id", bootcampID, "user_id", userID)
		return nil, errs.NewBusiness(errs.UserAlreadyEnrolled)
	}

	count, err := s.repo.CountActiveEnrollments(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= maxBootcampsPerUser {
		logger.Warn("enrollment cap reached",
			"message_id", messageID, "user_id", userID, "active", count)
		return nil, errs.NewBusiness(errs.MaxBootcampsReached)
	}

	if err := s.checkDateConflicts(ctx, *b, userID, messageID); err != nil {
		return nil, err
	}

	e, err := s.repo.Enroll(ctx, bootcampID, userID)
	if err != nil {
		return nil, err
	}
	logger.Info("user enrolled",
		"message_id", messageID, "bootcamp_id", bootcampID, "user_id", userID)
	return e, nil
}

// Unenroll removes an active enrollment.
func (s *Service) Unenroll(ctx context.Context, bootcampID, userID int64, messageID string) error {
	enrolled, err := s.repo.IsEnrolled(ctx, bootcampID, userID)
	if err != nil {
		return err
	}
	if !enrolled {
		return errs.NewBusiness(errs.EnrollmentNotFound)
	}

	if err := s.repo.Unenroll(ctx, bootcampID, userID); err != nil {
		return err
	}
	logger.Info("user unenrolled",
		"message_id", messageID, "bootcamp_id", bootcampID, "user_id", userID)
	return nil
}

// UserBootcamps returns the bootcamps the user is enrolled in, in
// enrollment order. Results are resolved fresh on every call.
func (s *Service) UserBootcamps(ctx context.Context, userID int64, messageID string) ([]domain.Bootcamp, error) {
	if err := s.requireUser(ctx, userID, messageID); err != nil {
		return nil, err
	}
	return s.repo.FindBootcampsByUser(ctx, userID)
}

// UserIDsByBootcamp returns the user ids enrolled in a bootcamp. An absent
// bootcamp simply yields an empty result; no existence check is made.
func (s *Service) UserIDsByBootcamp(ctx context.Context, bootcampID int64, messageID string) ([]int64, error) {
	return s.repo.FindUserIDsByBootcamp(ctx, bootcampID)
}

// checkDateConflicts rejects the enrollment when the new bootcamp's date
// range touches any bootcamp the user is already enrolled in. Boundaries
// are inclusive on both sides.
func (s *Service) checkDateConflicts(ctx context.Context, newBootcamp domain.Bootcamp, userID int64, messageID string) error {
	current, err := s.repo.FindBootcampsByUser(ctx, userID)
	if err != nil {
		return err
	}

	for _, existing := range current {
		if newBootcamp.Overlaps(existing) {
			logger.Warn("enrollment date conflict",
				"message_id", messageID, "user_id", userID,
				"new_bootcamp", newBootcamp.ID, "existing_bootcamp", existing.ID)
			return errs.NewBusiness(errs.DateConflict)
		}
	}
	return nil
}

func (s *Service) requireUser(ctx context.Context, userID int64, messageID string) error {
	existing, err := s.users.CheckExist(ctx, []int64{userID}, messageID)
	if err != nil {
		return err
	}
	if !existing[userID] {
		logger.Warn("unknown user", "message_id", messageID, "user_id", userID)
		return errs.NewBusiness(errs.UserNotFound)
	}
	return nil
}
