package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

// AdminService covers moderation and role management. The admin passkey
// lives in the runtime config store, so updating it takes effect without
// a restart.
type AdminService interface {
	// SoftRemoveReview hides a review from public reads. The document is
	// kept so the author rollup still counts it.
	SoftRemoveReview(ctx context.Context, reviewID string) error

	// ElevateUser promotes a user to admin when the passkey matches.
	ElevateUser(ctx context.Context, userID, passkey string) error

	UpdatePasskey(ctx context.Context, newPasskey string) error
}

type adminService struct {
	reviewRepo  repository.ReviewRepository
	userRepo    repository.UserRepository
	configRepo  repository.ConfigRepository
	userService UserService
	cache       ReviewListCache
	logger      *slog.Logger
}

func NewAdminService(
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	configRepo repository.ConfigRepository,
	userService UserService,
	cache ReviewListCache,
	logger *slog.Logger,
) AdminService {
	return &adminService{
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		configRepo:  configRepo,
		userService: userService,
		cache:       cache,
		logger:      logger,
	}
}

func (s *adminService) SoftRemoveReview(ctx context.Context, reviewID string) error {
	oid, err := primitive.ObjectIDFromHex(reviewID)
	if err != nil {
		return ErrReviewNotFound
	}

	review, err := s.reviewRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if err := s.reviewRepo.SoftRemove(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	// Removed reviews still count toward the author's aggregate, but the
	// recompute keeps the pair consistent with any concurrent writes.
	if _, err := s.userService.RecomputeUserAggregate(ctx, review.AuthorID); err != nil {
		s.logger.Warn("aggregate recompute after removal failed", "user_id", review.AuthorID, "error", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	s.logger.Info("review removed by moderation", "review_id", reviewID, "author_id", review.AuthorID)
	return nil
}

func (s *adminService) ElevateUser(ctx context.Context, userID, passkey string) error {
	stored, err := s.configRepo.Get(ctx, models.ConfigKeyAdminPasskey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidPasskey
		}
		return err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(passkey)) != 1 {
		return ErrInvalidPasskey
	}

	if err := s.userRepo.SetRole(ctx, userID, models.RoleAdmin); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.logger.Info("user elevated to admin", "user_id", userID)
	return nil
}

func (s *adminService) UpdatePasskey(ctx context.Context, newPasskey string) error {
	if err := s.configRepo.Set(ctx, models.ConfigKeyAdminPasskey, newPasskey); err != nil {
		return err
	}
	s.logger.Info("admin passkey updated")
	return nil
}
