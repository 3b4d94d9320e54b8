package service

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"go.mongodb.org/mongo-driver/bson"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

type UserService interface {
	GetProfile(ctx context.Context, id, viewerID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, id string, req dto.UpdateProfileDTO) (*dto.UserResponse, error)

	// RecomputeUserAggregate rebuilds the denormalized review count and
	// mean trust score for one user from their authored reviews.
	RecomputeUserAggregate(ctx context.Context, userID string) (*dto.UserAggregate, error)

	// RecomputeAllAggregates is the administrative bulk rebuild. It is
	// idempotent and safe to re-run; it returns the number of users
	// updated.
	RecomputeAllAggregates(ctx context.Context) (int, error)
}

type userService struct {
	userRepo   repository.UserRepository
	reviewRepo repository.ReviewRepository
	logger     *slog.Logger
}

func NewUserService(userRepo repository.UserRepository, reviewRepo repository.ReviewRepository, logger *slog.Logger) UserService {
	return &userService{
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		logger:     logger,
	}
}

// GetProfile returns a user's profile. Private profiles are visible only
// to their owner.
func (s *userService) GetProfile(ctx context.Context, id, viewerID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsPublic && user.ID != viewerID {
		return nil, ErrPrivateProfile
	}

	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, req dto.UpdateProfileDTO) (*dto.UserResponse, error) {
	fields := bson.M{}
	if req.DisplayName != nil {
		fields["display_name"] = *req.DisplayName
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}
	if req.IsPublic != nil {
		fields["is_public"] = *req.IsPublic
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateProfile(ctx, id, fields); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) RecomputeUserAggregate(ctx context.Context, userID string) (*dto.UserAggregate, error) {
	stats, err := s.reviewRepo.TrustStatsByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	aggregate := &dto.UserAggregate{
		ReviewCount: stats.ReviewCount,
		TrustScore:  models.DefaultTrustScore,
	}
	if stats.ReviewCount > 0 {
		aggregate.TrustScore = int(math.Round(stats.AvgTrust))
	}

	if err := s.userRepo.UpdateAggregates(ctx, userID, aggregate.ReviewCount, aggregate.TrustScore); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return aggregate, nil
}

func (s *userService) RecomputeAllAggregates(ctx context.Context) (int, error) {
	ids, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, id := range ids {
		if _, err := s.RecomputeUserAggregate(ctx, id); err != nil {
			// Keep going; a single failed user must not abort the bulk job
			s.logger.Warn("aggregate recompute failed", "user_id", id, "error", err)
			continue
		}
		updated++
	}

	s.logger.Info("bulk aggregate recompute finished", "users", updated, "total", len(ids))
	return updated, nil
}
