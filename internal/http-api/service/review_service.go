package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/metrics"
)

// ReviewListCache is the cache-aside layer for paginated listings. A nil
// implementation is valid; the service then always hits the store.
type ReviewListCache interface {
	GetList(ctx context.Context, key string) (*dto.PaginatedReviewResponse, bool)
	SetList(ctx context.Context, key string, resp *dto.PaginatedReviewResponse)
	Invalidate(ctx context.Context)
}

type ReviewService interface {
	Create(ctx context.Context, authorID string, req dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ReviewResponse, error)
	List(ctx context.Context, filter repository.ReviewListFilter, page, pageSize int) (*dto.PaginatedReviewResponse, error)
	Delete(ctx context.Context, id, requesterID string) error

	// Upvote and RecordView apply one engagement event per user per
	// review. The bool reports whether the event was applied; a repeat
	// from the same user is a no-op, not an error.
	Upvote(ctx context.Context, id, userID string) (bool, error)
	RecordView(ctx context.Context, id, userID string) (bool, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	userRepo    repository.UserRepository
	userService UserService
	trust       *TrustService
	cache       ReviewListCache
	metrics     *metrics.Metrics
	clock       clockwork.Clock
	logger      *slog.Logger
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	userService UserService,
	trust *TrustService,
	cache ReviewListCache,
	m *metrics.Metrics,
	clock clockwork.Clock,
	logger *slog.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		userRepo:    userRepo,
		userService: userService,
		trust:       trust,
		cache:       cache,
		metrics:     m,
		clock:       clock,
		logger:      logger,
	}
}

// Create stores a new review with its trust score computed once from the
// state at submission time, then rebuilds the author's aggregate.
func (s *reviewService) Create(ctx context.Context, authorID string, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	author, err := s.userRepo.FindByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	review := req.ToModel(authorID)
	review.CreatedAt = s.clock.Now().UTC()
	review.TrustScore = s.trust.ComputeTrustScore(review, author.Name())

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	if _, err := s.userService.RecomputeUserAggregate(ctx, authorID); err != nil {
		// The review is stored; a stale aggregate self-heals on the next
		// write or bulk recompute.
		s.logger.Warn("aggregate recompute after create failed", "user_id", authorID, "error", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	if s.metrics != nil {
		s.metrics.ReviewCreated(review.TrustScore)
	}
	s.logger.Info("review created",
		"review_id", review.ID.Hex(), "author_id", authorID, "trust_score", review.TrustScore)

	return dto.FromModelToReviewResponse(review, models.ResolveAuthor(author)), nil
}

func (s *reviewService) GetByID(ctx context.Context, id string) (*dto.ReviewResponse, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrReviewNotFound
	}

	review, err := s.reviewRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	return dto.FromModelToReviewResponse(review, s.resolveAuthor(ctx, review.AuthorID)), nil
}

// List returns a page of reviews, served from cache when possible.
func (s *reviewService) List(ctx context.Context, filter repository.ReviewListFilter, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	key := listCacheKey(filter, page, pageSize)
	if s.cache != nil {
		if resp, ok := s.cache.GetList(ctx, key); ok {
			return resp, nil
		}
	}

	reviews, total, err := s.reviewRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	authors := make(map[string]models.Author)
	data := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		author, seen := authors[reviews[i].AuthorID]
		if !seen {
			author = s.resolveAuthor(ctx, reviews[i].AuthorID)
			authors[reviews[i].AuthorID] = author
		}
		data = append(data, *dto.FromModelToReviewResponse(&reviews[i], author))
	}

	resp := dto.NewPaginatedReviewResponse(data, int(total), page, pageSize)
	if s.cache != nil {
		s.cache.SetList(ctx, key, resp)
	}
	return resp, nil
}

// Delete removes a review on behalf of its author. Moderation removal
// goes through AdminService instead.
func (s *reviewService) Delete(ctx context.Context, id, requesterID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
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
	if review.AuthorID != requesterID {
		return ErrNotOwner
	}

	if err := s.reviewRepo.Delete(ctx, oid, requesterID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if _, err := s.userService.RecomputeUserAggregate(ctx, requesterID); err != nil {
		s.logger.Warn("aggregate recompute after delete failed", "user_id", requesterID, "error", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return nil
}

func (s *reviewService) Upvote(ctx context.Context, id, userID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrReviewNotFound
	}

	applied, err := s.reviewRepo.AddUpvote(ctx, oid, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrReviewNotFound
		}
		return false, err
	}
	if applied && s.metrics != nil {
		s.metrics.UpvoteApplied()
	}
	return applied, nil
}

func (s *reviewService) RecordView(ctx context.Context, id, userID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrReviewNotFound
	}

	applied, err := s.reviewRepo.AddView(ctx, oid, userID, s.clock.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrReviewNotFound
		}
		return false, err
	}
	if applied && s.metrics != nil {
		s.metrics.ViewRecorded()
	}
	return applied, nil
}

// resolveAuthor maps a missing or unreadable author to Anonymous rather
// than failing the read.
func (s *reviewService) resolveAuthor(ctx context.Context, authorID string) models.Author {
	user, err := s.userRepo.FindByID(ctx, authorID)
	if err != nil {
		return models.Anonymous
	}
	return models.ResolveAuthor(user)
}

func listCacheKey(filter repository.ReviewListFilter, page, pageSize int) string {
	return fmt.Sprintf("c=%s|s=%s|t=%s|a=%s|p=%d|n=%d",
		filter.Category, filter.Subcategory, filter.Tag, filter.AuthorID, page, pageSize)
}
