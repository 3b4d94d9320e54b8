package service

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

const (
	trendingLimit    = 10
	weeklyLimit      = 3
	weeklyWindow     = 7 * 24 * time.Hour
	leaderboardLimit = 50
)

// RankingService produces the three ranked projections. All of them are
// computed on demand from current stored state with a hard result cap;
// nothing is maintained incrementally.
type RankingService interface {
	Trending(ctx context.Context) ([]dto.ReviewSummary, error)
	WeeklyMostViewed(ctx context.Context) ([]dto.ReviewSummary, error)
	Leaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error)
}

type rankingService struct {
	reviewRepo repository.ReviewRepository
	userRepo   repository.UserRepository
	clock      clockwork.Clock
}

func NewRankingService(reviewRepo repository.ReviewRepository, userRepo repository.UserRepository, clock clockwork.Clock) RankingService {
	return &rankingService{
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		clock:      clock,
	}
}

// Trending returns the top reviews by (views, upvotes, createdAt), each
// descending, capped at 10.
func (s *rankingService) Trending(ctx context.Context) ([]dto.ReviewSummary, error) {
	reviews, err := s.reviewRepo.Trending(ctx, trendingLimit)
	if err != nil {
		return nil, err
	}

	authors := s.resolveAuthors(ctx, reviews)
	summaries := make([]dto.ReviewSummary, 0, len(reviews))
	for i := range reviews {
		summaries = append(summaries, dto.FromModelToReviewSummary(&reviews[i], authors[reviews[i].AuthorID]))
	}
	return summaries, nil
}

// WeeklyMostViewed returns the top 3 reviews by views inside the last
// 7 days. A review whose latest view predates the window is excluded no
// matter its all-time count.
func (s *rankingService) WeeklyMostViewed(ctx context.Context) ([]dto.ReviewSummary, error) {
	since := s.clock.Now().Add(-weeklyWindow)
	ranked, err := s.reviewRepo.WeeklyMostViewed(ctx, since, weeklyLimit)
	if err != nil {
		return nil, err
	}

	reviews := make([]models.Review, 0, len(ranked))
	for _, r := range ranked {
		reviews = append(reviews, r.Review)
	}
	authors := s.resolveAuthors(ctx, reviews)

	summaries := make([]dto.ReviewSummary, 0, len(ranked))
	for i := range ranked {
		summary := dto.FromModelToReviewSummary(&ranked[i].Review, authors[ranked[i].AuthorID])
		summary.RecentViews = ranked[i].RecentViews
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Leaderboard returns up to 50 public users with at least one review,
// ranked by mean trust score then review count.
func (s *rankingService) Leaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error) {
	users, err := s.userRepo.Leaderboard(ctx, leaderboardLimit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, dto.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			AvatarURL:   u.AvatarURL,
			ReviewCount: u.ReviewCount,
			TrustScore:  u.TrustScore,
		})
	}
	return entries, nil
}

// resolveAuthors looks up each distinct author once and maps dangling
// references to Anonymous.
func (s *rankingService) resolveAuthors(ctx context.Context, reviews []models.Review) map[string]models.Author {
	authors := make(map[string]models.Author)
	for _, r := range reviews {
		if _, seen := authors[r.AuthorID]; seen {
			continue
		}
		user, err := s.userRepo.FindByID(ctx, r.AuthorID)
		if err != nil {
			authors[r.AuthorID] = models.Anonymous
			continue
		}
		authors[r.AuthorID] = models.ResolveAuthor(user)
	}
	return authors
}
