package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

func TestTrending_ResolvesAuthorsOnce(t *testing.T) {
	mockReviewRepo := new(MockReviewRepository)
	mockUserRepo := new(MockUserRepository)
	svc := NewRankingService(mockReviewRepo, mockUserRepo, clockwork.NewFakeClockAt(trustTestTime))

	reviews := []models.Review{
		{ID: primitive.NewObjectID(), Title: "first", AuthorID: "u1", Views: 90},
		{ID: primitive.NewObjectID(), Title: "second", AuthorID: "u1", Views: 70},
		{ID: primitive.NewObjectID(), Title: "third", AuthorID: "u2", Views: 50},
	}
	mockReviewRepo.On("Trending", mock.Anything, 10).Return(reviews, nil)

	// One lookup per distinct author
	mockUserRepo.On("FindByID", mock.Anything, "u1").Return(&models.User{ID: "u1", Username: "alice"}, nil).Once()
	mockUserRepo.On("FindByID", mock.Anything, "u2").Return(&models.User{ID: "u2", Username: "bob"}, nil).Once()

	summaries, err := svc.Trending(context.Background())

	assert.NoError(t, err)
	assert.Len(t, summaries, 3)
	assert.Equal(t, "alice", summaries[0].AuthorName)
	assert.Equal(t, "alice", summaries[1].AuthorName)
	assert.Equal(t, "bob", summaries[2].AuthorName)
	mockUserRepo.AssertExpectations(t)
}

func TestTrending_DanglingAuthorBecomesAnonymous(t *testing.T) {
	mockReviewRepo := new(MockReviewRepository)
	mockUserRepo := new(MockUserRepository)
	svc := NewRankingService(mockReviewRepo, mockUserRepo, clockwork.NewFakeClockAt(trustTestTime))

	reviews := []models.Review{{ID: primitive.NewObjectID(), AuthorID: "ghost"}}
	mockReviewRepo.On("Trending", mock.Anything, 10).Return(reviews, nil)
	mockUserRepo.On("FindByID", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	summaries, err := svc.Trending(context.Background())

	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, models.Anonymous.Name, summaries[0].AuthorName)
}

func TestTrending_StoreFailurePropagates(t *testing.T) {
	mockReviewRepo := new(MockReviewRepository)
	mockUserRepo := new(MockUserRepository)
	svc := NewRankingService(mockReviewRepo, mockUserRepo, clockwork.NewFakeClockAt(trustTestTime))

	mockReviewRepo.On("Trending", mock.Anything, 10).Return(nil, errors.New("store down"))

	summaries, err := svc.Trending(context.Background())

	assert.Error(t, err)
	assert.Nil(t, summaries)
}

func TestWeeklyMostViewed_UsesSevenDayWindow(t *testing.T) {
	mockReviewRepo := new(MockReviewRepository)
	mockUserRepo := new(MockUserRepository)
	clock := clockwork.NewFakeClockAt(trustTestTime)
	svc := NewRankingService(mockReviewRepo, mockUserRepo, clock)

	expectedSince := trustTestTime.Add(-7 * 24 * time.Hour)
	ranked := []repository.ReviewWithRecentViews{
		{
			Review:      models.Review{ID: primitive.NewObjectID(), Title: "hot", AuthorID: "u1", Views: 120},
			RecentViews: 40,
		},
	}
	mockReviewRepo.On("WeeklyMostViewed", mock.Anything, expectedSince, 3).Return(ranked, nil)
	mockUserRepo.On("FindByID", mock.Anything, "u1").Return(&models.User{ID: "u1", Username: "alice"}, nil)

	summaries, err := svc.WeeklyMostViewed(context.Background())

	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, 40, summaries[0].RecentViews)
	assert.Equal(t, 120, summaries[0].Views)
	mockReviewRepo.AssertExpectations(t)
}

func TestLeaderboard_AssignsRanks(t *testing.T) {
	mockReviewRepo := new(MockReviewRepository)
	mockUserRepo := new(MockUserRepository)
	svc := NewRankingService(mockReviewRepo, mockUserRepo, clockwork.NewFakeClockAt(trustTestTime))

	users := []models.User{
		{ID: "u1", Username: "alice", TrustScore: 90, ReviewCount: 12},
		{ID: "u2", Username: "bob", TrustScore: 75, ReviewCount: 4},
	}
	mockUserRepo.On("Leaderboard", mock.Anything, 50).Return(users, nil)

	entries, err := svc.Leaderboard(context.Background())

	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "bob", entries[1].Username)
}

func TestLeaderboard_EmptyStore(t *testing.T) {
	mockReviewRepo := new(MockReviewRepository)
	mockUserRepo := new(MockUserRepository)
	svc := NewRankingService(mockReviewRepo, mockUserRepo, clockwork.NewFakeClockAt(trustTestTime))

	mockUserRepo.On("Leaderboard", mock.Anything, 50).Return([]models.User{}, nil)

	entries, err := svc.Leaderboard(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, entries)
}
