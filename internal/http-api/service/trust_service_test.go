package service

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"reviewhub/internal/http-api/models"
)

var trustTestTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestTrustService() *TrustService {
	return NewTrustService(clockwork.NewFakeClockAt(trustTestTime))
}

func TestComputeTrustScore_WorkedExample(t *testing.T) {
	svc := newTestTrustService()

	// Fresh review, solid content, Honest tag, no media, no engagement:
	// quality 1.0, engagement 0.0, credibility 1.0, recency 1.0, media 0.1
	// -> 0.25 + 0 + 0.25 + 0.15 + 0.015 = 0.665 -> 67
	review := &models.Review{
		Title:       "Great local coffee place",          // 24 chars
		Description: makeText(150),                       // 100..2000
		Rating:      4,
		Tags:        []string{"Honest"},
		CreatedAt:   trustTestTime.Add(-1 * time.Hour),
	}

	score := svc.ComputeTrustScore(review, "alice")
	assert.Equal(t, 67, score)
}

func TestComputeTrustScore_NilReview(t *testing.T) {
	svc := newTestTrustService()
	assert.Equal(t, 0, svc.ComputeTrustScore(nil, "alice"))
}

func TestComputeTrustScore_Deterministic(t *testing.T) {
	svc := newTestTrustService()
	review := &models.Review{
		Title:       "Solid experience overall",
		Description: makeText(300),
		Rating:      5,
		Tags:        []string{"Detailed", "Praise"},
		Views:       42,
		Upvotes:     7,
		CreatedAt:   trustTestTime.Add(-48 * time.Hour),
	}

	first := svc.ComputeTrustScore(review, "bob")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, svc.ComputeTrustScore(review, "bob"))
	}
}

func TestComputeTrustScore_MaximalReview(t *testing.T) {
	svc := newTestTrustService()
	review := &models.Review{
		Title:       "Thorough breakdown of my year with this product",
		Description: makeText(500),
		Rating:      4,
		Tags:        []string{"Honest", "Detailed"},
		Views:       500,
		Upvotes:     200,
		Media: []models.Media{
			{Type: models.MediaTypeImage, URL: "https://cdn.example.com/a.jpg"},
			{Type: models.MediaTypeImage, URL: "https://cdn.example.com/b.jpg"},
			{Type: models.MediaTypeImage, URL: "https://cdn.example.com/c.jpg"},
			{Type: models.MediaTypeVideo, URL: "https://cdn.example.com/d.mp4"},
			{Type: models.MediaTypeVideo, URL: "https://cdn.example.com/e.mp4"},
		},
		CreatedAt: trustTestTime.Add(-2 * time.Hour),
	}

	assert.Equal(t, 100, svc.ComputeTrustScore(review, "carol"))
}

func TestComputeTrustScore_EmptyReview(t *testing.T) {
	svc := newTestTrustService()

	// Zero-value review still lands in range: recency of a zero time is
	// ancient (0.2) and missing media gives the flat 0.1.
	review := &models.Review{}
	score := svc.ComputeTrustScore(review, "")

	assert.GreaterOrEqual(t, score, 0)
	assert.LessOrEqual(t, score, 100)
}

func TestContentQualityFactor_Ladders(t *testing.T) {
	svc := newTestTrustService()

	tests := []struct {
		name     string
		review   models.Review
		expected float64
	}{
		{"ideal everything", models.Review{Title: makeText(50), Description: makeText(500), Rating: 4, Tags: []string{"Honest"}}, 1.0},
		{"short title", models.Review{Title: makeText(7), Description: makeText(500), Rating: 4}, 0.6},
		{"tiny description", models.Review{Title: makeText(50), Description: makeText(30), Rating: 4}, 0.5},
		{"low rating", models.Review{Title: makeText(50), Description: makeText(500), Rating: 1}, 0.6},
		{"weighted tag only once", models.Review{Title: makeText(50), Description: makeText(500), Rating: 4, Tags: []string{"Honest", "Brutal", "Warning"}}, 1.0},
		{"empty", models.Review{}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, svc.ContentQualityFactor(&tt.review), 1e-9)
		})
	}
}

func TestEngagementFactor(t *testing.T) {
	svc := newTestTrustService()

	tests := []struct {
		name     string
		views    int
		upvotes  int
		expected float64
	}{
		{"no engagement", 0, 0, 0.0},
		{"ratio zero when no views", 0, 25, 0.4},
		{"high everything", 100, 30, 1.0},
		{"few views", 10, 0, 0.1},
		{"good ratio", 50, 15, 0.3 + 0.3 + 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review := &models.Review{Views: tt.views, Upvotes: tt.upvotes}
			assert.InDelta(t, tt.expected, svc.EngagementFactor(review), 1e-9)
		})
	}
}

func TestCredibilityFactor_TagBonusMutuallyExclusive(t *testing.T) {
	svc := newTestTrustService()

	// Honest wins over Brutal; only the highest applicable bonus counts
	review := &models.Review{Rating: 1, Tags: []string{"Brutal", "Honest"}}
	honestOnly := &models.Review{Rating: 1, Tags: []string{"Honest"}}

	assert.InDelta(t, svc.CredibilityFactor(honestOnly, ""), svc.CredibilityFactor(review, ""), 1e-9)
}

func TestCredibilityFactor_AnonymousAuthor(t *testing.T) {
	svc := newTestTrustService()
	review := &models.Review{Rating: 3}

	named := svc.CredibilityFactor(review, "dave")
	anon := svc.CredibilityFactor(review, models.Anonymous.Name)
	missing := svc.CredibilityFactor(review, "")

	assert.InDelta(t, 0.3, named-anon, 1e-9)
	assert.InDelta(t, anon, missing, 1e-9)
}

func TestRecencyFactor_AgeLadder(t *testing.T) {
	svc := newTestTrustService()

	tests := []struct {
		age      time.Duration
		expected float64
	}{
		{12 * time.Hour, 1.0},
		{3 * 24 * time.Hour, 0.9},
		{20 * 24 * time.Hour, 0.8},
		{60 * 24 * time.Hour, 0.6},
		{200 * 24 * time.Hour, 0.4},
		{400 * 24 * time.Hour, 0.2},
	}

	for _, tt := range tests {
		review := &models.Review{CreatedAt: trustTestTime.Add(-tt.age)}
		assert.InDelta(t, tt.expected, svc.RecencyFactor(review), 1e-9)
	}
}

func TestMediaFactor(t *testing.T) {
	svc := newTestTrustService()

	t.Run("no media flat base", func(t *testing.T) {
		assert.InDelta(t, 0.1, svc.MediaFactor(&models.Review{}), 1e-9)
	})

	t.Run("single valid image", func(t *testing.T) {
		review := &models.Review{Media: []models.Media{
			{Type: models.MediaTypeImage, URL: "https://cdn.example.com/a.jpg"},
		}}
		// base 0.1 + count 0.1 + one type 0.2 + valid urls 0.2
		assert.InDelta(t, 0.6, svc.MediaFactor(review), 1e-9)
	})

	t.Run("short url drops validity bonus", func(t *testing.T) {
		review := &models.Review{Media: []models.Media{
			{Type: models.MediaTypeImage, URL: "x.jpg"},
		}}
		assert.InDelta(t, 0.4, svc.MediaFactor(review), 1e-9)
	})

	t.Run("mixed types clamped", func(t *testing.T) {
		media := make([]models.Media, 0, 6)
		for i := 0; i < 3; i++ {
			media = append(media,
				models.Media{Type: models.MediaTypeImage, URL: "https://cdn.example.com/img.jpg"},
				models.Media{Type: models.MediaTypeVideo, URL: "https://cdn.example.com/vid.mp4"},
			)
		}
		assert.InDelta(t, 1.0, svc.MediaFactor(&models.Review{Media: media}), 1e-9)
	})
}

// makeText builds a deterministic string of the given length.
func makeText(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + i%26)
	}
	return string(b)
}
