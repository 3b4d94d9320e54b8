package service

import (
	"math"

	"github.com/jonboulle/clockwork"

	"reviewhub/internal/http-api/models"
)

const (
	contentQualityWeight = 0.25
	engagementWeight     = 0.20
	credibilityWeight    = 0.25
	recencyWeight        = 0.15
	mediaWeight          = 0.15
)

// weightedTags are the tags that signal review intent and carry trust
// score weight, both in content quality and credibility.
var weightedTags = []string{"Honest", "Brutal", "Praise", "Warning"}

// TrustService computes the 0-100 trust score of a review from its own
// attributes. Pure and total: no I/O, no side effects, and malformed
// inputs contribute zero to their sub-score instead of failing.
//
// The score is computed once at review creation and stored; engagement
// changes afterwards do not trigger a recompute.
type TrustService struct {
	clock clockwork.Clock
}

func NewTrustService(clock clockwork.Clock) *TrustService {
	return &TrustService{clock: clock}
}

// ComputeTrustScore combines five independently clamped factors:
//
//	score = round(100 * (quality*0.25 + engagement*0.20 + credibility*0.25 + recency*0.15 + media*0.15))
func (s *TrustService) ComputeTrustScore(review *models.Review, authorName string) int {
	if review == nil {
		return 0
	}

	total := s.ContentQualityFactor(review)*contentQualityWeight +
		s.EngagementFactor(review)*engagementWeight +
		s.CredibilityFactor(review, authorName)*credibilityWeight +
		s.RecencyFactor(review)*recencyWeight +
		s.MediaFactor(review)*mediaWeight

	return int(math.Round(total * 100))
}

// ContentQualityFactor rewards substantial titles and descriptions, a
// usable rating and intentful tags.
func (s *TrustService) ContentQualityFactor(review *models.Review) float64 {
	factor := 0.0

	titleLen := len(review.Title)
	switch {
	case titleLen >= 10 && titleLen <= 100:
		factor += 0.2
	case titleLen >= 5 && titleLen <= 150:
		factor += 0.1
	}

	descLen := len(review.Description)
	switch {
	case descLen >= 100 && descLen <= 2000:
		factor += 0.3
	case descLen >= 50 && descLen <= 5000:
		factor += 0.2
	case descLen >= 20:
		factor += 0.1
	}

	switch {
	case review.Rating >= 3 && review.Rating <= 5:
		factor += 0.2
	case review.Rating >= 1 && review.Rating <= 5:
		factor += 0.1
	}

	for _, tag := range weightedTags {
		if review.HasTag(tag) {
			factor += 0.3
			break
		}
	}

	return clampFactor(factor)
}

// EngagementFactor rewards views, upvotes and the upvote/view ratio.
// The ratio is defined as zero when the review has no views.
func (s *TrustService) EngagementFactor(review *models.Review) float64 {
	factor := 0.0

	switch {
	case review.Views >= 100:
		factor += 0.4
	case review.Views >= 50:
		factor += 0.3
	case review.Views >= 20:
		factor += 0.2
	case review.Views >= 5:
		factor += 0.1
	}

	switch {
	case review.Upvotes >= 20:
		factor += 0.4
	case review.Upvotes >= 10:
		factor += 0.3
	case review.Upvotes >= 5:
		factor += 0.2
	case review.Upvotes >= 1:
		factor += 0.1
	}

	ratio := 0.0
	if review.Views > 0 {
		ratio = float64(review.Upvotes) / float64(review.Views)
	}
	switch {
	case ratio >= 0.3:
		factor += 0.2
	case ratio >= 0.1:
		factor += 0.1
	}

	return clampFactor(factor)
}

// CredibilityFactor rewards an attributable author, intentful tags
// (mutually exclusive, highest applicable) and a credible rating.
func (s *TrustService) CredibilityFactor(review *models.Review, authorName string) float64 {
	factor := 0.0

	if authorName != "" && authorName != models.Anonymous.Name {
		factor += 0.3
	}

	switch {
	case review.HasTag("Honest"):
		factor += 0.4
	case review.HasTag("Brutal"):
		factor += 0.3
	case review.HasTag("Praise"):
		factor += 0.2
	case review.HasTag("Warning"):
		factor += 0.2
	}

	switch {
	case review.Rating >= 3 && review.Rating <= 4:
		factor += 0.3
	case review.Rating >= 2 && review.Rating <= 5:
		factor += 0.2
	case review.Rating >= 1 && review.Rating <= 5:
		factor += 0.1
	}

	return clampFactor(factor)
}

// RecencyFactor decays stepwise with review age.
func (s *TrustService) RecencyFactor(review *models.Review) float64 {
	ageDays := s.clock.Since(review.CreatedAt).Hours() / 24

	switch {
	case ageDays <= 1:
		return 1.0
	case ageDays <= 7:
		return 0.9
	case ageDays <= 30:
		return 0.8
	case ageDays <= 90:
		return 0.6
	case ageDays <= 365:
		return 0.4
	default:
		return 0.2
	}
}

// MediaFactor rewards attached media: count, type diversity and
// plausible URLs. A review without media gets a flat 0.1.
func (s *TrustService) MediaFactor(review *models.Review) float64 {
	if len(review.Media) == 0 {
		return 0.1
	}

	factor := 0.1

	switch {
	case len(review.Media) >= 5:
		factor += 0.4
	case len(review.Media) >= 3:
		factor += 0.3
	case len(review.Media) >= 2:
		factor += 0.2
	case len(review.Media) >= 1:
		factor += 0.1
	}

	hasImage, hasVideo, allValid := false, false, true
	for _, m := range review.Media {
		switch m.Type {
		case models.MediaTypeImage:
			hasImage = true
		case models.MediaTypeVideo:
			hasVideo = true
		}
		if len(m.URL) <= 10 {
			allValid = false
		}
	}

	switch {
	case hasImage && hasVideo:
		factor += 0.3
	case hasImage || hasVideo:
		factor += 0.2
	}

	if allValid {
		factor += 0.2
	}

	return clampFactor(factor)
}

func clampFactor(f float64) float64 {
	return math.Min(f, 1.0)
}
