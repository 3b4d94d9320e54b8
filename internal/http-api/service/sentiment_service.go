package service

import (
	"math"
	"strings"
)

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"

	// Minimum share of matched words before text stops being neutral.
	sentimentRatioThreshold = 0.05
)

// SentimentResult is the outcome of the lexical sentiment heuristic.
type SentimentResult struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

var positiveWords = map[string]bool{
	"good": true, "great": true, "excellent": true, "amazing": true,
	"awesome": true, "love": true, "loved": true, "best": true,
	"fantastic": true, "wonderful": true, "perfect": true, "happy": true,
	"recommend": true, "quality": true, "friendly": true, "helpful": true,
	"clean": true, "fast": true, "reliable": true, "honest": true,
	"impressive": true, "satisfied": true, "enjoyable": true, "worth": true,
}

var negativeWords = map[string]bool{
	"bad": true, "terrible": true, "awful": true, "horrible": true,
	"worst": true, "hate": true, "hated": true, "poor": true,
	"disappointing": true, "disappointed": true, "broken": true, "slow": true,
	"rude": true, "dirty": true, "scam": true, "fake": true,
	"waste": true, "useless": true, "overpriced": true, "avoid": true,
	"misleading": true, "refund": true, "unreliable": true, "dishonest": true,
}

// SentimentService classifies free text as positive, negative or neutral
// by counting matches against two fixed word lists. Pure and
// deterministic; a standalone signal, not an input to the stored trust
// score.
type SentimentService struct{}

func NewSentimentService() *SentimentService {
	return &SentimentService{}
}

// AnalyzeSentiment tokenizes on whitespace, lower-cases and compares
// matched-word ratios. Confidence is min(ratio*10, 1); neutral text
// reports 0.5.
func (s *SentimentService) AnalyzeSentiment(text string) SentimentResult {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return SentimentResult{Sentiment: SentimentNeutral, Confidence: 0.5}
	}

	posCount, negCount := 0, 0
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:\"'()")
		if positiveWords[w] {
			posCount++
		}
		if negativeWords[w] {
			negCount++
		}
	}

	total := float64(len(words))
	posRatio := float64(posCount) / total
	negRatio := float64(negCount) / total

	switch {
	case posRatio > negRatio && posRatio > sentimentRatioThreshold:
		return SentimentResult{Sentiment: SentimentPositive, Confidence: math.Min(posRatio*10, 1)}
	case negRatio > posRatio && negRatio > sentimentRatioThreshold:
		return SentimentResult{Sentiment: SentimentNegative, Confidence: math.Min(negRatio*10, 1)}
	default:
		return SentimentResult{Sentiment: SentimentNeutral, Confidence: 0.5}
	}
}
