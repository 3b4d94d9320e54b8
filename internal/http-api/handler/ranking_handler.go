package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/service"
)

type RankingHandler struct {
	rankingService service.RankingService
	logger         *slog.Logger
}

func NewRankingHandler(rankingService service.RankingService, logger *slog.Logger) *RankingHandler {
	return &RankingHandler{rankingService: rankingService, logger: logger}
}

// RegisterRoutes registers the public ranking routes. All of them
// degrade to an empty list when the store is unavailable; rankings are
// decorative and must not take a page down with them.
func (h *RankingHandler) RegisterRoutes(router *gin.RouterGroup) {
	rankings := router.Group("/rankings")
	{
		rankings.GET("/trending", h.Trending)
		rankings.GET("/weekly", h.WeeklyMostViewed)
		rankings.GET("/leaderboard", h.Leaderboard)
	}
}

// Trending returns the top 10 reviews by engagement
// GET /api/rankings/trending
func (h *RankingHandler) Trending(c *gin.Context) {
	reviews, err := h.rankingService.Trending(c.Request.Context())
	if err != nil {
		h.logger.Error("trending query failed", "error", err)
		reviews = []dto.ReviewSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"data": reviews})
}

// WeeklyMostViewed returns the top 3 reviews by views in the last 7 days
// GET /api/rankings/weekly
func (h *RankingHandler) WeeklyMostViewed(c *gin.Context) {
	reviews, err := h.rankingService.WeeklyMostViewed(c.Request.Context())
	if err != nil {
		h.logger.Error("weekly ranking query failed", "error", err)
		reviews = []dto.ReviewSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"data": reviews})
}

// Leaderboard returns up to 50 public users ranked by trust score
// GET /api/rankings/leaderboard
func (h *RankingHandler) Leaderboard(c *gin.Context) {
	entries, err := h.rankingService.Leaderboard(c.Request.Context())
	if err != nil {
		h.logger.Error("leaderboard query failed", "error", err)
		entries = []dto.LeaderboardEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}
