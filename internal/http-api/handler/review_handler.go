package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/middleware"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/http-api/service"
)

type ReviewHandler struct {
	reviewService    service.ReviewService
	sentimentService *service.SentimentService
	authService      service.AuthService
}

func NewReviewHandler(reviewService service.ReviewService, sentimentService *service.SentimentService, authService service.AuthService) *ReviewHandler {
	return &ReviewHandler{
		reviewService:    reviewService,
		sentimentService: sentimentService,
		authService:      authService,
	}
}

// RegisterRoutes registers review routes. Reads are public; writes and
// engagement events require authentication.
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	reviews := router.Group("/reviews")
	{
		reviews.GET("", h.List)
		reviews.GET("/:id", h.GetByID)
		reviews.POST("/analyze", h.AnalyzeSentiment)

		authed := reviews.Group("", middleware.AuthMiddleware(h.authService))
		{
			authed.POST("", h.Create)
			authed.DELETE("/:id", h.Delete)
			authed.POST("/:id/upvote", h.Upvote)
			authed.POST("/:id/view", h.RecordView)
		}
	}
}

// Create submits a new review
// POST /api/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.CreateReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), userID.(string), req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown author"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create review"})
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetByID retrieves a single review
// GET /api/reviews/:id
func (h *ReviewHandler) GetByID(c *gin.Context) {
	review, err := h.reviewService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch review"})
		return
	}

	c.JSON(http.StatusOK, review)
}

// List retrieves reviews with optional filters and pagination
// GET /api/reviews?category=...&subcategory=...&tag=...&author=...&page=1&page_size=20
func (h *ReviewHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	filter := repository.ReviewListFilter{
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
		Tag:         c.Query("tag"),
		AuthorID:    c.Query("author"),
	}

	resp, err := h.reviewService.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Delete removes the caller's own review
// DELETE /api/reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	err := h.reviewService.Delete(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "not the review owner"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete review"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

// Upvote registers the caller's upvote. Repeats are no-ops.
// POST /api/reviews/:id/upvote
func (h *ReviewHandler) Upvote(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	applied, err := h.reviewService.Upvote(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upvote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"applied": applied})
}

// RecordView registers the caller's view. One view per user per review.
// POST /api/reviews/:id/view
func (h *ReviewHandler) RecordView(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	applied, err := h.reviewService.RecordView(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record view"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"applied": applied})
}

// AnalyzeSentiment classifies free text. Standalone utility; it does not
// influence stored trust scores.
// POST /api/reviews/analyze
func (h *ReviewHandler) AnalyzeSentiment(c *gin.Context) {
	var req dto.AnalyzeTextDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.sentimentService.AnalyzeSentiment(req.Text))
}
