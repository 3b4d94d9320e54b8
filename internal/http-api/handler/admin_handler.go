package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/middleware"
	"reviewhub/internal/http-api/service"
)

type AdminHandler struct {
	adminService service.AdminService
	userService  service.UserService
	authService  service.AuthService
}

func NewAdminHandler(adminService service.AdminService, userService service.UserService, authService service.AuthService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		userService:  userService,
		authService:  authService,
	}
}

// RegisterRoutes registers the moderation routes. Everything here needs
// an authenticated admin.
func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin", middleware.AuthMiddleware(h.authService), middleware.RequireAdmin())
	{
		admin.DELETE("/reviews/:id", h.RemoveReview)
		admin.PUT("/passkey", h.UpdatePasskey)
		admin.POST("/recompute-aggregates", h.RecomputeAggregates)
	}
}

// RemoveReview hides a review from public reads
// DELETE /api/admin/reviews/:id
func (h *AdminHandler) RemoveReview(c *gin.Context) {
	err := h.adminService.SoftRemoveReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review removed"})
}

// UpdatePasskey rotates the admin passkey
// PUT /api/admin/passkey
func (h *AdminHandler) UpdatePasskey(c *gin.Context) {
	var req dto.UpdatePasskeyDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.adminService.UpdatePasskey(c.Request.Context(), req.Passkey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update passkey"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Passkey updated"})
}

// RecomputeAggregates rebuilds every user's denormalized review count
// and trust score
// POST /api/admin/recompute-aggregates
func (h *AdminHandler) RecomputeAggregates(c *gin.Context) {
	updated, err := h.userService.RecomputeAllAggregates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to recompute aggregates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users_updated": updated})
}
