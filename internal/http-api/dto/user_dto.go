package dto

import (
	"time"

	"reviewhub/internal/http-api/models"
)

// UserResponse for public profile views
type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	IsPublic    bool      `json:"is_public"`
	ReviewCount int       `json:"review_count"`
	TrustScore  int       `json:"trust_score"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromModelToUserResponse converts a User model to a UserResponse DTO
func FromModelToUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		AvatarURL:   user.AvatarURL,
		IsPublic:    user.IsPublic,
		ReviewCount: user.ReviewCount,
		TrustScore:  user.TrustScore,
		CreatedAt:   user.CreatedAt,
	}
}

// UpdateProfileDTO for editing the caller's own profile
type UpdateProfileDTO struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=64"`
	Bio         *string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL   *string `json:"avatar_url" binding:"omitempty,url"`
	IsPublic    *bool   `json:"is_public"`
}

// LeaderboardEntry is one ranked row of the user leaderboard
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	ReviewCount int    `json:"review_count"`
	TrustScore  int    `json:"trust_score"`
}

// UserAggregate is the denormalized rollup pair for one user
type UserAggregate struct {
	ReviewCount int `json:"review_count"`
	TrustScore  int `json:"trust_score"`
}

// UpdatePasskeyDTO rotates the admin passkey
type UpdatePasskeyDTO struct {
	Passkey string `json:"passkey" binding:"required,min=8"`
}
