package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	// DefaultTrustScore is the aggregate trust score for a user with no
	// reviews yet.
	DefaultTrustScore = 50
)

type User struct {
	ID       string `bson:"_id" json:"id"` // uuid
	Username string `bson:"username" json:"username"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password_hash" json:"-"` // Not shown in JSON
	Role     string `bson:"role" json:"role"`       // only 2 roles: "user", "admin" for now

	// Profile
	DisplayName string `bson:"display_name,omitempty" json:"display_name,omitempty"`
	Bio         string `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarURL   string `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	IsPublic    bool   `bson:"is_public" json:"is_public"`

	// Denormalized aggregates, recomputed by the trust rollup
	ReviewCount int `bson:"review_count" json:"review_count"`
	TrustScore  int `bson:"trust_score" json:"trust_score"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	LastLogin *time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
}

func (User) CollectionName() string {
	return "users"
}

// Name returns the public display identity for the user.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
