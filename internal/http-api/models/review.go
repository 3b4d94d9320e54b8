package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review tags come from a fixed enumeration. The first four carry trust
// score weight (see service.TrustService).
var ReviewTags = []string{
	"Honest", "Brutal", "Praise", "Warning",
	"Funny", "Detailed", "Helpful", "Update",
}

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Media is a reference to an already-uploaded asset. Upload itself is
// handled by the media pipeline, not this API.
type Media struct {
	Type string `bson:"type" json:"type"`
	URL  string `bson:"url" json:"url"`
}

// ViewRecord tracks a single identity's view. One record per identity.
type ViewRecord struct {
	UserID   string    `bson:"user_id" json:"user_id"`
	ViewedAt time.Time `bson:"viewed_at" json:"viewed_at"`
}

type Review struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Rating      int                `bson:"rating" json:"rating"` // 1-5
	Category    string             `bson:"category" json:"category"`
	Subcategory string             `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Tags        []string           `bson:"tags" json:"tags"`
	Media       []Media            `bson:"media" json:"media"`

	AuthorID string `bson:"author_id" json:"author_id"`

	// Counters are kept in lockstep with their identity sets via atomic
	// updates: upvotes == len(upvoted_by), views == len(viewed_by).
	Upvotes   int          `bson:"upvotes" json:"upvotes"`
	UpvotedBy []string     `bson:"upvoted_by" json:"-"`
	Views     int          `bson:"views" json:"views"`
	ViewedBy  []ViewRecord `bson:"viewed_by" json:"-"`

	// Derived at creation time, stored. Not recomputed on engagement changes.
	TrustScore int `bson:"trust_score" json:"trust_score"`

	IsRemoved bool      `bson:"is_removed" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (Review) CollectionName() string {
	return "reviews"
}

// HasTag reports whether the review carries the given tag.
func (r *Review) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// UpvotedByUser reports whether the identity already upvoted this review.
func (r *Review) UpvotedByUser(userID string) bool {
	for _, id := range r.UpvotedBy {
		if id == userID {
			return true
		}
	}
	return false
}
