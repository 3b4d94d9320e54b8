package dto

import (
	"time"

	"reviewhub/internal/http-api/models"
)

// MediaDTO mirrors models.Media for request binding.
type MediaDTO struct {
	Type string `json:"type" binding:"required,oneof=image video"`
	URL  string `json:"url" binding:"required,url"`
}

// CreateReviewDTO for submitting a new review
type CreateReviewDTO struct {
	Title       string     `json:"title" binding:"required,min=1,max=150"`
	Description string     `json:"description" binding:"required,min=1,max=5000"`
	Rating      int        `json:"rating" binding:"required,min=1,max=5"`
	Category    string     `json:"category" binding:"required"`
	Subcategory string     `json:"subcategory"`
	Tags        []string   `json:"tags" binding:"omitempty,dive,reviewtag"`
	Media       []MediaDTO `json:"media" binding:"omitempty,dive"`
}

// ToModel converts the DTO to a Review model (engagement and derived
// fields are filled in by the service).
func (d *CreateReviewDTO) ToModel(authorID string) *models.Review {
	media := make([]models.Media, 0, len(d.Media))
	for _, m := range d.Media {
		media = append(media, models.Media{Type: m.Type, URL: m.URL})
	}
	return &models.Review{
		Title:       d.Title,
		Description: d.Description,
		Rating:      d.Rating,
		Category:    d.Category,
		Subcategory: d.Subcategory,
		Tags:        d.Tags,
		Media:       media,
		AuthorID:    authorID,
	}
}

// ReviewResponse for returning a full review with its resolved author
type ReviewResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Rating      int            `json:"rating"`
	Category    string         `json:"category"`
	Subcategory string         `json:"subcategory,omitempty"`
	Tags        []string       `json:"tags"`
	Media       []models.Media `json:"media"`
	Author      models.Author  `json:"author"`
	Upvotes     int            `json:"upvotes"`
	Views       int            `json:"views"`
	TrustScore  int            `json:"trust_score"`
	CreatedAt   time.Time      `json:"created_at"`
}

// FromModelToReviewResponse converts a Review model plus its resolved
// author to a ReviewResponse DTO
func FromModelToReviewResponse(review *models.Review, author models.Author) *ReviewResponse {
	return &ReviewResponse{
		ID:          review.ID.Hex(),
		Title:       review.Title,
		Description: review.Description,
		Rating:      review.Rating,
		Category:    review.Category,
		Subcategory: review.Subcategory,
		Tags:        review.Tags,
		Media:       review.Media,
		Author:      author,
		Upvotes:     review.Upvotes,
		Views:       review.Views,
		TrustScore:  review.TrustScore,
		CreatedAt:   review.CreatedAt,
	}
}

// ReviewSummary for ranked listings (trending, weekly most viewed)
type ReviewSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Rating      int       `json:"rating"`
	AuthorName  string    `json:"author_name"`
	Upvotes     int       `json:"upvotes"`
	Views       int       `json:"views"`
	RecentViews int       `json:"recent_views,omitempty"`
	TrustScore  int       `json:"trust_score"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromModelToReviewSummary converts a Review model to a ReviewSummary DTO
func FromModelToReviewSummary(review *models.Review, author models.Author) ReviewSummary {
	return ReviewSummary{
		ID:         review.ID.Hex(),
		Title:      review.Title,
		Category:   review.Category,
		Rating:     review.Rating,
		AuthorName: author.Name,
		Upvotes:    review.Upvotes,
		Views:      review.Views,
		TrustScore: review.TrustScore,
		CreatedAt:  review.CreatedAt,
	}
}

// PaginatedReviewResponse for returning paginated review listings
type PaginatedReviewResponse struct {
	Data       []ReviewResponse `json:"data"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
}

// NewPaginatedReviewResponse creates a paginated review response
func NewPaginatedReviewResponse(data []ReviewResponse, total, page, pageSize int) *PaginatedReviewResponse {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return &PaginatedReviewResponse{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// AnalyzeTextDTO for the standalone sentiment endpoint
type AnalyzeTextDTO struct {
	Text string `json:"text" binding:"required,max=10000"`
}
