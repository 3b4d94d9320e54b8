package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reviewhub/internal/http-api/models"
)

var ErrNotFound = errors.New("document not found")

// ReviewListFilter narrows the public review listing.
type ReviewListFilter struct {
	Category    string
	Subcategory string
	Tag         string
	AuthorID    string
}

// ReviewWithRecentViews carries the windowed view count computed by the
// weekly-most-viewed aggregation.
type ReviewWithRecentViews struct {
	models.Review `bson:",inline"`
	RecentViews   int `bson:"recent_views"`
}

// AuthorTrustStats is the per-author aggregate used by the trust rollup.
type AuthorTrustStats struct {
	ReviewCount int     `bson:"count"`
	AvgTrust    float64 `bson:"avg_trust"`
}

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	List(ctx context.Context, filter ReviewListFilter, page, pageSize int) ([]models.Review, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID, authorID string) error
	SoftRemove(ctx context.Context, id primitive.ObjectID) error

	// AddUpvote / AddView apply the identity atomically: the filter
	// excludes documents already containing the identity, so concurrent
	// calls never lose updates and never double-count. The bool result
	// reports whether the event was applied (false = already present).
	AddUpvote(ctx context.Context, id primitive.ObjectID, userID string) (bool, error)
	AddView(ctx context.Context, id primitive.ObjectID, userID string, at time.Time) (bool, error)

	Trending(ctx context.Context, limit int) ([]models.Review, error)
	WeeklyMostViewed(ctx context.Context, since time.Time, limit int) ([]ReviewWithRecentViews, error)
	TrustStatsByAuthor(ctx context.Context, authorID string) (*AuthorTrustStats, error)
}

type reviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) ReviewRepository {
	return &reviewRepository{col: db.Collection(models.Review{}.CollectionName())}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	review.UpdatedAt = now
	if review.Tags == nil {
		review.Tags = []string{}
	}
	if review.Media == nil {
		review.Media = []models.Media{}
	}
	review.UpvotedBy = []string{}
	review.ViewedBy = []models.ViewRecord{}
	_, err := r.col.InsertOne(ctx, review)
	return err
}

func (r *reviewRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	err := r.col.FindOne(ctx, bson.M{"_id": id, "is_removed": false}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// List retrieves non-removed reviews, newest first, with pagination.
func (r *reviewRepository) List(ctx context.Context, filter ReviewListFilter, page, pageSize int) ([]models.Review, int64, error) {
	query := bson.M{"is_removed": false}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Subcategory != "" {
		query["subcategory"] = filter.Subcategory
	}
	if filter.Tag != "" {
		query["tags"] = filter.Tag
	}
	if filter.AuthorID != "" {
		query["author_id"] = filter.AuthorID
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}

	reviews := make([]models.Review, 0)
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// Delete removes a review owned by the given author. Used by the owner
// path; moderation uses SoftRemove instead.
func (r *reviewRepository) Delete(ctx context.Context, id primitive.ObjectID, authorID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "author_id": authorID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftRemove flags a review as removed by moderation. The document stays
// so the author rollup and audit trail keep seeing it.
func (r *reviewRepository) SoftRemove(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_removed": true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reviewRepository) AddUpvote(ctx context.Context, id primitive.ObjectID, userID string) (bool, error) {
	// Filter excludes documents that already carry the identity, so the
	// $inc only fires together with the $addToSet. This keeps
	// upvotes == len(upvoted_by) without read-modify-write.
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "is_removed": false, "upvoted_by": bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{"upvoted_by": userID},
			"$inc":      bson.M{"upvotes": 1},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		// Either the review does not exist or the user already upvoted.
		// Disambiguate so handlers can 404 on missing reviews.
		count, err := r.col.CountDocuments(ctx, bson.M{"_id": id, "is_removed": false})
		if err != nil {
			return false, err
		}
		if count == 0 {
			return false, ErrNotFound
		}
		return false, nil
	}
	return true, nil
}

func (r *reviewRepository) AddView(ctx context.Context, id primitive.ObjectID, userID string, at time.Time) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "is_removed": false, "viewed_by.user_id": bson.M{"$ne": userID}},
		bson.M{
			"$push": bson.M{"viewed_by": models.ViewRecord{UserID: userID, ViewedAt: at.UTC()}},
			"$inc":  bson.M{"views": 1},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		count, err := r.col.CountDocuments(ctx, bson.M{"_id": id, "is_removed": false})
		if err != nil {
			return false, err
		}
		if count == 0 {
			return false, ErrNotFound
		}
		return false, nil
	}
	return true, nil
}

// Trending returns the top reviews by (views, upvotes, created_at), all
// descending. Full scan bounded by the result cap.
func (r *reviewRepository) Trending(ctx context.Context, limit int) ([]models.Review, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "views", Value: -1},
			{Key: "upvotes", Value: -1},
			{Key: "created_at", Value: -1},
		}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{"is_removed": false}, opts)
	if err != nil {
		return nil, err
	}

	reviews := make([]models.Review, 0, limit)
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// WeeklyMostViewed keeps only reviews with at least one view after the
// cutoff, ranks them by the number of views inside the window, then
// upvotes, then recency.
func (r *reviewRepository) WeeklyMostViewed(ctx context.Context, since time.Time, limit int) ([]ReviewWithRecentViews, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"is_removed":          false,
			"viewed_by.viewed_at": bson.M{"$gte": since.UTC()},
		}}},
		{{Key: "$addFields", Value: bson.M{
			"recent_views": bson.M{"$size": bson.M{"$filter": bson.M{
				"input": "$viewed_by",
				"as":    "v",
				"cond":  bson.M{"$gte": []interface{}{"$$v.viewed_at", since.UTC()}},
			}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "recent_views", Value: -1},
			{Key: "upvotes", Value: -1},
			{Key: "created_at", Value: -1},
		}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	results := make([]ReviewWithRecentViews, 0, limit)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// TrustStatsByAuthor aggregates review count and mean trust score for a
// single author. Removed reviews still count toward the author's output.
func (r *reviewRepository) TrustStatsByAuthor(ctx context.Context, authorID string) (*AuthorTrustStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"author_id": authorID}}},
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"count":     bson.M{"$sum": 1},
			"avg_trust": bson.M{"$avg": "$trust_score"},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var stats []AuthorTrustStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		// No reviews yet
		return &AuthorTrustStats{}, nil
	}
	return &stats[0], nil
}
