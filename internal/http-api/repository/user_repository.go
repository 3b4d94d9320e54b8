package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reviewhub/internal/http-api/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, fields bson.M) error
	SetRole(ctx context.Context, id, role string) error
	SetLastLogin(ctx context.Context, id string, at time.Time) error

	// UpdateAggregates stores the denormalized rollup pair.
	UpdateAggregates(ctx context.Context, id string, reviewCount, trustScore int) error
	ListIDs(ctx context.Context) ([]string, error)
	Leaderboard(ctx context.Context, limit int) ([]models.User, error)
}

type userRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{col: db.Collection(models.User{}.CollectionName())}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, user)
	return err
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) SetRole(ctx context.Context, id, role string) error {
	return r.UpdateProfile(ctx, id, bson.M{"role": role})
}

func (r *userRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"last_login": at.UTC()}})
	return err
}

func (r *userRepository) UpdateAggregates(ctx context.Context, id string, reviewCount, trustScore int) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"review_count": reviewCount,
			"trust_score":  trustScore,
			"updated_at":   time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) ListIDs(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// Leaderboard ranks public users with at least one review by actual mean
// trust score and review count, recomputed from the reviews collection at
// query time rather than trusting the denormalized pair.
func (r *userRepository) Leaderboard(ctx context.Context, limit int) ([]models.User, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"review_count": bson.M{"$gt": 0},
			"is_public":    true,
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         models.Review{}.CollectionName(),
			"localField":   "_id",
			"foreignField": "author_id",
			"as":           "authored",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"review_count": bson.M{"$size": "$authored"},
			"trust_score": bson.M{"$round": []interface{}{
				bson.M{"$ifNull": []interface{}{
					bson.M{"$avg": "$authored.trust_score"},
					models.DefaultTrustScore,
				}},
				0,
			}},
		}}},
		{{Key: "$match", Value: bson.M{"review_count": bson.M{"$gt": 0}}}},
		{{Key: "$project", Value: bson.M{"authored": 0, "password_hash": 0}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "trust_score", Value: -1},
			{Key: "review_count", Value: -1},
		}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, limit)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
