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

// ConfigRepository is the runtime configuration store. Values like the
// admin passkey live here instead of mutable process globals.
type ConfigRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error

	// Seed writes the value only when the key does not exist yet, so env
	// defaults never clobber a runtime update across restarts.
	Seed(ctx context.Context, key, value string) error
}

type configRepository struct {
	col *mongo.Collection
}

func NewConfigRepository(db *mongo.Database) ConfigRepository {
	return &configRepository{col: db.Collection("config")}
}

func (r *configRepository) Get(ctx context.Context, key string) (string, error) {
	var cfg models.AppConfig
	err := r.col.FindOne(ctx, bson.M{"_id": key}).Decode(&cfg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return cfg.Value, nil
}

func (r *configRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"value": value, "updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *configRepository) Seed(ctx context.Context, key, value string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$setOnInsert": bson.M{"value": value, "updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return err
}
