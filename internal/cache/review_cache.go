package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"reviewhub/internal/http-api/dto"
)

const (
	listKeyPrefix = "reviews:list"
	versionKey    = "reviews:list:version"
)

// ReviewCache is a redis cache-aside layer for review list responses.
// Invalidation bumps a version counter embedded in every key, so stale
// entries simply age out via TTL without a SCAN.
type ReviewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewReviewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ReviewCache {
	return &ReviewCache{client: client, ttl: ttl, logger: logger}
}

// GetList returns the cached response for the key, if present. Cache
// failures are logged and treated as misses.
func (c *ReviewCache) GetList(ctx context.Context, key string) (*dto.PaginatedReviewResponse, bool) {
	versioned, err := c.versionedKey(ctx, key)
	if err != nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, versioned).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("review cache get failed", "error", err)
		}
		return nil, false
	}

	var resp dto.PaginatedReviewResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.logger.Warn("review cache decode failed", "error", err)
		return nil, false
	}
	return &resp, true
}

func (c *ReviewCache) SetList(ctx context.Context, key string, resp *dto.PaginatedReviewResponse) {
	versioned, err := c.versionedKey(ctx, key)
	if err != nil {
		return
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, versioned, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("review cache set failed", "error", err)
	}
}

// Invalidate bumps the version so every existing list entry becomes
// unreachable.
func (c *ReviewCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		c.logger.Warn("review cache invalidate failed", "error", err)
	}
}

func (c *ReviewCache) versionedKey(ctx context.Context, key string) (string, error) {
	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d:%s", listKeyPrefix, version, key), nil
}
