package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bookyard/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const categoriesKey = "categories:all"

// CategoryStore is the persistent source of the category list.
type CategoryStore interface {
	GetCategories(ctx context.Context) ([]models.Category, error)
}

// CategoryCache is a read-through redis cache over the category reference
// data. Categories are seeded once and never change, so a short TTL is only
// there to survive a reseed. When redis is absent or failing every read
// falls back to the store.
type CategoryCache struct {
	store  CategoryStore
	client *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

func NewCategoryCache(store CategoryStore, client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *CategoryCache {
	return &CategoryCache{store: store, client: client, ttl: ttl, logger: logger}
}

func (c *CategoryCache) GetCategories(ctx context.Context) ([]models.Category, error) {
	if c.client != nil {
		val, err := c.client.Get(ctx, categoriesKey).Result()
		if err == nil {
			var categories []models.Category
			if jsonErr := json.Unmarshal([]byte(val), &categories); jsonErr == nil {
				return categories, nil
			}
			c.logger.Warn().Str("key", categoriesKey).Msg("corrupt cache entry, rereading from store")
		} else if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Msg("redis read failed, falling back to store")
		}
	}

	categories, err := c.store.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	if c.client != nil {
		if data, err := json.Marshal(categories); err == nil {
			if err := c.client.Set(ctx, categoriesKey, data, c.ttl).Err(); err != nil {
				c.logger.Warn().Err(err).Msg("redis write failed")
			}
		}
	}

	return categories, nil
}
