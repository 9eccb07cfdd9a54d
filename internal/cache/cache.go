// Package cache is the aggregation cache for computed analytics
// results. Entries are replaced, never mutated: a computation is stored
// whole under its key with a TTL and superseded on refresh.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lifelens/backend/internal/logger"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const connectTimeout = 10 * time.Second

// Cache wraps Redis with a singleflight group so that at most one
// computation per key is in flight; concurrent callers for the same key
// await and share the same result.
type Cache struct {
	rdb   *redis.Client
	group singleflight.Group
}

// New wraps an established Redis client.
func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// Connect opens and verifies a Redis connection.
func Connect(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// GetOrCompute returns the cached payload for key when it is still
// fresh, otherwise invokes compute, stores its JSON-serialized result
// with the given TTL (replacing any prior entry), and decodes it into
// dest. refresh=true skips the freshness check and forces recomputation.
// A compute failure stores nothing, so the key stays absent and the
// next call retries cleanly.
func (c *Cache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, refresh bool, dest any, compute func(ctx context.Context) (any, error)) error {
	if !refresh {
		payload, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			return json.Unmarshal(payload, dest)
		}
		if !errors.Is(err, redis.Nil) {
			// A cache-read failure degrades to recomputation.
			logger.Ctx(ctx).Warn("cache read failed, recomputing",
				logger.String("key", key), logger.Err(err))
		}
	}

	payload, err, _ := c.group.Do(key, func() (any, error) {
		if !refresh {
			// Another flight may have stored the entry while we waited.
			if cached, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
				return cached, nil
			}
		}

		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode cache payload: %w", err)
		}

		if err := c.rdb.Set(ctx, key, encoded, ttl).Err(); err != nil {
			logger.Ctx(ctx).Warn("cache write failed, serving uncached result",
				logger.String("key", key), logger.Err(err))
		}
		return encoded, nil
	})
	if err != nil {
		return err
	}

	return json.Unmarshal(payload.([]byte), dest)
}

// HealthCheck verifies the Redis connection.
func (c *Cache) HealthCheck(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
