package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"user-directory/internal/ordering"
)

// ViewCache stores ordered projections of the user collection as ID lists.
type ViewCache interface {
	// Get returns the cached IDs for key, or nil on a cache miss.
	Get(ctx context.Context, key string) ([]int64, error)

	// Set stores ids under key with the configured TTL.
	Set(ctx context.Context, key string, ids []int64) error
}

// ViewKey identifies an ordered view of one store instance at a version.
// Versions restart at zero with every store, so epoch must be unique per
// store for keys to stay unambiguous across restarts and replicas.
func ViewKey(epoch string, version uint64, keys []ordering.Key) string {
	return fmt.Sprintf("users:view:%s:v%d:%s", epoch, version, ordering.KeysString(keys))
}

// RedisViewCache implements ViewCache using Redis as the backing store.
// Entries are never invalidated: a mutation bumps the store version, so
// stale views are simply no longer asked for and expire by TTL.
type RedisViewCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisViewCache creates a new Redis-backed view cache.
func NewRedisViewCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisViewCache {
	return &RedisViewCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Get retrieves an ordered ID list from Redis.
func (c *RedisViewCache) Get(ctx context.Context, key string) ([]int64, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.log.Debug("view cache miss", zap.String("key", key))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get view from cache", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	ids := []int64{}
	if err := json.Unmarshal(data, &ids); err != nil {
		c.log.Error("failed to unmarshal cached view", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	c.log.Debug("view cache hit", zap.String("key", key), zap.Int("count", len(ids)))
	return ids, nil
}

// Set stores an ordered ID list in Redis with TTL.
func (c *RedisViewCache) Set(ctx context.Context, key string, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}

	data, err := json.Marshal(ids)
	if err != nil {
		c.log.Error("failed to marshal view for cache", zap.String("key", key), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set view cache", zap.String("key", key), zap.Error(err))
		return err
	}

	c.log.Debug("cached view", zap.String("key", key), zap.Int("count", len(ids)), zap.Duration("ttl", c.ttl))
	return nil
}
