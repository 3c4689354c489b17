package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"user-directory/internal/config"
)

const redisPingTimeout = 5 * time.Second

// NewRedisClient connects to the Redis server shared by the view cache and the
// rate limiter. The connection is verified before the client is returned.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, l *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConn,
		DialTimeout:  redisPingTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr(), err)
	}

	l.Info("Redis connected",
		zap.String("addr", cfg.Addr()),
		zap.Int("db", cfg.DB),
		zap.Duration("view_cache_ttl", cfg.ViewCacheTTL()),
	)
	return rdb, nil
}

// CloseRedis closes the client's connection pool.
func CloseRedis(rdb *redis.Client, l *zap.Logger) error {
	l.Info("Closing Redis connection")
	return rdb.Close()
}
