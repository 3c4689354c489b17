package di

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-directory/cmd/api/infrastructure"
	"user-directory/internal/adapter/cache"
	ginhandler "user-directory/internal/adapter/gin/handler"
	grpcadapter "user-directory/internal/adapter/grpc"
	"user-directory/internal/adapter/grpc/middleware"
	"user-directory/internal/adapter/journal"
	"user-directory/internal/adapter/view"
	"user-directory/internal/config"
	"user-directory/internal/store"
	"user-directory/internal/usecase/user"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	Store          *store.Store
	DB             *gorm.DB
	Journal        *journal.Journal
	RedisClient    *goredis.Client
	UserUC         user.Usecase
	RateLimiter    *middleware.RateLimiter
	UserHandler    *ginhandler.UserHandler
	JournalHandler *ginhandler.JournalHandler
	GRPCService    *grpcadapter.UserServiceServer

	unsubscribe []func()
}

// NewContainer creates and initializes all application dependencies.
// Redis and the journal database are only connected when enabled.
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: l,
		Store:  store.New(),
	}

	c.unsubscribe = append(c.unsubscribe, c.Store.Subscribe(func(ev store.Event) {
		l.Debug("store changed",
			zap.String("kind", string(ev.Kind)),
			zap.Uint64("version", ev.Version),
			zap.Int64s("ids", ev.IDs()),
		)
	}))

	// Initialize change journal
	var journalReader ginhandler.JournalReader
	if cfg.Journal.Enabled {
		db, err := infrastructure.NewJournalDatabase(cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize journal database: %w", err)
		}
		c.DB = db

		j, err := journal.New(db, cfg.Journal.QueueSize, l.Named("journal"))
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize journal: %w", err)
		}
		c.Journal = j
		journalReader = j
		c.unsubscribe = append(c.unsubscribe, c.Store.Subscribe(j.Handle))
	}

	// Initialize Redis client and view cache
	var (
		viewCache cache.ViewCache
		rdb       *goredis.Client
	)
	if cfg.Redis.Enabled {
		client, err := infrastructure.NewRedisClient(ctx, cfg.Redis, l)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = client
		rdb = client
		viewCache = cache.NewRedisViewCache(rdb, cfg.Redis.ViewCacheTTL(), l)
	}

	// Initialize use case
	defaultSort, err := cfg.Sort.Key()
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.UserUC = user.New(c.Store, view.NewCachedOrderer(viewCache, c.Store.Epoch(), l), l, defaultSort)

	// Initialize rate limiter; it needs Redis to count
	c.RateLimiter = middleware.NewRateLimiter(
		rdb,
		middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			WindowSeconds:     cfg.RateLimit.WindowSeconds,
			Enabled:           cfg.RateLimit.Enabled && rdb != nil,
		},
		l,
	)
	if cfg.RateLimit.Enabled && rdb == nil {
		l.Warn("rate limiting requested without Redis, disabled")
	}

	// Initialize transport handlers
	c.UserHandler = ginhandler.NewUserHandler(c.UserUC, l)
	c.JournalHandler = ginhandler.NewJournalHandler(journalReader, l)
	c.GRPCService = grpcadapter.NewUserServiceServer(c.UserUC, l)

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	for _, unsubscribe := range c.unsubscribe {
		unsubscribe()
	}
	c.unsubscribe = nil

	// Close Redis connection
	if c.RedisClient != nil {
		if err := infrastructure.CloseRedis(c.RedisClient, c.Logger); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
