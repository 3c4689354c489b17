package middleware

import (
	"context"
	"fmt"
	"math"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"user-directory/pkg/logger"
)

// RateLimiterConfig holds configuration for the rate limiter.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	WindowSeconds     int
	Enabled           bool
}

// MaxRequests returns the number of requests allowed per window, at least one.
func (c RateLimiterConfig) MaxRequests() int64 {
	n := int64(math.Ceil(c.RequestsPerSecond * float64(c.WindowSeconds)))
	if n < 1 {
		return 1
	}
	return n
}

// fixedWindowScript increments the counter for the current window and starts
// the window on the first hit.
var fixedWindowScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
	end
	return count
`)

// RateLimiter implements fixed-window rate limiting using Redis. It is shared
// by the gRPC interceptor and the gin middleware.
type RateLimiter struct {
	client *redis.Client
	config RateLimiterConfig
	log    *zap.Logger
}

// NewRateLimiter creates a new rate limiter. A nil client disables limiting.
func NewRateLimiter(client *redis.Client, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
		log:    log,
	}
}

// Config returns the limiter configuration.
func (rl *RateLimiter) Config() RateLimiterConfig {
	return rl.config
}

// Allow counts one request against key and reports whether it is within the
// limit, together with the count in the current window. Redis errors fail open.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, int64, error) {
	if rl == nil || !rl.config.Enabled || rl.client == nil {
		return true, 0, nil
	}

	key = "ratelimit:" + key
	count, err := fixedWindowScript.Run(ctx, rl.client, []string{key}, rl.config.WindowSeconds).Int64()
	if err != nil {
		return true, 0, fmt.Errorf("rate limiter eval: %w", err)
	}

	return count <= rl.config.MaxRequests(), count, nil
}

// UnaryInterceptor returns a gRPC unary interceptor for rate limiting.
func (rl *RateLimiter) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		// Skip rate limiting if disabled
		if !rl.config.Enabled {
			return handler(ctx, req)
		}

		clientIP := ClientIP(ctx)
		log := logger.WithContext(ctx, rl.log)

		allowed, count, err := rl.Allow(ctx, fmt.Sprintf("grpc:%s:%s", info.FullMethod, clientIP))
		if err != nil {
			log.Warn("rate limiter redis error, allowing request",
				zap.String("client_ip", clientIP),
				zap.String("method", info.FullMethod),
				zap.Error(err),
			)
			return handler(ctx, req)
		}

		if !allowed {
			log.Warn("rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("method", info.FullMethod),
				zap.Int64("count", count),
				zap.Float64("limit", rl.config.RequestsPerSecond),
			)
			return nil, status.Errorf(codes.ResourceExhausted,
				"rate limit exceeded: %d requests in %d seconds (limit: %.0f req/s)",
				count, rl.config.WindowSeconds, rl.config.RequestsPerSecond)
		}

		return handler(ctx, req)
	}
}

// ClientIP extracts the client IP address from the gRPC context.
func ClientIP(ctx context.Context) string {
	// Proxies report the original client in forwarding headers
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if xff := md.Get("x-forwarded-for"); len(xff) > 0 {
			return xff[0]
		}
		if xri := md.Get("x-real-ip"); len(xri) > 0 {
			return xri[0]
		}
	}

	// Fallback to peer address
	if p, ok := peer.FromContext(ctx); ok {
		return p.Addr.String()
	}

	return "unknown"
}
