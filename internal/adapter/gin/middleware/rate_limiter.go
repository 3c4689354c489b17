package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	grpcmiddleware "user-directory/internal/adapter/grpc/middleware"
	"user-directory/pkg/logger"
)

// RateLimiter returns a Gin middleware that counts requests against the same
// fixed-window limiter the gRPC server uses. A nil limiter disables it.
func RateLimiter(limiter *grpcmiddleware.RateLimiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || !limiter.Config().Enabled {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		key := fmt.Sprintf("http:%s:%s:%s", c.Request.Method, c.FullPath(), clientIP)

		allowed, count, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// Fail open
			logger.WithContext(c.Request.Context(), log).Warn("rate limiter redis error, allowing request",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if !allowed {
			cfg := limiter.Config()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": fmt.Sprintf("Rate limit exceeded: %d requests in %d seconds (limit: %.0f req/s)", count, cfg.WindowSeconds, cfg.RequestsPerSecond),
			})
			return
		}

		c.Next()
	}
}
