package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ginhandler "user-directory/internal/adapter/gin/handler"
	ginrouter "user-directory/internal/adapter/gin/router"
	grpcmiddleware "user-directory/internal/adapter/grpc/middleware"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	userHandler *ginhandler.UserHandler,
	journalHandler *ginhandler.JournalHandler,
	rateLimiter *grpcmiddleware.RateLimiter,
	serviceName string,
	env string,
	l *zap.Logger,
) *http.Server {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin router with all middleware and routes
	router := ginrouter.SetupRouter(userHandler, journalHandler, rateLimiter, serviceName, l)

	return &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
