package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-directory/internal/adapter/gin/handler"
	"user-directory/internal/adapter/gin/middleware"
	grpcmiddleware "user-directory/internal/adapter/grpc/middleware"
)

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	userHandler *handler.UserHandler,
	journalHandler *handler.JournalHandler,
	rateLimiter *grpcmiddleware.RateLimiter,
	serviceName string,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	v1.Use(middleware.RateLimiter(rateLimiter, log))
	{
		users := v1.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
			users.PUT("", userHandler.ReplaceUsers)
			users.DELETE("", userHandler.ResetUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		v1.GET("/journal", journalHandler.ListEntries)
	}

	return router
}
