package server

import (
	"go.uber.org/zap"
	grpc "google.golang.org/grpc"

	userv1 "user-directory/api/userdirectory/v1"
	"user-directory/internal/adapter/grpc/middleware"
	"user-directory/pkg/logger"
)

// SetupGRPC creates and configures the gRPC server
func SetupGRPC(service userv1.UserServiceServer, rateLimiter *middleware.RateLimiter, l *zap.Logger) *grpc.Server {
	// Create gRPC server with request ID and rate limit interceptors
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			rateLimiter.UnaryInterceptor(),
		),
	)
	userv1.RegisterUserServiceServer(grpcServer, service)

	l.Info("gRPC server configured", zap.String("service", userv1.ServiceName))

	return grpcServer
}
