package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"user-directory/cmd/api/di"
	"user-directory/internal/config"
)

// Server runs the gRPC and REST servers side by side
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	GRPC   *grpc.Server
	HTTP   *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		GRPC:   SetupGRPC(c.GRPCService, c.RateLimiter, l),
		HTTP: SetupGinServer(
			c.UserHandler,
			c.JournalHandler,
			c.RateLimiter,
			cfg.Logger.ServiceName,
			cfg.App.Env,
			l,
		),
	}
}

// Run listens on the configured ports and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	lc := net.ListenConfig{}

	grpcLis, err := lc.Listen(ctx, "tcp", ":"+s.Config.App.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}
	httpLis, err := lc.Listen(ctx, "tcp", ":"+s.Config.App.HTTPPort)
	if err != nil {
		_ = grpcLis.Close()
		return fmt.Errorf("failed to listen for HTTP: %w", err)
	}

	return s.Serve(ctx, grpcLis, httpLis)
}

// Serve serves gRPC on grpcLis and REST on httpLis until ctx is cancelled or
// either server fails, then shuts both down within the configured timeout.
func (s *Server) Serve(ctx context.Context, grpcLis, httpLis net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.Logger.Info("gRPC server running", zap.String("address", grpcLis.Addr().String()))
		if err := s.GRPC.Serve(grpcLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.Logger.Info("REST server running", zap.String("address", httpLis.Addr().String()))
		if err := s.HTTP.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("REST server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

// shutdown gracefully stops both servers
func (s *Server) shutdown() error {
	timeout := s.Config.App.ShutdownTimeout()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.Logger.Info("starting graceful shutdown", zap.Duration("timeout", timeout))

	var errs []error

	s.Logger.Info("shutting down REST server...")
	if err := s.HTTP.Shutdown(shutdownCtx); err != nil {
		s.Logger.Error("failed to shutdown REST server", zap.Error(err))
		errs = append(errs, fmt.Errorf("REST shutdown: %w", err))
	}

	s.Logger.Info("shutting down gRPC server...")
	stopped := make(chan struct{})
	go func() {
		s.GRPC.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		s.Logger.Warn("gRPC graceful stop timed out, forcing stop")
		s.GRPC.Stop()
	}

	return errors.Join(errs...)
}
