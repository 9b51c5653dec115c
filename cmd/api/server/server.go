package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"employee-qbe-service/cmd/api/di"
	"employee-qbe-service/internal/config"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	GRPC   *grpc.Server
	Gin    *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	return &Server{
		Config: cfg,
		Logger: l,
		GRPC:   SetupGRPC(c.EmployeeUC, l, c.RateLimiter),
		Gin:    SetupGinServer(c, httpAddress(cfg), l),
	}
}

// Start runs the gRPC and REST servers and returns when either stops.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	lis, err := lc.Listen(ctx, "tcp", grpcAddress(s.Config))
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", grpcAddress(s.Config), err)
	}

	errCh := make(chan error, 2)

	go func() {
		s.Logger.Info("gRPC server running", zap.String("address", lis.Addr().String()))
		if err := s.GRPC.Serve(lis); err != nil {
			errCh <- fmt.Errorf("failed to start gRPC server: %w", err)
		}
	}()

	go func() {
		s.Logger.Info("REST server running", zap.String("address", s.Gin.Addr))
		if err := s.Gin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start REST server: %w", err)
		}
	}()

	return <-errCh
}

// grpcAddress returns the gRPC server address
func grpcAddress(cfg *config.Config) string {
	return ":" + cfg.App.GRPCPort
}

// httpAddress returns the HTTP server address
func httpAddress(cfg *config.Config) string {
	return ":" + cfg.App.HTTPPort
}
