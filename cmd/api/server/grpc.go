package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"

	grpcadapter "employee-qbe-service/internal/adapter/grpc"
	"employee-qbe-service/internal/adapter/grpc/middleware"
	"employee-qbe-service/internal/usecase/employee"
	"employee-qbe-service/pkg/logger"
)

// SetupGRPC creates and configures the gRPC server
func SetupGRPC(uc employee.Service, l *zap.Logger, rateLimiter *middleware.RateLimiter) *grpc.Server {
	// Create gRPC server with request ID and rate limit interceptors
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			rateLimiter.UnaryInterceptor(),
		),
	)
	grpcadapter.RegisterEmployeeSearchServer(grpcServer, grpcadapter.NewEmployeeSearchService(uc, l))

	return grpcServer
}
