package di

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"employee-qbe-service/cmd/api/infrastructure"
	"employee-qbe-service/internal/adapter/cache"
	"employee-qbe-service/internal/adapter/db/postgres"
	ginhandler "employee-qbe-service/internal/adapter/gin/handler"
	ginrouter "employee-qbe-service/internal/adapter/gin/router"
	"employee-qbe-service/internal/adapter/grpc/middleware"
	"employee-qbe-service/internal/adapter/repository/cached"
	"employee-qbe-service/internal/config"
	"employee-qbe-service/internal/metrics"
	"employee-qbe-service/internal/usecase/employee"
	redisclient "employee-qbe-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	Registry    *prometheus.Registry
	Metrics     *metrics.Metrics
	EmployeeUC  employee.Service
	RateLimiter *middleware.RateLimiter
	GinHandler  *ginhandler.EmployeeHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg)

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis client
	rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		_ = infrastructure.CloseDatabase(db)
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	// Initialize repository, cached when Redis is available
	var repo employee.Repository = postgres.NewEmployeeRepoPG(db, m, l)
	var rateLimiter *middleware.RateLimiter
	if rdb != nil {
		employeeCache := cache.NewRedisEmployeeCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewCachedEmployeeRepository(repo, employeeCache, m, l)

		rateLimiter = middleware.NewRateLimiter(
			rdb.Client,
			middleware.RateLimiterConfig{
				Enabled:           cfg.RateLimit.Enabled,
				RequestsPerSecond: float64(cfg.RateLimit.RequestsPerSecond),
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
				WindowSeconds:     cfg.RateLimit.WindowSeconds,
			},
			l,
		)
	}

	// Initialize use case
	employeeUC := employee.New(repo, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		RedisClient: rdb,
		Registry:    reg,
		Metrics:     m,
		EmployeeUC:  employeeUC,
		RateLimiter: rateLimiter,
		GinHandler:  ginhandler.NewEmployeeHandler(employeeUC, l),
	}, nil
}

// HealthChecks returns the dependency probes served by /health.
func (c *Container) HealthChecks() map[string]ginrouter.HealthCheck {
	checks := map[string]ginrouter.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := c.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if c.RedisClient != nil {
		checks["redis"] = c.RedisClient.Check
	}
	return checks
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
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
