package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"go.uber.org/zap"

	"employee-qbe-service/cmd/api/di"
	"employee-qbe-service/cmd/api/server"
	"employee-qbe-service/internal/config"
	"employee-qbe-service/pkg/logger"
)

// App represents the application
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Server    *server.Server
	Container *di.Container
}

// New creates a new application instance
func New(ctx context.Context) (*App, error) {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := initLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Create DI container
	container, err := di.NewContainer(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    l,
		Server:    server.New(cfg, l, container),
		Container: container,
	}, nil
}

// Run starts the application and blocks until ctx is canceled or a server fails.
func (a *App) Run(ctx context.Context) (err error) {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error("panic recovered in application",
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			err = fmt.Errorf("application panic: %v", r)
		}
	}()

	a.Logger.Info("starting application",
		zap.String("service", a.Config.Logger.ServiceName),
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", getEnvironment()),
		zap.String("db_driver", a.Config.DB.Driver),
		zap.Bool("cache_enabled", a.Container.RedisClient != nil),
	)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		// Add panic recovery for server goroutine
		defer func() {
			if r := recover(); r != nil {
				errChan <- fmt.Errorf("server panic: %v", r)
			}
		}()

		if err := a.Server.Start(ctx); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		a.Logger.Info("shutting down application...")
		return a.shutdown()
	case err := <-errChan:
		a.Logger.Error("server stopped unexpectedly", zap.Error(err))
		return errors.Join(err, a.shutdown())
	}
}

// shutdown gracefully shuts down the application
func (a *App) shutdown() error {
	// Create shutdown context with configurable timeout
	timeout := time.Duration(a.Config.App.ShutdownTimeoutSeconds) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a.Logger.Info("starting graceful shutdown",
		zap.Int("timeout_seconds", a.Config.App.ShutdownTimeoutSeconds),
	)

	var errs []error

	// Shutdown Gin server
	if a.Server.Gin != nil {
		a.Logger.Info("shutting down REST server...")
		if err := a.Server.Gin.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("failed to shutdown REST server", zap.Error(err))
			errs = append(errs, fmt.Errorf("gin shutdown: %w", err))
		}
	}

	// Shutdown gRPC server, forcing it when the deadline passes
	if a.Server.GRPC != nil {
		a.Logger.Info("shutting down gRPC server...")
		done := make(chan struct{})
		go func() {
			a.Server.GRPC.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-shutdownCtx.Done():
			a.Server.GRPC.Stop()
			errs = append(errs, fmt.Errorf("grpc shutdown: %w", shutdownCtx.Err()))
		}
	}

	// Close container resources
	if a.Container != nil {
		a.Logger.Info("closing container resources...")
		if err := a.Container.Close(); err != nil {
			a.Logger.Error("failed to close container", zap.Error(err))
			errs = append(errs, fmt.Errorf("container close: %w", err))
		}
	}

	a.Logger.Info("application shutdown complete")

	// Sync logger; stdout and stderr do not support fsync
	if err := a.Logger.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
		errs = append(errs, fmt.Errorf("logger sync: %w", err))
	}

	return errors.Join(errs...)
}

// loadConfig loads application configuration
func loadConfig() (*config.Config, error) {
	return config.LoadConfig(getConfigPath())
}

// initLogger initializes the application logger
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	loggerCfg := logger.Config{
		Level:            cfg.Logger.Level,
		Format:           cfg.Logger.Format,
		OutputPath:       cfg.Logger.OutputPath,
		SlowQuerySeconds: cfg.Logger.SlowQuerySeconds,
		EnableSampling:   cfg.Logger.EnableSampling,
		ServiceName:      cfg.Logger.ServiceName,
		ServiceVersion:   cfg.Logger.ServiceVersion,
		Environment:      getEnvironment(),
	}

	return logger.NewWithConfig(loggerCfg)
}

// getConfigPath returns the configuration path
func getConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "."
}

// getEnvironment returns the application environment
func getEnvironment() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "development"
}
