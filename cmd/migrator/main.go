package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"employee-qbe-service/internal/adapter/db/migrate"
	"employee-qbe-service/internal/config"
	"employee-qbe-service/pkg/logger"
)

// Usage: migrator [up|down|status|version|redo|reset|up-to N|down-to N]
func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.DB.Driver != config.DriverPostgres {
		log.Fatalf("migrations target postgres, DB_DRIVER is %q", cfg.DB.Driver)
	}

	l, err := logger.NewWithConfig(logger.Config{
		Level:          cfg.Logger.Level,
		Format:         cfg.Logger.Format,
		OutputPath:     cfg.Logger.OutputPath,
		ServiceName:    cfg.Logger.ServiceName + "-migrator",
		ServiceVersion: cfg.Logger.ServiceVersion,
		Environment:    os.Getenv("APP_ENV"),
	})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	command, args := "up", []string(nil)
	if len(os.Args) > 1 {
		command, args = os.Args[1], os.Args[2:]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, closeDB, err := migrate.OpenPostgres(ctx, cfg.DB.DSN())
	if err != nil {
		l.Fatal("failed to connect to database", zap.Error(err))
	}
	defer closeDB()

	if err := migrate.Run(db, cfg.DB.MigrationsDir, command, args...); err != nil {
		l.Error("migration failed", zap.String("command", command), zap.Error(err))
		closeDB()
		os.Exit(1)
	}

	l.Info("migrations applied", zap.String("command", command), zap.String("dir", cfg.DB.MigrationsDir))
}
