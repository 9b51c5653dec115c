package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"employee-qbe-service/internal/adapter/db/migrate"
	"employee-qbe-service/internal/adapter/db/postgres"
	"employee-qbe-service/internal/config"
	"employee-qbe-service/pkg/logger"
)

// NewDatabase opens the configured database (postgres or sqlite) with GORM
// and applies the schema when DB_AUTO_MIGRATE is set.
func NewDatabase(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	// Configure GORM logger
	gormLogger := logger.NewGormLogger(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level)

	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.DB.SQLitePath))
	default:
		dialector = pgdriver.Open(cfg.DB.DSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpen := cfg.DB.MaxOpenConns
	if cfg.DB.Driver == config.DriverSQLite {
		// a single writer avoids "database is locked" errors
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(min(cfg.DB.MaxIdleConns, maxOpen))
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DB.ConnMaxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DB.ConnMaxIdleTime) * time.Second)

	l.Info("database connected successfully",
		zap.String("driver", cfg.DB.Driver),
		zap.Int("max_open_conns", maxOpen),
		zap.Int("max_idle_conns", cfg.DB.MaxIdleConns),
		zap.Int("conn_max_lifetime_seconds", cfg.DB.ConnMaxLifetime),
		zap.Int("conn_max_idle_time_seconds", cfg.DB.ConnMaxIdleTime),
	)

	if cfg.DB.AutoMigrate {
		if err := migrateSchema(db, cfg, l); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		l.Info("database schema up to date", zap.String("driver", cfg.DB.Driver))
	}

	return db, nil
}

// sqliteDSN turns on case-sensitive LIKE so that exact-case string matchers
// behave as they do on postgres.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=case_sensitive_like(1)"
}

// migrateSchema runs the goose migrations on postgres. SQLite databases are
// development stores: they get the GORM schema and the demo rows instead.
func migrateSchema(db *gorm.DB, cfg *config.Config, l *zap.Logger) error {
	if cfg.DB.Driver == config.DriverSQLite {
		if err := db.AutoMigrate(&postgres.EmployeeSchema{}); err != nil {
			return fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
		n, err := postgres.Seed(context.Background(), db)
		if err != nil {
			return err
		}
		if n > 0 {
			l.Info("seeded sqlite database", zap.Int64("rows", n))
		}
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := migrate.Up(sqlDB, cfg.DB.MigrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
