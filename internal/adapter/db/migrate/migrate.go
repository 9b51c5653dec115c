// Package migrate applies the SQL migrations under migrations/ with goose.
package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

// OpenPostgres opens a database/sql handle backed by a pgx pool. The returned
// close function releases both.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, func(), error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	return db, func() {
		_ = db.Close()
		pool.Close()
	}, nil
}

// Up applies every pending migration found in dir.
func Up(db *sql.DB, dir string) error {
	return Run(db, dir, "up")
}

// Run executes a goose command ("up", "down", "status", "version", "redo",
// "reset", "up-to <version>", ...) against a PostgreSQL database.
func Run(db *sql.DB, dir, command string, args ...string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Run(command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
