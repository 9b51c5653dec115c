package qbe

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Executor runs Example queries for the GORM model T.
type Executor[T any] struct {
	db *gorm.DB
}

// NewExecutor creates an Executor bound to db.
func NewExecutor[T any](db *gorm.DB) *Executor[T] {
	return &Executor[T]{db: db}
}

func (x *Executor[T]) query(ctx context.Context, ex Example[T]) *gorm.DB {
	probe := ex.Probe()
	return x.db.WithContext(ctx).Model(new(T)).Scopes(Scope(&probe, ex.Matcher()))
}

// FindAll returns every row matching the example, ordered by primary key.
func (x *Executor[T]) FindAll(ctx context.Context, ex Example[T]) ([]T, error) {
	rows := make([]T, 0)
	err := x.query(ctx, ex).
		Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: clause.PrimaryKey}}).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find all by example: %w", err)
	}
	return rows, nil
}

// FindOne returns the single matching row, nil when nothing matches and
// ErrNonUniqueResult when more than one row matches.
func (x *Executor[T]) FindOne(ctx context.Context, ex Example[T]) (*T, error) {
	var rows []T
	if err := x.query(ctx, ex).Limit(2).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find one by example: %w", err)
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return &rows[0], nil
	default:
		return nil, ErrNonUniqueResult
	}
}

// Count returns the number of matching rows.
func (x *Executor[T]) Count(ctx context.Context, ex Example[T]) (int64, error) {
	var n int64
	if err := x.query(ctx, ex).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count by example: %w", err)
	}
	return n, nil
}

// Exists reports whether at least one row matches.
func (x *Executor[T]) Exists(ctx context.Context, ex Example[T]) (bool, error) {
	var rows []T
	tx := x.query(ctx, ex).Limit(1).Find(&rows)
	if tx.Error != nil {
		return false, fmt.Errorf("exists by example: %w", tx.Error)
	}
	return len(rows) > 0, nil
}
