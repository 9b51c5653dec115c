package postgres

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	// Migrate the schema
	require.NoError(t, db.AutoMigrate(&EmployeeSchema{}))

	n, err := Seed(context.Background(), db)
	require.NoError(t, err)
	require.Equal(t, int64(len(SeedEmployees)), n)

	return db
}

func TestSeed_SkipsPopulatedTable(t *testing.T) {
	db := setupTestDB(t)

	n, err := Seed(context.Background(), db)
	require.NoError(t, err)
	assert.Zero(t, n)

	var total int64
	require.NoError(t, db.Model(&EmployeeSchema{}).Count(&total).Error)
	assert.Equal(t, int64(len(SeedEmployees)), total)
}
