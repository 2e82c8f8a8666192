// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"testing"

	"github.com/sangkips/restaurant-billing/internal/domain/entity"
	"github.com/sangkips/restaurant-billing/internal/infrastructure/database"
	"github.com/sangkips/restaurant-billing/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB opens a migrated in-memory SQLite database private to the test
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	log := logger.Discard()
	db, err := database.NewSQLiteDB(database.MemoryDSN, log)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, log))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedMenu inserts the sample menu and returns the items keyed by name
func SeedMenu(t testing.TB, db *gorm.DB) map[string]entity.MenuItem {
	t.Helper()

	items := database.SampleMenu()
	require.NoError(t, db.Create(&items).Error)

	byName := make(map[string]entity.MenuItem, len(items))
	for _, item := range items {
		byName[item.Name] = item
	}
	return byName
}

// Dec parses a decimal literal, failing the test on bad input
func Dec(t testing.TB, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
