package database

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MemoryDSN opens a private in-memory database
const MemoryDSN = ":memory:"

// NewSQLiteDB opens a SQLite database file (or MemoryDSN) with foreign keys enforced.
// A single-till deployment runs entirely on this driver.
func NewSQLiteDB(path string, log *logrus.Logger) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_foreign_keys=on&_busy_timeout=5000"
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps an in-memory database alive
	sqlDB.SetMaxOpenConns(1)

	log.WithField("path", path).Info("Successfully opened SQLite database")
	return db, nil
}
