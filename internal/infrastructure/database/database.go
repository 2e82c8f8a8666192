package database

import (
	"fmt"
	"time"

	"github.com/sangkips/restaurant-billing/internal/config"
	"github.com/sangkips/restaurant-billing/internal/domain/entity"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database selected by cfg.Driver
func Open(cfg *config.DatabaseConfig, log *logrus.Logger) (*gorm.DB, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgresDB(cfg, log)
	case "sqlite", "":
		return NewSQLiteDB(cfg.SQLitePath, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func gormConfig(log *logrus.Logger) *gorm.Config {
	logLevel := logger.Warn
	if log.IsLevelEnabled(logrus.DebugLevel) {
		logLevel = logger.Info
	}

	return &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
		// Timestamps are stored in UTC; reports convert to the business time zone
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	err := db.AutoMigrate(
		&entity.MenuItem{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}

// Reset drops every billing table and recreates the schema
func Reset(db *gorm.DB, log *logrus.Logger) error {
	log.Warn("Dropping all billing tables...")
	if err := db.Migrator().DropTable(
		&entity.OrderItem{},
		&entity.Order{},
		&entity.MenuItem{},
		&entity.IdempotencyKey{},
	); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return AutoMigrate(db, log)
}

// SampleMenu is the starter catalog loaded by SeedSampleMenu
func SampleMenu() []entity.MenuItem {
	gst := entity.DefaultGSTPercent
	return []entity.MenuItem{
		{Name: "Margherita Pizza", Category: "Food", Price: 12000, GSTPercent: gst},
		{Name: "Veg Burger", Category: "Food", Price: 8000, GSTPercent: gst},
		{Name: "French Fries", Category: "Snacks", Price: 6000, GSTPercent: gst},
		{Name: "Cold Coffee", Category: "Beverages", Price: 5000, GSTPercent: gst},
		{Name: "Coca Cola", Category: "Beverages", Price: 4000, GSTPercent: gst},
	}
}

// SeedSampleMenu inserts the sample catalog when the menu is empty.
// It returns the number of items inserted.
func SeedSampleMenu(db *gorm.DB, log *logrus.Logger) (int, error) {
	var count int64
	if err := db.Model(&entity.MenuItem{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count menu items: %w", err)
	}
	if count > 0 {
		log.WithField("items", count).Info("Menu already populated, skipping seed")
		return 0, nil
	}

	items := SampleMenu()
	if err := db.Create(&items).Error; err != nil {
		return 0, fmt.Errorf("failed to seed menu: %w", err)
	}

	log.WithField("items", len(items)).Info("Sample menu seeded")
	return len(items), nil
}
