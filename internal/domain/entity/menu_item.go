package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultGSTPercent is applied to imported menu rows that leave the GST column blank
var DefaultGSTPercent = decimal.RequireFromString("0.05")

// MenuItem represents a sellable dish or drink.
// Items are never updated in place; an import retires the whole catalog and inserts a new one.
type MenuItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name       string          `gorm:"size:255;not null;index" json:"name"`
	Category   string          `gorm:"size:100;index" json:"category"`
	Price      int64           `gorm:"not null" json:"-"` // Stored in cents
	GSTPercent decimal.Decimal `gorm:"type:numeric(6,4);not null" json:"gst_percent"`
	CreatedAt  time.Time       `json:"created_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new menu item
func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the MenuItem model
func (MenuItem) TableName() string {
	return "menu"
}

// GetPriceDecimal returns the price as a decimal
func (m *MenuItem) GetPriceDecimal() decimal.Decimal {
	return decimal.New(m.Price, -2)
}

// MarshalJSON converts MenuItem to JSON with a decimal price
func (m MenuItem) MarshalJSON() ([]byte, error) {
	type Alias MenuItem
	return json.Marshal(&struct {
		Alias
		Price      float64 `json:"price"`
		GSTPercent float64 `json:"gst_percent"`
	}{
		Alias:      Alias(m),
		Price:      float64(m.Price) / 100,
		GSTPercent: m.GSTPercent.InexactFloat64(),
	})
}
