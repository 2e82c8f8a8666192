package repository

import (
	"context"
	"time"

	"github.com/sangkips/restaurant-billing/internal/domain/entity"
)

// TopItemResult represents an aggregated menu item over a period
type TopItemResult struct {
	Item     string `json:"item"`
	TotalQty int64  `json:"total_qty"`
	Revenue  int64  `json:"-"` // cents
}

// ReportRepository defines read-only aggregate queries over the order ledger.
// Periods are half-open: from is inclusive, to is exclusive.
type ReportRepository interface {
	OrdersBetween(ctx context.Context, from, to time.Time) ([]entity.Order, error)
	TopItems(ctx context.Context, from, to time.Time, limit int) ([]TopItemResult, error)
}
