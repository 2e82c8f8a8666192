package repository

import (
	"context"
	"time"

	"github.com/sangkips/restaurant-billing/internal/domain/entity"
	domainRepo "github.com/sangkips/restaurant-billing/internal/domain/repository"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) OrdersBetween(ctx context.Context, from, to time.Time) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Scopes(CreatedWithin("created_at", &from, &to)).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *reportRepository) TopItems(ctx context.Context, from, to time.Time, limit int) ([]domainRepo.TopItemResult, error) {
	results := []domainRepo.TopItemResult{}

	// Retired menu rows are joined on purpose so historic names still aggregate
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			m.name AS item,
			COALESCE(SUM(oi.qty), 0) AS total_qty,
			COALESCE(SUM(oi.line_total), 0) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN menu m ON m.id = oi.item_id
		WHERE o.created_at >= ? AND o.created_at < ?
		GROUP BY m.name
		ORDER BY total_qty DESC, m.name ASC
		LIMIT ?
	`, from.UTC(), to.UTC(), limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}
