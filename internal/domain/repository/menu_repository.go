package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-billing/internal/domain/entity"
	"github.com/sangkips/restaurant-billing/pkg/pagination"
)

// MenuRepository defines the interface for menu catalog operations
type MenuRepository interface {
	// ReplaceAll retires every active item and inserts items in a single transaction
	ReplaceAll(ctx context.Context, items []entity.MenuItem) error
	// GetByID returns an active item, or nil when absent or retired
	GetByID(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error)
	List(ctx context.Context, params *MenuFilterParams) ([]entity.MenuItem, int64, error)
	Count(ctx context.Context) (int64, error)
}

// MenuFilterParams contains filtering parameters for menu queries
type MenuFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   string
}
