package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-billing/internal/domain/entity"
	"github.com/sangkips/restaurant-billing/internal/domain/enum"
	"github.com/sangkips/restaurant-billing/pkg/pagination"
)

// OrderRepository defines the interface for order ledger operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// GetForUpdate loads an order and locks its row where the database supports it
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)

	AddItem(ctx context.Context, item *entity.OrderItem) error
	GetItems(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error)
	CountItems(ctx context.Context, orderID uuid.UUID) (int64, error)

	// Transaction runs fn against a repository bound to a single database transaction
	Transaction(ctx context.Context, fn func(repo OrderRepository) error) error
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.OrderStatus
	Mode       *enum.OrderMode
	From       *time.Time // inclusive
	To         *time.Time // exclusive
	SortOrder  string
}
