package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-billing/internal/domain/billing"
	"github.com/sangkips/restaurant-billing/internal/domain/entity"
	"github.com/sangkips/restaurant-billing/internal/domain/enum"
	"github.com/sangkips/restaurant-billing/internal/domain/repository"
	"github.com/sangkips/restaurant-billing/pkg/apperror"
	"github.com/sangkips/restaurant-billing/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// OrderService drives the order lifecycle: PENDING -> TOTALED -> FINALIZED.
// Every mutation of one order is serialised by a per-order lock and runs in a
// single database transaction.
type OrderService struct {
	orderRepo      repository.OrderRepository
	menuRepo       repository.MenuRepository
	defaultGSTRate decimal.Decimal
	locks          *orderLocks
	log            logrus.FieldLogger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	menuRepo repository.MenuRepository,
	defaultGSTRate decimal.Decimal,
	log logrus.FieldLogger,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		menuRepo:       menuRepo,
		defaultGSTRate: defaultGSTRate,
		locks:          newOrderLocks(),
		log:            log,
	}
}

// ComputeTotalsInput carries the billing parameters for ComputeTotals.
// A nil GSTRate uses the configured default.
type ComputeTotalsInput struct {
	Discount billing.Discount
	GSTRate  *decimal.Decimal
}

// BeginOrder opens a new PENDING order with zero totals
func (s *OrderService) BeginOrder(ctx context.Context, mode string) (*entity.Order, error) {
	orderMode, ok := enum.ParseOrderMode(mode)
	if !ok {
		return nil, apperror.NewFieldError("mode", "must be DINE_IN or TAKEAWAY")
	}

	order := &entity.Order{
		Mode:          orderMode,
		Status:        enum.OrderStatusPending,
		PaymentMethod: enum.PaymentMethodPending,
		GSTRate:       s.defaultGSTRate,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.log.WithError(err).WithField("mode", orderMode).Error("failed to create order")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"order_id": order.ID, "mode": orderMode}).Info("order opened")
	return order, nil
}

// AddItem appends qty of a menu item to an order, snapshotting its current price.
// A TOTALED order drops back to PENDING since its totals are now stale.
func (s *OrderService) AddItem(ctx context.Context, orderID, itemID uuid.UUID, qty int) (*entity.OrderItem, error) {
	if qty <= 0 {
		return nil, apperror.NewFieldError("qty", "must be greater than 0")
	}

	release := s.locks.Lock(orderID)
	defer release()

	// The catalog is read before the transaction opens; the order checks still
	// take precedence when reporting errors.
	menuItem, err := s.menuRepo.GetByID(ctx, itemID)
	if err != nil {
		s.log.WithError(err).WithField("item_id", itemID).Error("failed to load menu item")
		return nil, err
	}

	var added *entity.OrderItem
	err = s.orderRepo.Transaction(ctx, func(repo repository.OrderRepository) error {
		order, err := s.loadMutable(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanAddItems() {
			return apperror.NewInvalidStateError(fmt.Sprintf("Order %s is finalized; items can no longer be added", orderID))
		}
		if menuItem == nil {
			return apperror.NewNotFoundError(fmt.Sprintf("Menu item %s", itemID))
		}

		item := &entity.OrderItem{
			OrderID:   orderID,
			ItemID:    itemID,
			Qty:       qty,
			UnitPrice: menuItem.Price,
			LineTotal: billing.LineTotal(menuItem.Price, qty),
		}
		if err := repo.AddItem(ctx, item); err != nil {
			return err
		}

		if next := order.Status.AfterItemAdded(); next != order.Status {
			order.Status = next
			order.TotaledAt = nil
			if err := repo.Update(ctx, order); err != nil {
				return err
			}
		}

		item.Item = *menuItem
		added = item
		return nil
	})
	if err != nil {
		return nil, s.storageError(err, "failed to add item", logrus.Fields{"order_id": orderID, "item_id": itemID})
	}

	s.log.WithFields(logrus.Fields{"order_id": orderID, "item_id": itemID, "qty": qty}).Debug("item added")
	return added, nil
}

// ComputeTotals recalculates subtotal, GST, discount and total from the order's
// current items and marks the order TOTALED. Repeating the call with the same
// inputs yields the same totals.
func (s *OrderService) ComputeTotals(ctx context.Context, orderID uuid.UUID, input ComputeTotalsInput) (*entity.Order, error) {
	rate := s.defaultGSTRate
	if input.GSTRate != nil {
		rate = *input.GSTRate
	}
	if err := billing.Validate(input.Discount, rate); err != nil {
		return nil, err
	}

	release := s.locks.Lock(orderID)
	defer release()

	err := s.orderRepo.Transaction(ctx, func(repo repository.OrderRepository) error {
		order, err := s.loadMutable(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanComputeTotals() {
			return apperror.NewInvalidStateError(fmt.Sprintf("Order %s is finalized; totals can no longer change", orderID))
		}

		items, err := repo.GetItems(ctx, orderID)
		if err != nil {
			return err
		}

		lines := make([]billing.LineItem, len(items))
		for i, item := range items {
			lines[i] = billing.LineItem{UnitPrice: billing.FromCents(item.UnitPrice), Qty: item.Qty}
		}

		breakdown, err := billing.CalculateBill(lines, rate, input.Discount)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		order.Subtotal = billing.ToCents(breakdown.Subtotal)
		order.GSTAmount = billing.ToCents(breakdown.GST)
		order.DiscountAmount = billing.ToCents(breakdown.Discount)
		order.TotalAmount = billing.ToCents(breakdown.Total)
		order.DiscountType = input.Discount.Type
		order.DiscountValue = input.Discount.Value
		order.GSTRate = rate
		order.Status = enum.OrderStatusTotaled
		order.TotaledAt = &now

		return repo.Update(ctx, order)
	})
	if err != nil {
		return nil, s.storageError(err, "failed to compute totals", logrus.Fields{"order_id": orderID})
	}

	return s.GetOrder(ctx, orderID)
}

// FinalizeOrder closes a TOTALED order with the given payment method
func (s *OrderService) FinalizeOrder(ctx context.Context, orderID uuid.UUID, method string) (*entity.Order, error) {
	payment, ok := enum.ParsePaymentMethod(method)
	if !ok {
		return nil, apperror.NewFieldError("payment_method", "must be CASH, CARD or UPI")
	}

	release := s.locks.Lock(orderID)
	defer release()

	err := s.orderRepo.Transaction(ctx, func(repo repository.OrderRepository) error {
		order, err := s.loadMutable(ctx, repo, orderID)
		if err != nil {
			return err
		}
		switch {
		case order.Status == enum.OrderStatusFinalized:
			return apperror.NewInvalidStateError(fmt.Sprintf("Order %s is already finalized", orderID))
		case !order.Status.CanFinalize():
			return apperror.NewInvalidStateError(fmt.Sprintf("Order %s totals are stale or not computed", orderID))
		}

		now := time.Now().UTC()
		order.PaymentMethod = payment
		order.Status = enum.OrderStatusFinalized
		order.FinalizedAt = &now
		return repo.Update(ctx, order)
	})
	if err != nil {
		return nil, s.storageError(err, "failed to finalize order", logrus.Fields{"order_id": orderID})
	}

	s.log.WithFields(logrus.Fields{"order_id": orderID, "payment_method": payment}).Info("order finalized")
	return s.GetOrder(ctx, orderID)
}

// GetOrder retrieves an order with its items
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithItems(ctx, id)
	if err != nil {
		s.log.WithError(err).WithField("order_id", id).Error("failed to load order")
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Order %s", id))
	}
	return order, nil
}

// ListOrders lists orders with filtering, newest first by default
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		s.log.WithError(err).Error("failed to list orders")
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

func (s *OrderService) loadMutable(ctx context.Context, repo repository.OrderRepository, id uuid.UUID) (*entity.Order, error) {
	order, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Order %s", id))
	}
	return order, nil
}

// storageError logs errors that are not already client-facing
func (s *OrderService) storageError(err error, msg string, fields logrus.Fields) error {
	if !apperror.IsAppError(err) {
		s.log.WithError(err).WithFields(fields).Error(msg)
	}
	return err
}
