package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-billing/internal/domain/entity"
	"github.com/sangkips/restaurant-billing/internal/domain/repository"
	infraRepo "github.com/sangkips/restaurant-billing/internal/infrastructure/repository"
	"github.com/sangkips/restaurant-billing/internal/testutil"
	"github.com/sangkips/restaurant-billing/pkg/printer"
	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	menu      map[string]entity.MenuItem
	orderRepo repository.OrderRepository
	menuRepo  repository.MenuRepository
	orders    *OrderService
	menuSvc   *MenuService
	reports   *ReportService
	bills     *BillService
	printer   *printer.MemoryPrinter
	logs      *logtest.Hook
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	log, hook := logtest.NewNullLogger()

	orderRepo := infraRepo.NewOrderRepository(db)
	menuRepo := infraRepo.NewMenuRepository(db)
	reportRepo := infraRepo.NewReportRepository(db)
	mem := &printer.MemoryPrinter{}

	header := entity.BillHeader{StoreName: "Test Kitchen", Address: "12 MG Road", Currency: "Rs."}

	return &testEnv{
		db:        db,
		menu:      testutil.SeedMenu(t, db),
		orderRepo: orderRepo,
		menuRepo:  menuRepo,
		orders:    NewOrderService(orderRepo, menuRepo, decimal.RequireFromString("0.05"), log),
		menuSvc:   NewMenuService(menuRepo, log),
		reports:   NewReportService(reportRepo, time.UTC, "Test Kitchen", log),
		bills:     NewBillService(mem, orderRepo, header, printer.Width58mm, time.UTC, log),
		printer:   mem,
		logs:      hook,
	}
}

type orderLine struct {
	name string
	qty  int
}

// openOrder begins an order and adds the given menu items by name
func (e *testEnv) openOrder(t *testing.T, mode string, lines ...orderLine) *entity.Order {
	t.Helper()
	ctx := context.Background()

	order, err := e.orders.BeginOrder(ctx, mode)
	require.NoError(t, err)

	for _, l := range lines {
		item, ok := e.menu[l.name]
		require.True(t, ok, "unknown menu item %s", l.name)
		_, err := e.orders.AddItem(ctx, order.ID, item.ID, l.qty)
		require.NoError(t, err)
	}
	return order
}

// closeOrder computes totals without discount and finalizes with cash
func (e *testEnv) closeOrder(t *testing.T, id uuid.UUID) *entity.Order {
	t.Helper()
	ctx := context.Background()

	_, err := e.orders.ComputeTotals(ctx, id, ComputeTotalsInput{})
	require.NoError(t, err)
	order, err := e.orders.FinalizeOrder(ctx, id, "CASH")
	require.NoError(t, err)
	return order
}

// backdate moves an order's creation time so date-bounded queries are deterministic
func (e *testEnv) backdate(t *testing.T, id uuid.UUID, at time.Time) {
	t.Helper()
	require.NoError(t, e.db.Model(&entity.Order{}).Where("id = ?", id).Update("created_at", at.UTC()).Error)
}
