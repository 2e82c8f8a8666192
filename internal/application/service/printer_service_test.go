package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-billing/internal/domain/billing"
	"github.com/sangkips/restaurant-billing/internal/domain/entity"
	"github.com/sangkips/restaurant-billing/internal/domain/enum"
	"github.com/sangkips/restaurant-billing/internal/testutil"
	"github.com/sangkips/restaurant-billing/pkg/apperror"
	"github.com/sangkips/restaurant-billing/pkg/printer"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order := env.openOrder(t, "TAKEAWAY", orderLine{"Margherita Pizza", 2}, orderLine{"French Fries", 1})
	_, err := env.orders.ComputeTotals(ctx, order.ID, ComputeTotalsInput{
		Discount: billing.Discount{Type: enum.DiscountTypeFlat, Value: testutil.Dec(t, "50")},
	})
	require.NoError(t, err)
	_, err = env.orders.FinalizeOrder(ctx, order.ID, "CARD")
	require.NoError(t, err)

	bill, err := env.bills.BuildBill(ctx, order.ID)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^\d{8}-[0-9A-F]{8}$`), bill.BillNo)
	assert.Equal(t, "Test Kitchen", bill.Header.StoreName)
	assert.Equal(t, enum.OrderModeTakeaway, bill.Mode)
	assert.Equal(t, enum.PaymentMethodCard, bill.PaymentMethod)
	require.Len(t, bill.Items, 2)
	assert.Equal(t, entity.BillItem{Name: "Margherita Pizza", Qty: 2, UnitPrice: 120, LineTotal: 240}, bill.Items[0])
	assert.InDelta(t, 300.00, bill.Subtotal, 0.001)
	assert.InDelta(t, 15.00, bill.GSTAmount, 0.001)
	assert.InDelta(t, 50.00, bill.DiscountAmount, 0.001)
	assert.InDelta(t, 265.00, bill.TotalAmount, 0.001)
	assert.InDelta(t, 0.05, bill.GSTRate, 0.0001)
}

func TestBillNumberUsesBusinessDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	log, _ := logtest.NewNullLogger()
	bills := NewBillService(env.printer, env.orderRepo, entity.BillHeader{StoreName: "Test Kitchen"}, printer.Width58mm, ist, log)

	order := env.openOrder(t, "DINE_IN", orderLine{"Cold Coffee", 1})
	env.closeOrder(t, order.ID)
	// 01:00 on the 16th in Kolkata is still the 15th in UTC
	env.backdate(t, order.ID, time.Date(2026, 10, 15, 19, 30, 0, 0, time.UTC))

	bill, err := bills.BuildBill(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "20261016-"+strings.ToUpper(order.ID.String()[:8]), bill.BillNo)
	assert.Equal(t, 16, bill.CreatedAt.Day())
}

func TestBuildBillRequiresFinalizedOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order := env.openOrder(t, "DINE_IN", orderLine{"Coca Cola", 1})
	_, err := env.bills.BuildBill(ctx, order.ID)
	assert.True(t, apperror.IsInvalidState(err))

	_, err = env.bills.BuildBill(ctx, uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestRenderBillPDF(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order := env.openOrder(t, "DINE_IN", orderLine{"Veg Burger", 1})
	env.closeOrder(t, order.ID)

	bill, err := env.bills.BuildBill(ctx, order.ID)
	require.NoError(t, err)

	data, err := env.bills.RenderPDF(bill)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestPrintBill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order := env.openOrder(t, "DINE_IN", orderLine{"Cold Coffee", 2})
	env.closeOrder(t, order.ID)

	bill, err := env.bills.PrintBill(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, bill)

	jobs := env.printer.Jobs()
	require.Len(t, jobs, 1)
	assert.Contains(t, string(jobs[0]), "2x Cold Coffee")
	assert.Contains(t, string(jobs[0]), "@ 50.00 each")
	assert.Contains(t, string(jobs[0]), "Rs. 105.00")
	assert.Contains(t, string(jobs[0]), "Thank you! Visit again.")

	env.printer.Err = errors.New("paper out")
	bill, err = env.bills.PrintBill(ctx, order.ID)
	require.Error(t, err)
	assert.NotNil(t, bill, "bill is returned even when printing fails")
	assert.True(t, apperror.HasCode(err, http.StatusServiceUnavailable))
}

func TestFormatBillDiscountLine(t *testing.T) {
	bill := &entity.Bill{
		Header:         entity.BillHeader{StoreName: "Test Kitchen"},
		BillNo:         "20240310-ABCDEF12",
		Mode:           enum.OrderModeDineIn,
		PaymentMethod:  enum.PaymentMethodCash,
		CreatedAt:      time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		Items:          []entity.BillItem{{Name: "Veg Burger", Qty: 1, UnitPrice: 80, LineTotal: 80}},
		Subtotal:       80,
		GSTRate:        0.125,
		GSTAmount:      10,
		DiscountAmount: 8,
		TotalAmount:    82,
	}

	out := string(FormatBill(bill, 32))
	assert.Contains(t, out, "Discount:")
	assert.Contains(t, out, "-8.00")
	assert.Contains(t, out, "GST 12.5%:")

	bill.DiscountAmount = 0
	assert.NotContains(t, string(FormatBill(bill, 32)), "Discount:")
}

func TestPrinterStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	status := env.bills.GetStatus(ctx)
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)
	assert.Equal(t, "memory", status.Type)
	assert.Equal(t, 32, status.Width)

	_, err := env.bills.TestPrint(ctx)
	require.NoError(t, err)
	assert.Len(t, env.printer.Jobs(), 1)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "5", percent(0.05))
	assert.Equal(t, "12.5", percent(0.125))
	assert.Equal(t, "18", percent(0.18))
	assert.Equal(t, "0", percent(0))
}
