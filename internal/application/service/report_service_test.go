package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/restaurant-billing/internal/domain/enum"
	"github.com/sangkips/restaurant-billing/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", s)
	require.NoError(t, err)
	return ts
}

// seedSales creates two orders inside 2024-03-10..11 and one on 2024-03-12
func seedSales(t *testing.T, env *testEnv) {
	t.Helper()

	closed := env.openOrder(t, "DINE_IN", orderLine{"Margherita Pizza", 2}, orderLine{"Coca Cola", 1})
	env.closeOrder(t, closed.ID)
	env.backdate(t, closed.ID, day(t, "2024-03-10 10:00"))

	open := env.openOrder(t, "TAKEAWAY", orderLine{"Coca Cola", 2})
	env.backdate(t, open.ID, day(t, "2024-03-11 23:59"))

	later := env.openOrder(t, "DINE_IN", orderLine{"Veg Burger", 5})
	env.closeOrder(t, later.ID)
	env.backdate(t, later.ID, day(t, "2024-03-12 00:00"))
}

func TestSalesReport(t *testing.T) {
	env := newTestEnv(t)
	seedSales(t, env)

	report, err := env.reports.SalesReport(context.Background(), "2024-03-10", "2024-03-11")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.TotalOrders)
	assert.Equal(t, 1, report.Summary.FinalizedOrders)
	assert.InDelta(t, 294.00, report.Summary.Revenue, 0.001)
	require.Len(t, report.Summary.Daily, 1)
	assert.Equal(t, "2024-03-10", report.Summary.Daily[0].Date)

	require.Len(t, report.Orders, 2)
	assert.Equal(t, "2024-03-11", report.Orders[0].Date, "newest first")
	assert.Equal(t, enum.OrderStatusPending, report.Orders[0].Status)
	assert.Equal(t, "2024-03-10", report.Orders[1].Date)
	assert.InDelta(t, 280.00, report.Orders[1].Subtotal, 0.001)
	assert.InDelta(t, 14.00, report.Orders[1].GSTAmount, 0.001)
}

func TestSalesReportUsesBusinessTimeZone(t *testing.T) {
	env := newTestEnv(t)
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	env.reports = NewReportService(env.reports.reportRepo, loc, "Test Kitchen", env.reports.log)

	order := env.openOrder(t, "DINE_IN", orderLine{"Coca Cola", 1})
	// 20:00 UTC is 01:30 the next day in India
	env.backdate(t, order.ID, day(t, "2024-03-10 20:00"))

	report, err := env.reports.SalesReport(context.Background(), "2024-03-11", "2024-03-11")
	require.NoError(t, err)
	require.Len(t, report.Orders, 1)
	assert.Equal(t, "2024-03-11", report.Orders[0].Date)

	report, err = env.reports.SalesReport(context.Background(), "2024-03-10", "2024-03-10")
	require.NoError(t, err)
	assert.Empty(t, report.Orders)
}

func TestTopItems(t *testing.T) {
	env := newTestEnv(t)
	seedSales(t, env)
	ctx := context.Background()

	items, err := env.reports.TopItems(ctx, "2024-03-10", "2024-03-11", 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, TopItem{Item: "Coca Cola", TotalQty: 3, Revenue: 120}, items[0])
	assert.Equal(t, TopItem{Item: "Margherita Pizza", TotalQty: 2, Revenue: 240}, items[1])

	items, err = env.reports.TopItems(ctx, "2024-03-10", "2024-03-11", 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestReportsOnEmptyRange(t *testing.T) {
	env := newTestEnv(t)
	seedSales(t, env)
	ctx := context.Background()

	report, err := env.reports.SalesReport(ctx, "2023-01-01", "2023-01-31")
	require.NoError(t, err)
	assert.NotNil(t, report.Orders)
	assert.Empty(t, report.Orders)
	assert.Zero(t, report.Summary.Revenue)

	items, err := env.reports.TopItems(ctx, "2023-01-01", "2023-01-31", 10)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestReportDateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.reports.SalesReport(ctx, "2024/03/10", "2024-03-11")
	assert.True(t, apperror.IsValidation(err))

	_, err = env.reports.SalesReport(ctx, "2024-03-12", "2024-03-11")
	assert.True(t, apperror.IsValidation(err))

	_, err = env.reports.TopItems(ctx, "2024-03-10", "", 10)
	assert.True(t, apperror.IsValidation(err))

	_, err = env.reports.TopItems(ctx, "2024-03-10", "2024-03-11", MaxTopItemsLimit+1)
	assert.True(t, apperror.IsValidation(err))

	_, err = env.reports.TopItems(ctx, "2024-03-10", "2024-03-11", -1)
	assert.True(t, apperror.IsValidation(err))
}

func TestExportSalesReport(t *testing.T) {
	env := newTestEnv(t)
	seedSales(t, env)
	ctx := context.Background()

	csv, err := env.reports.ExportSalesReport(ctx, "2024-03-10", "2024-03-11", "csv")
	require.NoError(t, err)
	assert.Equal(t, "sales_2024-03-10_2024-03-11.csv", csv.Filename)
	assert.Equal(t, "text/csv", csv.ContentType)
	lines := strings.Split(strings.TrimSpace(string(csv.Data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "order_id,date,mode,status,subtotal"))
	assert.Contains(t, lines[2], ",FINALIZED,280.00,14.00,0.00,294.00,CASH,")

	xlsx, err := env.reports.ExportSalesReport(ctx, "2024-03-10", "2024-03-11", "XLSX")
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(xlsx.Data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sales")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	pdf, err := env.reports.ExportSalesReport(ctx, "2024-03-10", "2024-03-11", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, bytes.HasPrefix(pdf.Data, []byte("%PDF-")))

	_, err = env.reports.ExportSalesReport(ctx, "2024-03-10", "2024-03-11", "docx")
	assert.True(t, apperror.IsValidation(err))
}

func TestExportTopItemsCSV(t *testing.T) {
	env := newTestEnv(t)
	seedSales(t, env)

	export, err := env.reports.ExportTopItems(context.Background(), "2024-03-10", "2024-03-11", 10, "csv")
	require.NoError(t, err)
	assert.Equal(t, "top_items_2024-03-10_2024-03-11.csv", export.Filename)
	assert.Equal(t, "item,total_qty,revenue\nCoca Cola,3,120.00\nMargherita Pizza,2,240.00\n", string(export.Data))
}
