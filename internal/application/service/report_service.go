package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-billing/internal/domain/enum"
	"github.com/sangkips/restaurant-billing/internal/domain/repository"
	"github.com/sangkips/restaurant-billing/pkg/apperror"
	"github.com/sangkips/restaurant-billing/pkg/pdfdoc"
	"github.com/sangkips/restaurant-billing/pkg/sheet"
	"github.com/sirupsen/logrus"
)

// DateLayout is the accepted format for report date bounds
const DateLayout = "2006-01-02"

const (
	DefaultTopItemsLimit = 10
	MaxTopItemsLimit     = 100
)

// ReportService builds sales and item reports over the order ledger.
// Calendar days are interpreted in the business time zone.
type ReportService struct {
	reportRepo repository.ReportRepository
	loc        *time.Location
	storeName  string
	log        logrus.FieldLogger
}

// NewReportService creates a new report service
func NewReportService(reportRepo repository.ReportRepository, loc *time.Location, storeName string, log logrus.FieldLogger) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		reportRepo: reportRepo,
		loc:        loc,
		storeName:  storeName,
		log:        log,
	}
}

// SalesRow is one order in a sales report
type SalesRow struct {
	OrderID        uuid.UUID          `json:"order_id"`
	Date           string             `json:"date"`
	Mode           enum.OrderMode     `json:"mode"`
	Status         enum.OrderStatus   `json:"status"`
	Subtotal       float64            `json:"subtotal"`
	GSTAmount      float64            `json:"gst_amount"`
	DiscountAmount float64            `json:"discount_amount"`
	TotalAmount    float64            `json:"total_amount"`
	PaymentMethod  enum.PaymentMethod `json:"payment_method"`
	CreatedAt      time.Time          `json:"created_at"`
}

// DailySalesPoint aggregates finalized orders for one calendar day
type DailySalesPoint struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// SalesSummary totals a sales report. Revenue counts finalized orders only.
type SalesSummary struct {
	TotalOrders     int               `json:"total_orders"`
	FinalizedOrders int               `json:"finalized_orders"`
	Revenue         float64           `json:"revenue"`
	Daily           []DailySalesPoint `json:"daily"`
}

// SalesReport lists orders created within [StartDate, EndDate]
type SalesReport struct {
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Summary   SalesSummary `json:"summary"`
	Orders    []SalesRow   `json:"orders"`
}

// TopItem is an aggregated menu item over a period
type TopItem struct {
	Item     string  `json:"item"`
	TotalQty int64   `json:"total_qty"`
	Revenue  float64 `json:"revenue"`
}

// Export is a rendered report file
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ParseDateRange converts inclusive YYYY-MM-DD bounds into a half-open
// [from, to) interval in the business time zone
func (s *ReportService) ParseDateRange(start, end string) (time.Time, time.Time, error) {
	var fieldErrors []apperror.FieldError

	from, err := time.ParseInLocation(DateLayout, strings.TrimSpace(start), s.loc)
	if err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "start_date", Message: "must be a date in YYYY-MM-DD format"})
	}
	last, err := time.ParseInLocation(DateLayout, strings.TrimSpace(end), s.loc)
	if err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "end_date", Message: "must be a date in YYYY-MM-DD format"})
	}
	if len(fieldErrors) > 0 {
		return time.Time{}, time.Time{}, apperror.NewValidationError(fieldErrors)
	}

	if from.After(last) {
		return time.Time{}, time.Time{}, apperror.NewFieldError("start_date", "must not be after end_date")
	}
	return from, last.AddDate(0, 0, 1), nil
}

// SalesReport returns all orders created between start and end (inclusive days), newest first
func (s *ReportService) SalesReport(ctx context.Context, start, end string) (*SalesReport, error) {
	from, to, err := s.ParseDateRange(start, end)
	if err != nil {
		return nil, err
	}

	orders, err := s.reportRepo.OrdersBetween(ctx, from, to)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"start_date": start, "end_date": end}).Error("failed to load sales report")
		return nil, err
	}

	report := &SalesReport{
		StartDate: start,
		EndDate:   end,
		Orders:    make([]SalesRow, 0, len(orders)),
	}

	var revenue int64
	daily := make(map[string]*DailySalesPoint)
	dailyCents := make(map[string]int64)

	for _, o := range orders {
		date := o.CreatedAt.In(s.loc).Format(DateLayout)
		report.Orders = append(report.Orders, SalesRow{
			OrderID:        o.ID,
			Date:           date,
			Mode:           o.Mode,
			Status:         o.Status,
			Subtotal:       centsToFloat(o.Subtotal),
			GSTAmount:      centsToFloat(o.GSTAmount),
			DiscountAmount: centsToFloat(o.DiscountAmount),
			TotalAmount:    centsToFloat(o.TotalAmount),
			PaymentMethod:  o.PaymentMethod,
			CreatedAt:      o.CreatedAt,
		})

		if o.Status != enum.OrderStatusFinalized {
			continue
		}
		report.Summary.FinalizedOrders++
		revenue += o.TotalAmount

		point, ok := daily[date]
		if !ok {
			point = &DailySalesPoint{Date: date}
			daily[date] = point
		}
		point.Orders++
		dailyCents[date] += o.TotalAmount
	}

	report.Summary.TotalOrders = len(orders)
	report.Summary.Revenue = centsToFloat(revenue)
	report.Summary.Daily = make([]DailySalesPoint, 0, len(daily))
	for date, point := range daily {
		point.Revenue = centsToFloat(dailyCents[date])
		report.Summary.Daily = append(report.Summary.Daily, *point)
	}
	sort.Slice(report.Summary.Daily, func(i, j int) bool {
		return report.Summary.Daily[i].Date < report.Summary.Daily[j].Date
	})

	return report, nil
}

// TopItems returns the best-selling items by quantity. A zero limit uses the default.
func (s *ReportService) TopItems(ctx context.Context, start, end string, limit int) ([]TopItem, error) {
	from, to, err := s.ParseDateRange(start, end)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = DefaultTopItemsLimit
	}
	if limit < 1 || limit > MaxTopItemsLimit {
		return nil, apperror.NewFieldError("limit", fmt.Sprintf("must be between 1 and %d", MaxTopItemsLimit))
	}

	results, err := s.reportRepo.TopItems(ctx, from, to, limit)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"start_date": start, "end_date": end}).Error("failed to load top items")
		return nil, err
	}

	items := make([]TopItem, len(results))
	for i, r := range results {
		items[i] = TopItem{Item: r.Item, TotalQty: r.TotalQty, Revenue: centsToFloat(r.Revenue)}
	}
	return items, nil
}

// ExportSalesReport renders the sales report as csv, xlsx or pdf
func (s *ReportService) ExportSalesReport(ctx context.Context, start, end, format string) (*Export, error) {
	report, err := s.SalesReport(ctx, start, end)
	if err != nil {
		return nil, err
	}
	base := fmt.Sprintf("sales_%s_%s", report.StartDate, report.EndDate)

	if strings.EqualFold(strings.TrimSpace(format), "pdf") {
		top, err := s.TopItems(ctx, start, end, DefaultTopItemsLimit)
		if err != nil {
			return nil, err
		}
		data, err := s.renderSalesPDF(report, top)
		if err != nil {
			s.log.WithError(err).Error("failed to render sales report pdf")
			return nil, err
		}
		return &Export{Filename: base + ".pdf", ContentType: "application/pdf", Data: data}, nil
	}

	table := &sheet.Table{
		Sheet: "Sales",
		Header: []string{
			"order_id", "date", "mode", "status", "subtotal", "gst_amount",
			"discount_amount", "total_amount", "payment_method", "created_at",
		},
	}
	for _, r := range report.Orders {
		table.Rows = append(table.Rows, []interface{}{
			r.OrderID.String(), r.Date, r.Mode.String(), r.Status.String(), r.Subtotal, r.GSTAmount,
			r.DiscountAmount, r.TotalAmount, r.PaymentMethod.String(), r.CreatedAt.In(s.loc).Format(time.RFC3339),
		})
	}
	return s.exportTable(table, base, format)
}

// ExportTopItems renders the top items report as csv or xlsx
func (s *ReportService) ExportTopItems(ctx context.Context, start, end string, limit int, format string) (*Export, error) {
	items, err := s.TopItems(ctx, start, end, limit)
	if err != nil {
		return nil, err
	}

	table := &sheet.Table{
		Sheet:  "Top Items",
		Header: []string{"item", "total_qty", "revenue"},
	}
	for _, item := range items {
		table.Rows = append(table.Rows, []interface{}{item.Item, item.TotalQty, item.Revenue})
	}
	return s.exportTable(table, fmt.Sprintf("top_items_%s_%s", start, end), format)
}

func (s *ReportService) exportTable(table *sheet.Table, base, format string) (*Export, error) {
	f, ok := sheet.ParseFormat(format)
	if !ok {
		return nil, apperror.NewFieldError("format", "must be json, csv, xlsx or pdf")
	}

	var buf bytes.Buffer
	if err := sheet.Write(&buf, f, table); err != nil {
		s.log.WithError(err).WithField("format", f).Error("failed to write report")
		return nil, err
	}
	return &Export{
		Filename:    base + "." + string(f),
		ContentType: f.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

func (s *ReportService) renderSalesPDF(report *SalesReport, top []TopItem) ([]byte, error) {
	doc := pdfdoc.NewDocument("Sales Report")
	doc.Heading(s.storeName, 18).
		CenteredText("Sales Report").
		CenteredText(fmt.Sprintf("%s to %s", report.StartDate, report.EndDate)).
		Separator()

	doc.KeyValue("Total Orders:", fmt.Sprintf("%d", report.Summary.TotalOrders)).
		KeyValue("Finalized Orders:", fmt.Sprintf("%d", report.Summary.FinalizedOrders)).
		SetBold(true).
		KeyValue("Total Revenue:", fmt.Sprintf("%.2f", report.Summary.Revenue)).
		SetBold(false).
		Space(4)

	doc.SetBold(true).Text("Top Items").SetBold(false)
	if len(top) == 0 {
		doc.Text("No items sold in this period.")
	} else {
		rows := make([][]string, len(top))
		for i, item := range top {
			rows[i] = []string{item.Item, fmt.Sprintf("%d", item.TotalQty), fmt.Sprintf("%.2f", item.Revenue)}
		}
		doc.Table([]pdfdoc.Column{
			{Header: "Item"},
			{Header: "Qty", Width: 25, Align: pdfdoc.AlignRight},
			{Header: "Revenue", Width: 40, Align: pdfdoc.AlignRight},
		}, rows)
	}
	doc.Space(4)

	doc.SetBold(true).Text("Orders").SetBold(false)
	rows := make([][]string, len(report.Orders))
	for i, r := range report.Orders {
		rows[i] = []string{
			r.Date,
			strings.ToUpper(r.OrderID.String()[:8]),
			r.Mode.String(),
			r.Status.String(),
			r.PaymentMethod.String(),
			fmt.Sprintf("%.2f", r.TotalAmount),
		}
	}
	doc.Table([]pdfdoc.Column{
		{Header: "Date", Width: 25},
		{Header: "Order", Width: 25},
		{Header: "Mode"},
		{Header: "Status"},
		{Header: "Payment"},
		{Header: "Total", Width: 30, Align: pdfdoc.AlignRight},
	}, rows)

	return doc.Bytes()
}

func centsToFloat(cents int64) float64 {
	return float64(cents) / 100
}
