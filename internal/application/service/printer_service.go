package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-billing/internal/domain/entity"
	"github.com/sangkips/restaurant-billing/internal/domain/enum"
	"github.com/sangkips/restaurant-billing/internal/domain/repository"
	"github.com/sangkips/restaurant-billing/pkg/apperror"
	"github.com/sangkips/restaurant-billing/pkg/pdfdoc"
	"github.com/sangkips/restaurant-billing/pkg/printer"
	"github.com/sirupsen/logrus"
)

const billFooter = "Thank you! Visit again."

// BillService composes bills from finalized orders and renders them as PDF or
// ESC/POS for the thermal printer.
type BillService struct {
	printer   printer.Printer
	orderRepo repository.OrderRepository
	header    entity.BillHeader
	width     int
	loc       *time.Location
	log       logrus.FieldLogger
}

// NewBillService creates a new bill service
func NewBillService(
	p printer.Printer,
	orderRepo repository.OrderRepository,
	header entity.BillHeader,
	width int,
	loc *time.Location,
	log logrus.FieldLogger,
) *BillService {
	if width <= 0 {
		width = printer.Width58mm
	}
	if loc == nil {
		loc = time.UTC
	}
	return &BillService{
		printer:   p,
		orderRepo: orderRepo,
		header:    header,
		width:     width,
		loc:       loc,
		log:       log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Width      int    `json:"width"`
}

// GetStatus returns printer connection status.
func (s *BillService) GetStatus(ctx context.Context) *PrinterStatus {
	kind := s.printer.Type()
	return &PrinterStatus{
		Configured: kind != "none",
		Connected:  s.printer.IsConnected(ctx),
		Type:       kind,
		Width:      s.width,
	}
}

// BillNumber derives the printed bill number from the order's id and its
// creation date in the business time zone
func (s *BillService) BillNumber(order *entity.Order) string {
	return order.CreatedAt.In(s.loc).Format("20060102") + "-" + strings.ToUpper(order.ID.String()[:8])
}

// BuildBill composes the bill for a finalized order
func (s *BillService) BuildBill(ctx context.Context, orderID uuid.UUID) (*entity.Bill, error) {
	order, err := s.orderRepo.GetWithItems(ctx, orderID)
	if err != nil {
		s.log.WithError(err).WithField("order_id", orderID).Error("failed to load order for bill")
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Order %s", orderID))
	}
	if order.Status != enum.OrderStatusFinalized {
		return nil, apperror.NewInvalidStateError(fmt.Sprintf("Order %s must be finalized before a bill is issued", orderID))
	}

	bill := &entity.Bill{
		Header:         s.header,
		OrderID:        order.ID,
		BillNo:         s.BillNumber(order),
		Mode:           order.Mode,
		Status:         order.Status,
		PaymentMethod:  order.PaymentMethod,
		CreatedAt:      order.CreatedAt.In(s.loc),
		Items:          make([]entity.BillItem, 0, len(order.Items)),
		Subtotal:       centsToFloat(order.Subtotal),
		GSTRate:        order.GSTRate.InexactFloat64(),
		GSTAmount:      centsToFloat(order.GSTAmount),
		DiscountAmount: centsToFloat(order.DiscountAmount),
		TotalAmount:    centsToFloat(order.TotalAmount),
	}

	for _, item := range order.Items {
		name := item.Item.Name
		if name == "" {
			name = "Item"
		}
		bill.Items = append(bill.Items, entity.BillItem{
			Name:      name,
			Qty:       item.Qty,
			UnitPrice: centsToFloat(item.UnitPrice),
			LineTotal: centsToFloat(item.LineTotal),
		})
	}

	return bill, nil
}

// RenderPDF lays out a bill on A4. The item table header repeats on every page.
func (s *BillService) RenderPDF(b *entity.Bill) ([]byte, error) {
	doc := pdfdoc.NewDocument("Bill " + b.BillNo)

	title := b.Header.StoreName
	if title == "" {
		title = "Restaurant Bill"
	}
	doc.Heading(title, 18)
	if b.Header.Address != "" {
		doc.CenteredText(b.Header.Address)
	}
	if b.Header.Phone != "" {
		doc.CenteredText("Phone: " + b.Header.Phone)
	}
	if b.Header.GSTIN != "" {
		doc.CenteredText("GSTIN: " + b.Header.GSTIN)
	}
	doc.Separator()

	doc.KeyValue("Bill No:", b.BillNo).
		KeyValue("Date:", b.CreatedAt.Format("2006-01-02 15:04")).
		Space(2)

	rows := make([][]string, len(b.Items))
	for i, item := range b.Items {
		rows[i] = []string{
			item.Name,
			fmt.Sprintf("%d", item.Qty),
			money(b.Header.Currency, item.UnitPrice),
			money(b.Header.Currency, item.LineTotal),
		}
	}
	doc.Table([]pdfdoc.Column{
		{Header: "Item"},
		{Header: "Qty", Width: 20, Align: pdfdoc.AlignRight},
		{Header: "Price", Width: 35, Align: pdfdoc.AlignRight},
		{Header: "Line Total", Width: 40, Align: pdfdoc.AlignRight},
	}, rows)

	doc.Space(2).
		KeyValue("Subtotal:", money(b.Header.Currency, b.Subtotal)).
		KeyValue(fmt.Sprintf("GST (%s%%):", percent(b.GSTRate)), money(b.Header.Currency, b.GSTAmount))
	if b.DiscountAmount > 0 {
		doc.KeyValue("Discount:", "-"+money(b.Header.Currency, b.DiscountAmount))
	}
	doc.SetBold(true).
		KeyValue("Total:", money(b.Header.Currency, b.TotalAmount)).
		SetBold(false).
		Separator()

	doc.KeyValue("Payment Method:", b.PaymentMethod.String()).
		KeyValue("Order Mode:", b.Mode.String()).
		Space(4).
		CenteredText(billFooter)

	return doc.Bytes()
}

// PrintBill sends the bill of a finalized order to the thermal printer.
// The composed bill is returned even when printing fails.
func (s *BillService) PrintBill(ctx context.Context, orderID uuid.UUID) (*entity.Bill, error) {
	bill, err := s.BuildBill(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, FormatBill(bill, s.width)); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"order_id": orderID, "printer": s.printer.Type()}).Error("printer error")
		return bill, apperror.NewAppError(http.StatusServiceUnavailable, "Failed to print bill: "+err.Error())
	}
	return bill, nil
}

// TestPrint sends a sample bill to the printer
func (s *BillService) TestPrint(ctx context.Context) (*entity.Bill, error) {
	bill := &entity.Bill{
		Header:        s.header,
		BillNo:        "TEST-001",
		Mode:          enum.OrderModeDineIn,
		Status:        enum.OrderStatusFinalized,
		PaymentMethod: enum.PaymentMethodCash,
		CreatedAt:     time.Now().In(s.loc),
		Items: []entity.BillItem{
			{Name: "Test Item 1", Qty: 1, UnitPrice: 10.00, LineTotal: 10.00},
			{Name: "Test Item 2", Qty: 2, UnitPrice: 5.00, LineTotal: 10.00},
		},
		Subtotal:    20.00,
		GSTRate:     0.05,
		GSTAmount:   1.00,
		TotalAmount: 21.00,
	}

	if err := s.printer.Print(ctx, FormatBill(bill, s.width)); err != nil {
		return bill, apperror.NewAppError(http.StatusServiceUnavailable, "Test print failed: "+err.Error())
	}
	return bill, nil
}

// FormatBill converts a bill into ESC/POS bytes for a printer of the given width
func FormatBill(b *entity.Bill, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Wrapped(b.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if b.Header.Address != "" {
		doc.Wrapped(b.Header.Address)
	}
	if b.Header.Phone != "" {
		doc.Text(b.Header.Phone)
	}
	if b.Header.GSTIN != "" {
		doc.TextF("GSTIN: %s", b.Header.GSTIN)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Bill:", b.BillNo).
		KeyValue("Date:", b.CreatedAt.Format("2006-01-02 15:04")).
		KeyValue("Mode:", b.Mode.String()).
		Separator('-')

	for _, item := range b.Items {
		doc.ItemLine(item.Qty, item.Name, fmt.Sprintf("%.2f", item.LineTotal))
		if item.Qty > 1 {
			doc.TextF("  @ %.2f each", item.UnitPrice)
		}
	}

	doc.Separator('-').
		KeyValue("Subtotal:", fmt.Sprintf("%.2f", b.Subtotal)).
		KeyValue(fmt.Sprintf("GST %s%%:", percent(b.GSTRate)), fmt.Sprintf("%.2f", b.GSTAmount))
	if b.DiscountAmount > 0 {
		doc.KeyValue("Discount:", fmt.Sprintf("-%.2f", b.DiscountAmount))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", money(b.Header.Currency, b.TotalAmount)).
		SetBold(false).
		KeyValue("Paid by:", b.PaymentMethod.String()).
		Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Wrapped(billFooter).
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

func money(currency string, amount float64) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%s %.2f", currency, amount)
}

// percent renders a rate such as 0.05 as "5" and 0.125 as "12.5"
func percent(rate float64) string {
	s := fmt.Sprintf("%.2f", rate*100)
	s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	if s == "" {
		return "0"
	}
	return s
}
