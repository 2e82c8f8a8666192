package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-billing/internal/domain/enum"
)

// BillHeader holds the restaurant header printed at the top of a bill.
type BillHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	GSTIN     string `json:"gstin,omitempty"`
	Currency  string `json:"currency,omitempty"`
}

// BillItem represents a single line item on a bill.
type BillItem struct {
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// Bill is a value object representing a printable bill.
// It is composed from a finalized order at render time and is never persisted.
type Bill struct {
	Header         BillHeader         `json:"header"`
	OrderID        uuid.UUID          `json:"order_id"`
	BillNo         string             `json:"bill_no"`
	Mode           enum.OrderMode     `json:"mode"`
	Status         enum.OrderStatus   `json:"status"`
	PaymentMethod  enum.PaymentMethod `json:"payment_method"`
	CreatedAt      time.Time          `json:"created_at"`
	Items          []BillItem         `json:"items"`
	Subtotal       float64            `json:"subtotal"`
	GSTRate        float64            `json:"gst_rate"`
	GSTAmount      float64            `json:"gst_amount"`
	DiscountAmount float64            `json:"discount_amount"`
	TotalAmount    float64            `json:"total_amount"`
}
