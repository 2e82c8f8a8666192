package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-billing/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order represents a customer bill in progress or closed
type Order struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	Mode           enum.OrderMode     `gorm:"size:20;not null" json:"mode"`
	Status         enum.OrderStatus   `gorm:"default:0;index" json:"status"`
	Subtotal       int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	GSTAmount      int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	DiscountAmount int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	TotalAmount    int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	DiscountType   enum.DiscountType  `gorm:"default:0" json:"discount_type"`
	DiscountValue  decimal.Decimal    `gorm:"type:numeric(12,4);default:0" json:"-"`
	GSTRate        decimal.Decimal    `gorm:"type:numeric(6,4);default:0" json:"-"`
	PaymentMethod  enum.PaymentMethod `gorm:"size:20;not null;default:'PENDING'" json:"payment_method"`
	CreatedAt      time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	TotaledAt      *time.Time         `json:"totaled_at,omitempty"`
	FinalizedAt    *time.Time         `json:"finalized_at,omitempty"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		Subtotal       float64 `json:"subtotal"`
		GSTAmount      float64 `json:"gst_amount"`
		DiscountAmount float64 `json:"discount_amount"`
		TotalAmount    float64 `json:"total_amount"`
		DiscountValue  float64 `json:"discount_value"`
		GSTRate        float64 `json:"gst_rate"`
	}{
		Alias:          Alias(o),
		Subtotal:       float64(o.Subtotal) / 100,
		GSTAmount:      float64(o.GSTAmount) / 100,
		DiscountAmount: float64(o.DiscountAmount) / 100,
		TotalAmount:    float64(o.TotalAmount) / 100,
		DiscountValue:  o.DiscountValue.InexactFloat64(),
		GSTRate:        o.GSTRate.InexactFloat64(),
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ItemsSubtotal sums the stored line totals of the loaded items in cents
func (o *Order) ItemsSubtotal() int64 {
	var sum int64
	for _, item := range o.Items {
		sum += item.LineTotal
	}
	return sum
}

// OrderItem represents a line item in an order. Unit price is a snapshot of the
// menu price at the time the item was added.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	Qty       int       `gorm:"not null" json:"qty"`
	UnitPrice int64     `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	LineTotal int64     `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Order Order    `gorm:"foreignKey:OrderID" json:"-"`
	Item  MenuItem `gorm:"foreignKey:ItemID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (oi OrderItem) MarshalJSON() ([]byte, error) {
	type Alias OrderItem
	out := &struct {
		Alias
		Name      string  `json:"name,omitempty"`
		UnitPrice float64 `json:"unit_price"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(oi),
		Name:      oi.Item.Name,
		UnitPrice: float64(oi.UnitPrice) / 100,
		LineTotal: float64(oi.LineTotal) / 100,
	}
	return json.Marshal(out)
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
