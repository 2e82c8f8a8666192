package request

import "github.com/shopspring/decimal"

// BeginOrderRequest opens a new order
type BeginOrderRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// AddItemRequest appends a menu item to an order.
// Quantity bounds are enforced by the order service.
type AddItemRequest struct {
	ItemID string `json:"item_id" binding:"required,uuid"`
	Qty    int    `json:"qty"`
}

// ComputeTotalsRequest carries the discount and an optional GST rate override
type ComputeTotalsRequest struct {
	DiscountType  string           `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	GSTRate       *decimal.Decimal `json:"gst_rate"`
}

// FinalizeOrderRequest closes an order
type FinalizeOrderRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// OrderFilterRequest represents order list query parameters
type OrderFilterRequest struct {
	Status    string `form:"status"`
	Mode      string `form:"mode"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
