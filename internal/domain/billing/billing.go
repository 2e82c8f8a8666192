// Package billing turns a list of priced line items, a discount and a GST rate
// into a totals breakdown. Every function here is pure; amounts are rounded to
// two decimal places, half away from zero.
package billing

import (
	"github.com/sangkips/restaurant-billing/internal/domain/enum"
	"github.com/sangkips/restaurant-billing/pkg/apperror"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places every amount is rounded to
const MoneyPlaces = 2

var (
	hundred    = decimal.NewFromInt(100)
	maxGSTRate = decimal.NewFromInt(1)
)

// LineItem is a single priced row of an order
type LineItem struct {
	UnitPrice decimal.Decimal
	Qty       int
}

// Discount is the unified discount model: none, a flat amount or a percentage of the subtotal
type Discount struct {
	Type  enum.DiscountType
	Value decimal.Decimal
}

// NoDiscount is the zero discount
var NoDiscount = Discount{Type: enum.DiscountTypeNone}

// Breakdown is the result of a bill calculation
type Breakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	GST      decimal.Decimal `json:"gst_amount"`
	Discount decimal.Decimal `json:"discount_amount"`
	Total    decimal.Decimal `json:"total_amount"`
}

// Round rounds an amount to MoneyPlaces
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// FromCents converts minor units to a decimal amount
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -MoneyPlaces)
}

// ToCents converts a decimal amount to minor units after rounding
func ToCents(d decimal.Decimal) int64 {
	return Round(d).Shift(MoneyPlaces).IntPart()
}

// LineTotal returns unit price times quantity in minor units
func LineTotal(unitPriceCents int64, qty int) int64 {
	return unitPriceCents * int64(qty)
}

// CalcSubtotal sums price times quantity over items
func CalcSubtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	return Round(sum)
}

// CalcGST applies a flat GST rate to the subtotal
func CalcGST(subtotal, rate decimal.Decimal) decimal.Decimal {
	return Round(subtotal.Mul(rate))
}

// ApplyDiscount returns the discount amount for the given subtotal.
// Flat discounts are capped at the subtotal so totals never go negative.
func ApplyDiscount(subtotal decimal.Decimal, d Discount) decimal.Decimal {
	switch d.Type {
	case enum.DiscountTypeFlat:
		return Round(decimal.Min(d.Value, subtotal))
	case enum.DiscountTypePercentage:
		return Round(d.Value.Div(hundred).Mul(subtotal))
	default:
		return decimal.Zero
	}
}

// Validate rejects discounts and GST rates outside the supported ranges
func Validate(d Discount, gstRate decimal.Decimal) error {
	var fieldErrors []apperror.FieldError

	switch d.Type {
	case enum.DiscountTypeNone:
	case enum.DiscountTypeFlat:
		if d.Value.IsNegative() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "discount_value", Message: "must not be negative"})
		}
	case enum.DiscountTypePercentage:
		if d.Value.IsNegative() || d.Value.GreaterThan(hundred) {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "discount_value", Message: "percentage must be between 0 and 100"})
		}
	default:
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "discount_type", Message: "must be NONE, FLAT or PERCENTAGE"})
	}

	if gstRate.IsNegative() || gstRate.GreaterThan(maxGSTRate) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "gst_rate", Message: "must be between 0 and 1"})
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// CalculateBill computes subtotal, GST, discount and total for items
func CalculateBill(items []LineItem, gstRate decimal.Decimal, d Discount) (*Breakdown, error) {
	if err := Validate(d, gstRate); err != nil {
		return nil, err
	}

	subtotal := CalcSubtotal(items)
	gst := CalcGST(subtotal, gstRate)
	discount := ApplyDiscount(subtotal, d)

	return &Breakdown{
		Subtotal: subtotal,
		GST:      gst,
		Discount: discount,
		Total:    Round(subtotal.Add(gst).Sub(discount)),
	}, nil
}
