package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// OrderStatus represents the billing lifecycle state of an order
type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 0
	OrderStatusTotaled   OrderStatus = 1
	OrderStatusFinalized OrderStatus = 2
)

func (s OrderStatus) String() string {
	names := [...]string{"PENDING", "TOTALED", "FINALIZED"}
	if int(s) < 0 || int(s) >= len(names) {
		return "PENDING"
	}
	return names[s]
}

// IsValid reports whether s is a known status
func (s OrderStatus) IsValid() bool {
	return s >= OrderStatusPending && s <= OrderStatusFinalized
}

// CanAddItems reports whether line items may still be appended
func (s OrderStatus) CanAddItems() bool {
	return s != OrderStatusFinalized
}

// CanComputeTotals reports whether totals may be (re)computed
func (s OrderStatus) CanComputeTotals() bool {
	return s != OrderStatusFinalized
}

// CanFinalize reports whether the order holds fresh totals and may be closed
func (s OrderStatus) CanFinalize() bool {
	return s == OrderStatusTotaled
}

// AfterItemAdded returns the status an order moves to once an item is appended.
// Computed totals become stale, so a TOTALED order drops back to PENDING.
func (s OrderStatus) AfterItemAdded() OrderStatus {
	if s == OrderStatusTotaled {
		return OrderStatusPending
	}
	return s
}

// ParseOrderStatus converts a case-insensitive name into an OrderStatus
func ParseOrderStatus(str string) (OrderStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(str)) {
	case "PENDING":
		return OrderStatusPending, true
	case "TOTALED":
		return OrderStatusTotaled, true
	case "FINALIZED":
		return OrderStatusFinalized, true
	}
	return OrderStatusPending, false
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderStatus(i)
		return nil
	}
	if parsed, ok := ParseOrderStatus(str); ok {
		*s = parsed
	}
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderStatus(v)
	case int:
		*s = OrderStatus(v)
	}
	return nil
}
