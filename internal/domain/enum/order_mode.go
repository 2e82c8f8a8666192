package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// OrderMode represents how the order is served
type OrderMode string

const (
	OrderModeDineIn   OrderMode = "DINE_IN"
	OrderModeTakeaway OrderMode = "TAKEAWAY"
)

func (m OrderMode) String() string {
	return string(m)
}

// IsValid reports whether m is a supported mode
func (m OrderMode) IsValid() bool {
	return m == OrderModeDineIn || m == OrderModeTakeaway
}

// ParseOrderMode normalizes user input such as "dine_in" or "Takeaway"
func ParseOrderMode(str string) (OrderMode, bool) {
	m := OrderMode(strings.ToUpper(strings.TrimSpace(str)))
	return m, m.IsValid()
}

func (m OrderMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *OrderMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*m = OrderMode(strings.ToUpper(str))
	return nil
}

func (m OrderMode) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *OrderMode) Scan(value interface{}) error {
	if value == nil {
		*m = OrderModeDineIn
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = OrderMode(v)
	case []byte:
		*m = OrderMode(string(v))
	}
	return nil
}
