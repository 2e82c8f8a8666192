package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// DiscountType selects how a discount value is interpreted
type DiscountType int

const (
	DiscountTypeNone       DiscountType = 0
	DiscountTypeFlat       DiscountType = 1
	DiscountTypePercentage DiscountType = 2
)

func (t DiscountType) String() string {
	names := [...]string{"NONE", "FLAT", "PERCENTAGE"}
	if int(t) < 0 || int(t) >= len(names) {
		return "NONE"
	}
	return names[t]
}

// ParseDiscountType accepts the canonical names plus the "Flat"/"Percentage" labels used by the till UI
func ParseDiscountType(str string) (DiscountType, bool) {
	switch strings.ToUpper(strings.TrimSpace(str)) {
	case "", "NONE":
		return DiscountTypeNone, true
	case "FLAT":
		return DiscountTypeFlat, true
	case "PERCENTAGE", "PERCENT":
		return DiscountTypePercentage, true
	}
	return DiscountTypeNone, false
}

func (t DiscountType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *DiscountType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = DiscountType(i)
		return nil
	}
	parsed, ok := ParseDiscountType(str)
	if !ok {
		return fmt.Errorf("unknown discount type %q", str)
	}
	*t = parsed
	return nil
}

func (t DiscountType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *DiscountType) Scan(value interface{}) error {
	if value == nil {
		*t = DiscountTypeNone
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = DiscountType(v)
	case int:
		*t = DiscountType(v)
	}
	return nil
}
