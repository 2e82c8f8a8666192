package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// PaymentMethod records how a finalized order was settled.
// PaymentMethodPending is the placeholder held until finalization.
type PaymentMethod string

const (
	PaymentMethodPending PaymentMethod = "PENDING"
	PaymentMethodCash    PaymentMethod = "CASH"
	PaymentMethodCard    PaymentMethod = "CARD"
	PaymentMethodUPI     PaymentMethod = "UPI"
)

func (p PaymentMethod) String() string {
	return string(p)
}

// IsSettlement reports whether p is an accepted method for finalizing an order
func (p PaymentMethod) IsSettlement() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI:
		return true
	}
	return false
}

// ParsePaymentMethod accepts CASH, CARD or UPI in any case
func ParsePaymentMethod(str string) (PaymentMethod, bool) {
	p := PaymentMethod(strings.ToUpper(strings.TrimSpace(str)))
	return p, p.IsSettlement()
}

func (p PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*p = PaymentMethod(strings.ToUpper(str))
	return nil
}

func (p PaymentMethod) Value() (driver.Value, error) {
	return string(p), nil
}

func (p *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentMethodPending
		return nil
	}
	switch v := value.(type) {
	case string:
		*p = PaymentMethod(v)
	case []byte:
		*p = PaymentMethod(string(v))
	}
	return nil
}
