package types

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money normalizes the stringly-typed monetary fields coming off the wire.
// Upstream sources emit cost/value as a JSON number, a quoted numeric string,
// or null; anything unparseable becomes an invalid Money rather than an
// error. Invalid amounts are excluded from range filters and contribute zero
// to totals.
type Money struct {
	amount decimal.Decimal
	valid  bool
}

func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount, valid: true}
}

// MoneyFromString parses a decimal string, returning an invalid Money on
// failure.
func MoneyFromString(raw string) Money {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Money{}
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Money{}
	}
	return Money{amount: amount, valid: true}
}

// Valid reports whether the amount parsed successfully.
func (m Money) Valid() bool {
	return m.valid
}

// Decimal returns the parsed amount, zero when invalid.
func (m Money) Decimal() decimal.Decimal {
	if !m.valid {
		return decimal.Zero
	}
	return m.amount
}

func (m Money) String() string {
	if !m.valid {
		return ""
	}
	return m.amount.String()
}

func (m Money) MarshalJSON() ([]byte, error) {
	if !m.valid {
		return []byte("null"), nil
	}
	return []byte(m.amount.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if raw == "null" {
		*m = Money{}
		return nil
	}
	raw = strings.Trim(raw, `"`)
	*m = MoneyFromString(raw)
	return nil
}

// Value implements driver.Valuer, storing invalid amounts as NULL.
func (m Money) Value() (driver.Value, error) {
	if !m.valid {
		return nil, nil
	}
	return m.amount.String(), nil
}

// Scan implements sql.Scanner.
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = Money{}
		return nil
	case []byte:
		*m = MoneyFromString(string(v))
		return nil
	case string:
		*m = MoneyFromString(v)
		return nil
	case float64:
		*m = NewMoney(decimal.NewFromFloat(v))
		return nil
	case int64:
		*m = NewMoney(decimal.NewFromInt(v))
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Money", src)
	}
}
