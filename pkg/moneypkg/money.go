// Package moneypkg provides a fixed precision currency amount.
//
// Money is stored as a decimal scaled to cents. All arithmetic is exact and
// the only rounding step is MulRate, which rounds half away from zero to the cent.
package moneypkg

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept by Money.
const Places = 2

var (
	// ErrInvalidMoney indicates that the value can not be parsed as money.
	ErrInvalidMoney = errors.New("invalid money amount")
	// ErrTooPrecise indicates that the value has more than two fractional digits.
	ErrTooPrecise = errors.New("money amount has more than 2 decimal places")
)

// Money is an exact currency amount with cent precision.
type Money struct {
	amount decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// New parses s into Money.
func New(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, ErrInvalidMoney
	}

	return FromDecimal(d)
}

// MustNew is like New but panics on error. Intended for constants and tests.
func MustNew(s string) Money {
	m, err := New(s)
	if err != nil {
		panic(fmt.Sprintf("moneypkg.MustNew(%q): %v", s, err))
	}

	return m
}

// NewFromInt returns the whole amount n.
func NewFromInt(n int64) Money {
	return Money{amount: decimal.NewFromInt(n)}
}

// FromDecimal converts d into Money, rejecting values finer than a cent.
func FromDecimal(d decimal.Decimal) (Money, error) {
	if !d.Equal(d.Truncate(Places)) {
		return Zero, ErrTooPrecise
	}

	return Money{amount: d}, nil
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.amount }

// Add returns m + o.
func (m Money) Add(o Money) Money { return Money{amount: m.amount.Add(o.amount)} }

// Sub returns m - o.
func (m Money) Sub(o Money) Money { return Money{amount: m.amount.Sub(o.amount)} }

// Neg returns -m.
func (m Money) Neg() Money { return Money{amount: m.amount.Neg()} }

// Cmp compares m and o and returns -1, 0 or +1.
func (m Money) Cmp(o Money) int { return m.amount.Cmp(o.amount) }

// Equal reports whether m and o represent the same amount.
func (m Money) Equal(o Money) bool { return m.amount.Equal(o.amount) }

// LessThan reports whether m < o.
func (m Money) LessThan(o Money) bool { return m.amount.LessThan(o.amount) }

// GreaterThan reports whether m > o.
func (m Money) GreaterThan(o Money) bool { return m.amount.GreaterThan(o.amount) }

// IsZero reports whether m == 0.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// MulRate returns m * rate / divisor rounded half away from zero to the cent.
//
// The division happens before rounding so fractional cents are never carried
// into a later operation.
func (m Money) MulRate(rate decimal.Decimal, divisor int64) Money {
	return Money{amount: m.amount.Mul(rate).DivRound(decimal.NewFromInt(divisor), Places)}
}

// String formats m with exactly two decimals.
func (m Money) String() string { return m.amount.StringFixed(Places) }

// MarshalJSON encodes m as a JSON string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes m from a JSON string or number.
func (m *Money) UnmarshalJSON(b []byte) error {
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return ErrInvalidMoney
		}
	} else {
		s = string(b)
	}

	parsed, err := New(s)
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}

// Scan implements the sql.Scanner interface for NUMERIC columns.
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}

	m.amount = d

	return nil
}

// Value implements the driver.Valuer interface.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}
