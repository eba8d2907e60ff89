// Package money holds the fixed-point helpers used on the balance path.
// Every amount is a shopspring decimal with at most two fractional digits.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const Scale = 2

var ErrInvalidAmount = errors.New("invalid_amount")

// Amount renders a decimal in JSON as a string at two digits of scale, so
// 100 goes out as "100.00".
type Amount decimal.Decimal

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + decimal.Decimal(a).StringFixed(Scale) + `"`), nil
}

// Parse reads a decimal string such as "12.50" and rejects anything that
// would not round-trip at two digits of scale.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !HasScale(d) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// HasScale reports whether d carries no more than two significant
// fractional digits ("1.50" and "1.5000" pass, "1.005" does not).
func HasScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(Scale))
}

// Positive validates a stake or transfer amount: strictly greater than zero
// and representable at scale 2.
func Positive(d decimal.Decimal) error {
	if !d.IsPositive() || !HasScale(d) {
		return ErrInvalidAmount
	}
	return nil
}

func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

// Must is for constants and tests.
func Must(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic("money: invalid literal " + s)
	}
	return d
}
