// Package fixedpoint converts user-facing decimal prices and quantities into
// the 1e8-scaled integer domain the matching core operates on, and back.
//
// Values entering the book must already be scaled up, e.g.
// 0.00000001 * 10^8 = 1. Conversion happens at the boundary so that no
// fractional inaccuracy exists inside the book (except Order.AvgFillPrice,
// which is a true quotient).
package fixedpoint

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places folded into the integer domain.
const Places = 8

var scale = decimal.New(1, Places)

// FromString parses a decimal string such as "2.0075" into a scaled int64.
// It fails if the value carries more than Places fractional digits, since
// silently truncating would move rounding error into the book.
func FromString(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}

	scaled := d.Mul(scale)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("value %s exceeds %d decimal places", s, Places)
	}

	return scaled.IntPart(), nil
}

// FromFloat converts a float into a scaled int64, rounding to Places.
func FromFloat(f float64) int64 {
	return decimal.NewFromFloat(f).Mul(scale).Round(0).IntPart()
}

// ToString renders a scaled int64 back into its decimal representation.
func ToString(n int64) string {
	return decimal.New(n, -Places).String()
}

// ToFloat converts a scaled int64 back into a float. The result is for
// display only and must never be fed back into the book.
func ToFloat(n int64) float64 {
	f, _ := decimal.New(n, -Places).Float64()
	return f
}
