// Package domain holds the wire-level and value types shared by the
// orderbook and matching packages: decimals, orders, trades, and the
// view structs exposed to external collaborators.
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Decimal is the exact, float-free number type used for every
// price and quantity in the engine. It is backed by shopspring/decimal,
// an arbitrary-precision decimal (big.Int coefficient + int32 exponent),
// so arithmetic never routes through binary floating point.
type Decimal = decimal.Decimal

// Zero is the additive identity, handy as a loop accumulator seed.
var Zero = decimal.Zero

// ParseDecimal parses a decimal from its string wire representation.
// This is the only place prices and quantities enter the engine; once
// parsed they never round-trip through float64 except at the reporting
// boundary (Decimal.String() / a future float conversion for display).
func ParseDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return d, nil
}

// MustParseDecimal is ParseDecimal for callers (tests, fixtures) that
// already know the string is well-formed.
func MustParseDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Min returns the smaller of a and b, used by the matching loop to cap
// a trade's quantity at whichever side has less left.
func Min(a, b Decimal) Decimal {
	return decimal.Min(a, b)
}
