// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors in prices and totals.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: use NewMoneyFromString for exact values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred constructor for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroMoney returns zero Money value.
func ZeroMoney() Money {
	return decimal.Zero
}

// ReconcileEpsilon is the tolerance used when cross-checking report totals
// computed over two independent aggregation paths. Totals that disagree by
// more than this are treated as a reconciliation failure, not rounding noise.
var ReconcileEpsilon = decimal.NewFromFloat(0.01)

// WithinEpsilon reports whether |a-b| <= ReconcileEpsilon.
func WithinEpsilon(a, b Money) bool {
	return a.Sub(b).Abs().LessThanOrEqual(ReconcileEpsilon)
}
