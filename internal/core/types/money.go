// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value (Iraqi dinar) with full precision.
// Uses decimal.Decimal so that ledger identities such as
// remaining = totalCost - totalPaid hold exactly.
type Money = decimal.Decimal

// NewMoneyFromInt creates a Money value from whole dinars.
func NewMoneyFromInt(v int64) Money {
	return decimal.NewFromInt(v)
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

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Percent returns part/whole*100 rounded to the given number of decimal places.
// A zero (or negative) whole yields zero instead of a division error.
func Percent(part, whole decimal.Decimal, places int32) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(decimal.NewFromInt(100)).Div(whole).Round(places)
}
