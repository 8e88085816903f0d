package utils

import (
	"fmt"

	"slothouse/domain/entities"

	"github.com/shopspring/decimal"
)

// Settlement arithmetic runs entirely on int64 minor units (cents).
// Decimal dollar values only exist at the API boundary; these helpers
// convert between the two without ever rounding.

var centsPerDollar = decimal.NewFromInt(100)

// DollarsToMinor converts a decimal dollar amount to minor units.
// Amounts with sub-cent precision or a non-positive value are rejected
// with entities.ErrInvalidAmount.
func DollarsToMinor(dollars decimal.Decimal) (int64, error) {
	cents := dollars.Mul(centsPerDollar)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: sub-cent precision", entities.ErrInvalidAmount)
	}
	if !cents.IsPositive() {
		return 0, entities.ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// ParseDollars parses a decimal dollar string ("10.00") to minor units.
func ParseDollars(s string) (int64, error) {
	dollars, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a currency value", entities.ErrInvalidAmount, s)
	}
	return DollarsToMinor(dollars)
}

// MinorToDollars converts minor units to a decimal dollar amount.
func MinorToDollars(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(centsPerDollar)
}

// FormatDollars renders minor units as a two-decimal dollar string.
func FormatDollars(minor int64) string {
	return MinorToDollars(minor).StringFixed(2)
}
