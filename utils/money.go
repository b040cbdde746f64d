package utils

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ToMinorUnits renders an amount in cents with no separators, truncating
// fractions of a cent.
func ToMinorUnits(amount decimal.Decimal) string {
	return amount.Mul(hundred).Truncate(0).String()
}

// FromMinorUnits is the inverse of ToMinorUnits.
func FromMinorUnits(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Div(hundred), nil
}

func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// ParseAmount returns nil for empty or malformed values.
func ParseAmount(value string) *decimal.Decimal {
	if value == "" {
		return nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil
	}
	return &d
}
