package money

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// FromInt creates decimal from int (common for XOF amounts)
func FromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// FromFloat creates decimal from float with rounding
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}

// IsPercentage returns true if decimal is within [0, 100]
func IsPercentage(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero) && d.LessThanOrEqual(decimal.NewFromInt(100))
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// ApplyPercentage computes: amount * (percentage/100)
// Rounds to 0 decimals (XOF has no cents)
func ApplyPercentage(amount, percentage decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return amount.Mul(percentage).Div(hundred).Round(0)
}

// RoundXOF rounds to whole number (XOF has no decimals)
func RoundXOF(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}
