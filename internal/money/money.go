// Package money implements fixed-precision currency arithmetic and display formatting.
//
// Amounts are shopspring decimals and stay exact through multiplication and addition.
// Rounding happens once, when a value is formatted or compared at minor-unit precision.
package money

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits of the currency's minor unit.
const Places int32 = 2

var (
	// MinorUnit is one paisa/cent expressed in major units.
	MinorUnit = decimal.New(1, -Places)
	// Hundred is used when a percentage needs to be compared against a fraction.
	Hundred = decimal.NewFromInt(100)
)

// Multiply returns a×b without rounding.
func Multiply(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b)
}

// PercentageOf returns base×ratePercent/100. The division by 100 is a decimal shift,
// so the result is exact.
func PercentageOf(base, ratePercent decimal.Decimal) decimal.Decimal {
	return base.Mul(ratePercent).Shift(-2)
}

// Sum adds values exactly. An empty input sums to zero.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	return lo.Reduce(values, func(acc decimal.Decimal, v decimal.Decimal, _ int) decimal.Decimal {
		return acc.Add(v)
	}, decimal.Zero)
}

// Round rounds half away from zero to minor-unit precision.
func Round(v decimal.Decimal) decimal.Decimal {
	return v.Round(Places)
}

// WithinTolerance reports whether |a-b| <= tolerance.
func WithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance.Abs())
}

// IsNegative reports whether v < 0.
func IsNegative(v decimal.Decimal) bool {
	return v.Sign() < 0
}
