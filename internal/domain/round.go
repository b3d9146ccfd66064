package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// RoundFloat rounds v to the given number of decimal places, half to even.
func RoundFloat(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.RoundToEven(v)
	}

	factor := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*factor) / factor
}

// RoundUnits rounds a unit quantity to the nearest integer, half to even.
func RoundUnits(v float64) int {
	return int(math.RoundToEven(v))
}

// Money converts f to a currency amount rounded to cents.
func Money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).RoundBank(2)
}

// Clamp bounds x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
