package convert

import (
	"math"
)

func TwoDecimals(number float64) float64 {
	return RoundFloat64(number, 2)
}

// RoundFloat64 rounds exact halves to the nearest even digit, so 0.125 becomes 0.12.
func RoundFloat64(number float64, decimals int) float64 {
	return math.RoundToEven(number*math.Pow10(decimals)) / math.Pow10(decimals)
}

// Ratio returns a/b, false when b is zero.
func Ratio(a, b float64) (float64, bool) {
	if b == 0 {
		return 0, false
	}
	return a / b, true
}
