// Package numeric holds the rounding and step-size rules shared by the
// calculators.
package numeric

import "math"

// Finite returns v, or 0 when v is NaN or infinite.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Present reports whether v counts as a filled-in input: not zero and not NaN.
func Present(v float64) bool {
	return v != 0 && !math.IsNaN(v)
}

// DisplayPrecision picks the number of decimal places used to show a price.
func DisplayPrecision(v float64) int {
	switch {
	case v > 10:
		return 2
	case v > 0.1:
		return 4
	default:
		return 6
	}
}

// RoundTo rounds v half away from zero to dp decimal places.
func RoundTo(v float64, dp int) float64 {
	if dp < 0 {
		dp = 0
	}
	p := math.Pow(10, float64(dp))
	return math.Round(v*p) / p
}

// RoundPrice rounds a price using DisplayPrecision of ref.
func RoundPrice(v, ref float64) float64 {
	return RoundTo(v, DisplayPrecision(ref))
}
