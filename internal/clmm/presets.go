package clmm

import "defikit/internal/numeric"

// DefaultRangePercent is the half-width used when a range is first derived
// from a fresh price.
const DefaultRangePercent = 30

var (
	// RangePresets are the ± percentages offered as quick range choices.
	RangePresets = []float64{0.01, 0.05, 0.1, 1, 10, 20}
	// ExitPresets are the percentage moves offered as quick exit prices.
	ExitPresets = []float64{-25, -10, -1, -0.1, 0.1, 1, 10, 25}
)

// RangeAround returns price ± pct percent, rounded for display.
func RangeAround(price, pct float64) PriceRange {
	dev := price * pct / 100
	return PriceRange{
		Lower: numeric.RoundPrice(price-dev, price),
		Upper: numeric.RoundPrice(price+dev, price),
	}
}

// ExitPriceAt returns price moved by changePct percent, rounded for display.
func ExitPriceAt(price, changePct float64) float64 {
	return numeric.RoundPrice(price*(1+changePct/100), price)
}

// PriceChangePercent is the move from price to exit, in percent.
func PriceChangePercent(price, exit float64) float64 {
	if price <= 0 {
		return 0
	}
	return (exit - price) / price * 100
}
