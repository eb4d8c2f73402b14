package numeric

import (
	"math"

	"github.com/shopspring/decimal"
)

const maxNudgeDecimals = 8

// PriceStep returns the increment used by nudge controls for a value of the
// given magnitude. Larger values move in coarser steps.
func PriceStep(v float64) float64 {
	switch {
	case v >= 1000:
		return 10
	case v >= 100:
		return 1
	case v >= 1:
		return 0.1
	case v >= 0.01:
		return 0.001
	case v >= 0.0001:
		return 0.00001
	default:
		return 0.000001
	}
}

// Nudge moves v by one step up or down. A step of 0 selects PriceStep(v).
// The result keeps as many decimals as the more precise of v and step, capped
// at eight, and never goes below min.
func Nudge(v, step float64, up bool, min float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	if step <= 0 || math.IsNaN(step) {
		step = PriceStep(v)
	}

	cur := decimal.NewFromFloat(v)
	delta := decimal.NewFromFloat(step)
	places := max(decimals(cur), decimals(delta))
	if places > maxNudgeDecimals {
		places = maxNudgeDecimals
	}

	next := cur.Sub(delta)
	if up {
		next = cur.Add(delta)
	}
	out := next.Round(places).InexactFloat64()
	if out < min {
		out = min
	}
	return out
}

func decimals(d decimal.Decimal) int32 {
	if exp := d.Exponent(); exp < 0 {
		return -exp
	}
	return 0
}
