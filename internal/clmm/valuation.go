package clmm

import (
	"math"

	"defikit/internal/numeric"
)

// ComputeBoundaryValuation values liquidity l at both edges of rng. At Lower the
// position is entirely token A, at Upper entirely token B. Gains are measured
// against investment.
func ComputeBoundaryValuation(l float64, rng PriceRange, priceB, investment float64) BoundaryValuation {
	sqrtPa := math.Sqrt(rng.Lower)
	sqrtPb := math.Sqrt(rng.Upper)

	amountAAtMin := l * (1/sqrtPa - 1/sqrtPb)
	valueAtMin := numeric.Finite(amountAAtMin * rng.Lower * priceB)
	amountBAtMax := l * (sqrtPb - sqrtPa)
	valueAtMax := numeric.Finite(amountBAtMax * priceB)

	return BoundaryValuation{
		ValueAtMin: valueAtMin,
		GainAtMin:  numeric.Finite(valueAtMin - investment),
		ValueAtMax: valueAtMax,
		GainAtMax:  numeric.Finite(valueAtMax - investment),
	}
}

// ComputeFeeForecast accrues feeAPRPercent linearly over durationDays.
func ComputeFeeForecast(investment, feeAPRPercent, durationDays float64) FeeForecast {
	daily := numeric.Finite(investment * (feeAPRPercent / 100) / 365)
	return FeeForecast{
		DailyFee: daily,
		TotalFee: numeric.Finite(daily * durationDays),
	}
}

// ComputeExitComparison revalues the position at exitPrice and compares it with
// holding amountA and amountB. fees is the forecast for the holding period.
func ComputeExitComparison(l float64, rng PriceRange, priceB, amountA, amountB, exitPrice float64, fees FeeForecast) ExitComparison {
	hodl := numeric.Finite(amountA*exitPrice*priceB + amountB*priceB)
	raw := numeric.Finite(LPValueAt(l, rng, exitPrice, priceB))
	withFees := numeric.Finite(raw + fees.TotalFee)
	net := numeric.Finite(withFees - hodl)

	c := ExitComparison{
		ExitPrice:            exitPrice,
		HodlValue:            hodl,
		LPValueRaw:           raw,
		LPValueWithFees:      withFees,
		NetResult:            net,
		ImpermanentLossValue: numeric.Finite(math.Max(0, hodl-raw)),
	}
	if hodl > 0 {
		c.NetPercent = numeric.Finite(net / hodl * 100)
	}
	if fees.DailyFee > 0 && c.ImpermanentLossValue > 0 {
		c.BreakEvenDays = numeric.Finite(c.ImpermanentLossValue / fees.DailyFee)
	}
	return c
}
