package clmm

import (
	"fmt"
	"math"

	"defikit/internal/numeric"
)

// ComputeLiquidityAllocation inverts the concentrated-liquidity curve: it finds
// the liquidity L that investment buys in rng at currentPrice, and the token
// amounts that back it. priceA and priceB are the quote-currency prices of the
// two tokens and must be positive.
//
// Below the range the position is all token A, above it all token B, and in
// between it holds both. A non-finite L is clamped to 0.
func ComputeLiquidityAllocation(investment float64, rng PriceRange, currentPrice, priceA, priceB float64) LiquidityResult {
	mustPositivePrices(priceA, priceB)

	sqrtP := math.Sqrt(currentPrice)
	sqrtPa := math.Sqrt(rng.Lower)
	sqrtPb := math.Sqrt(rng.Upper)

	var res LiquidityResult
	switch {
	case currentPrice <= rng.Lower:
		res.AmountA = investment / priceA
		res.Liquidity = res.AmountA * priceA / ((1/sqrtPa - 1/sqrtPb) * priceA)
	case currentPrice >= rng.Upper:
		res.AmountB = investment / priceB
		res.Liquidity = res.AmountB * priceB / ((sqrtPb - sqrtPa) * priceB)
	default:
		l := investment / ((sqrtP-sqrtPa)*priceB + (1/sqrtP-1/sqrtPb)*priceA)
		res.Liquidity = l
		res.AmountA = l * (1/sqrtP - 1/sqrtPb)
		res.AmountB = l * (sqrtP - sqrtPa)
	}

	if math.IsNaN(res.Liquidity) || math.IsInf(res.Liquidity, 0) {
		res.Liquidity = 0
	}
	res.AmountA = numeric.Finite(res.AmountA)
	res.AmountB = numeric.Finite(res.AmountB)
	return res
}

// LPValueAt values liquidity l held in rng at price, in quote currency.
func LPValueAt(l float64, rng PriceRange, price, priceB float64) float64 {
	sqrtPa := math.Sqrt(rng.Lower)
	sqrtPb := math.Sqrt(rng.Upper)

	switch {
	case price <= rng.Lower:
		return l * (1/sqrtPa - 1/sqrtPb) * price * priceB
	case price >= rng.Upper:
		return l * (sqrtPb - sqrtPa) * priceB
	default:
		sqrtX := math.Sqrt(price)
		amountA := l * (1/sqrtX - 1/sqrtPb)
		amountB := l * (sqrtX - sqrtPa)
		return amountA*price*priceB + amountB*priceB
	}
}

func mustPositivePrices(priceA, priceB float64) {
	if !(priceA > 0) || !(priceB > 0) {
		panic(fmt.Sprintf("clmm: token prices must be positive, got priceA=%g priceB=%g", priceA, priceB))
	}
}
