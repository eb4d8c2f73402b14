package ptyt

import (
	"fmt"
	"math"
	"time"

	"defikit/internal/numeric"
)

// ForecastInputs are the holder's assumptions. APYs are decimal rates.
type ForecastInputs struct {
	Investment          float64   `json:"investment"`
	FutureUnderlyingAPY float64   `json:"future_underlying_apy"`
	FutureImpliedAPY    float64   `json:"future_implied_apy"`
	SaleDate            time.Time `json:"sale_date"`
}

// StrategyOutcome is the result of one strategy. Optional values are nil when
// they do not apply to the strategy.
type StrategyOutcome struct {
	Cost          float64  `json:"cost"`
	YieldEarned   *float64 `json:"yield_earned,omitempty"`
	MaturityValue *float64 `json:"maturity_value,omitempty"`
	SalePrice     *float64 `json:"sale_price,omitempty"`
	NetProfit     float64  `json:"net_profit"`
	EffectiveAPY  float64  `json:"effective_apy"`
}

// InvestorOutcome holds each strategy kept until maturity.
type InvestorOutcome struct {
	PT   StrategyOutcome `json:"pt"`
	YT   StrategyOutcome `json:"yt"`
	HODL StrategyOutcome `json:"hodl"`
}

// TraderOutcome holds each strategy sold on the sale date.
type TraderOutcome struct {
	PT       StrategyOutcome `json:"pt"`
	YT       StrategyOutcome `json:"yt"`
	HODL     StrategyOutcome `json:"hodl"`
	DaysHeld int             `json:"days_held"`
}

// ProjectInvestor projects holding to maturity. PT redeems one unit of the
// asset at the quoted asset price; YT collects the yield over the full term and
// then expires worthless.
func ProjectInvestor(q MarketQuote, investment, futureUnderlyingAPY float64) (InvestorOutcome, error) {
	if err := checkInvestment(investment); err != nil {
		return InvestorOutcome{}, err
	}
	if err := checkAPY(futureUnderlyingAPY); err != nil {
		return InvestorOutcome{}, fmt.Errorf("future underlying %w", err)
	}

	t := q.TimeToMaturity
	g := growth(futureUnderlyingAPY, t)

	hodlEnd := investment * g
	hodl := outcome(investment, hodlEnd-investment, t)
	hodl.YieldEarned = value(hodlEnd - investment)
	hodl.SalePrice = value(hodlEnd)

	ptTokens := numeric.Finite(investment / q.PTPrice)
	ptMaturity := ptTokens * q.AssetPrice
	pt := outcome(investment, ptMaturity-investment, t)
	pt.MaturityValue = value(ptMaturity)

	ytTokens := numeric.Finite(investment / q.YTPrice)
	ytYield := ytTokens * (g - 1) * q.AssetPrice
	yt := outcome(investment, ytYield-investment, t)
	yt.YieldEarned = value(ytYield)
	yt.MaturityValue = value(0)

	return InvestorOutcome{PT: pt, YT: yt, HODL: hodl}, nil
}

// ProjectTrader projects selling on in.SaleDate. PT and YT are repriced at
// in.FutureImpliedAPY over the time left to maturity, converted with the quoted
// asset price; the asset price itself is held constant.
func ProjectTrader(q MarketQuote, in ForecastInputs, today time.Time) (TraderOutcome, error) {
	if err := checkInvestment(in.Investment); err != nil {
		return TraderOutcome{}, err
	}
	if err := checkAPY(in.FutureUnderlyingAPY); err != nil {
		return TraderOutcome{}, fmt.Errorf("future underlying %w", err)
	}
	if err := checkAPY(in.FutureImpliedAPY); err != nil {
		return TraderOutcome{}, fmt.Errorf("future implied %w", err)
	}

	today = Day(today)
	sale := Day(in.SaleDate)
	if sale.Before(today) || sale.After(q.Maturity) {
		return TraderOutcome{}, fmt.Errorf("%w: sale %s, today %s, maturity %s", ErrSaleDateOutOfRange,
			sale.Format(time.DateOnly), today.Format(time.DateOnly), q.Maturity.Format(time.DateOnly))
	}

	daysHeld := daysBetween(today, sale)
	tHold := math.Max(0, daysHeld/DaysPerYear)
	tRemaining := math.Max(0, q.TimeToMaturity-tHold)
	inv := in.Investment
	g := growth(in.FutureUnderlyingAPY, tHold)
	ptAtSale := discountFactor(in.FutureImpliedAPY, tRemaining)

	hodlValue := inv * g
	hodl := outcome(inv, hodlValue-inv, tHold)
	hodl.YieldEarned = value(hodlValue - inv)
	hodl.SalePrice = value(hodlValue)

	ptTokens := numeric.Finite(inv / q.PTPrice)
	ptSale := ptTokens * ptAtSale * q.AssetPrice
	pt := outcome(inv, ptSale-inv, tHold)
	pt.SalePrice = value(ptSale)

	ytTokens := numeric.Finite(inv / q.YTPrice)
	ytYield := ytTokens * q.AssetPrice * (g - 1)
	ytSale := ytTokens * (1 - ptAtSale) * q.AssetPrice
	yt := outcome(inv, ytYield+ytSale-inv, tHold)
	yt.YieldEarned = value(ytYield)
	yt.SalePrice = value(ytSale)

	return TraderOutcome{PT: pt, YT: yt, HODL: hodl, DaysHeld: int(math.Round(daysHeld))}, nil
}

// EffectiveAPY annualizes netProfit on cost over t years. It is 0 for t <= 0.
func EffectiveAPY(netProfit, cost, t float64) float64 {
	if t <= 0 || cost <= 0 {
		return 0
	}
	return numeric.Finite(math.Pow(1+netProfit/cost, 1/t) - 1)
}

func outcome(cost, netProfit, t float64) StrategyOutcome {
	netProfit = numeric.Finite(netProfit)
	return StrategyOutcome{
		Cost:         cost,
		NetProfit:    netProfit,
		EffectiveAPY: EffectiveAPY(netProfit, cost, t),
	}
}

func value(v float64) *float64 {
	v = numeric.Finite(v)
	return &v
}

func checkInvestment(v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidInvestment, v)
	}
	return nil
}
