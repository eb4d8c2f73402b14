// Package ptyt prices principal (PT) and yield (YT) tokens of a yield-bearing
// asset from its implied APY, and projects outcomes for holding them to
// maturity or selling early.
package ptyt

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DaysPerYear converts day counts into year fractions.
const DaysPerYear = 365.25

var (
	ErrMaturityPassed     = errors.New("maturity date must be after today")
	ErrInvalidAssetPrice  = errors.New("asset price must be positive")
	ErrInvalidAPY         = errors.New("apy must be a number above -100%")
	ErrInvalidInvestment  = errors.New("investment must be positive")
	ErrSaleDateOutOfRange = errors.New("sale date must be between today and maturity")
	ErrNoQuote            = errors.New("market has not been submitted")
)

// MarketInputs describe the market being priced. ImpliedAPYPercent is in
// percent (15 means 15%).
type MarketInputs struct {
	AssetName         string    `json:"asset_name"`
	AssetPrice        float64   `json:"asset_price"`
	Maturity          time.Time `json:"maturity"`
	ImpliedAPYPercent float64   `json:"implied_apy"`
}

// MarketQuote is the locked pricing of a market on a given day. ImpliedAPY is
// a decimal rate; prices without the Underlying suffix are in quote currency.
type MarketQuote struct {
	AssetName         string    `json:"asset_name"`
	AssetPrice        float64   `json:"asset_price"`
	Maturity          time.Time `json:"maturity"`
	QuotedAt          time.Time `json:"quoted_at"`
	ImpliedAPY        float64   `json:"implied_apy"`
	TimeToMaturity    float64   `json:"time_to_maturity"`
	PTPriceUnderlying float64   `json:"pt_price_underlying"`
	YTPriceUnderlying float64   `json:"yt_price_underlying"`
	PTPrice           float64   `json:"pt_price"`
	YTPrice           float64   `json:"yt_price"`
	PTExchangeRate    float64   `json:"pt_exchange_rate"`
}

// DaysToMaturity is the whole number of days left, rounded up.
func (q MarketQuote) DaysToMaturity() int {
	return int(math.Ceil(math.Max(0, daysBetween(q.QuotedAt, q.Maturity))))
}

// QuoteMarket prices PT as a zero-coupon discount factor over the time to
// maturity and YT as the remainder of one unit of the asset.
func QuoteMarket(in MarketInputs, today time.Time) (MarketQuote, error) {
	today = Day(today)
	maturity := Day(in.Maturity)
	if !maturity.After(today) {
		return MarketQuote{}, fmt.Errorf("%w: maturity %s, today %s", ErrMaturityPassed, maturity.Format(time.DateOnly), today.Format(time.DateOnly))
	}
	if !(in.AssetPrice > 0) || math.IsInf(in.AssetPrice, 0) {
		return MarketQuote{}, fmt.Errorf("%w: %g", ErrInvalidAssetPrice, in.AssetPrice)
	}
	apy := in.ImpliedAPYPercent / 100
	if err := checkAPY(apy); err != nil {
		return MarketQuote{}, fmt.Errorf("implied %w", err)
	}

	t := daysBetween(today, maturity) / DaysPerYear
	pt := discountFactor(apy, t)
	yt := 1 - pt

	return MarketQuote{
		AssetName:         in.AssetName,
		AssetPrice:        in.AssetPrice,
		Maturity:          maturity,
		QuotedAt:          today,
		ImpliedAPY:        apy,
		TimeToMaturity:    t,
		PTPriceUnderlying: pt,
		YTPriceUnderlying: yt,
		PTPrice:           pt * in.AssetPrice,
		YTPrice:           yt * in.AssetPrice,
		PTExchangeRate:    1 / pt,
	}, nil
}

// discountFactor is the price today of one unit paid after t years at apy.
func discountFactor(apy, t float64) float64 {
	return 1 / math.Pow(1+apy, t)
}

// growth is the value after t years of one unit compounding at apy.
func growth(apy, t float64) float64 {
	return math.Pow(1+apy, t)
}

func checkAPY(apy float64) error {
	if math.IsNaN(apy) || math.IsInf(apy, 0) || apy <= -1 {
		return fmt.Errorf("%w: %g", ErrInvalidAPY, apy)
	}
	return nil
}
