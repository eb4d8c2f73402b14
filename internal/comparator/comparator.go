// Package comparator projects a coin's price if it reached another coin's
// market capitalisation.
package comparator

import (
	"errors"

	"defikit/internal/numeric"
)

var (
	ErrNoSupply      = errors.New("circulating supply must be positive")
	ErrNoTargetValue = errors.New("target market cap must be positive")
)

// Coin is the market data a comparison needs. ATH is the all-time high price.
type Coin struct {
	ID                string  `json:"id"`
	Price             float64 `json:"price"`
	MarketCap         float64 `json:"market_cap"`
	CirculatingSupply float64 `json:"circulating_supply"`
	ATH               float64 `json:"ath,omitempty"`
}

// Projection is the base coin priced at the target's market cap. Gain is the
// multiple of the base coin's current price, 0 when that price is unknown.
type Projection struct {
	Base           string  `json:"base"`
	Target         string  `json:"target"`
	UsedATH        bool    `json:"used_ath"`
	PotentialPrice float64 `json:"potential_price"`
	PotentialGain  float64 `json:"potential_gain"`
	PercentChange  float64 `json:"percent_change"`
}

// Project prices base at target's market cap, or at the cap target had at its
// all-time high when useATH is set.
func Project(base, target Coin, useATH bool) (Projection, error) {
	if !(base.CirculatingSupply > 0) {
		return Projection{}, ErrNoSupply
	}
	mcap := target.MarketCap
	if useATH {
		mcap = target.ATH * target.CirculatingSupply
	}
	if !(mcap > 0) {
		return Projection{}, ErrNoTargetValue
	}

	p := Projection{
		Base:           base.ID,
		Target:         target.ID,
		UsedATH:        useATH,
		PotentialPrice: numeric.Finite(mcap / base.CirculatingSupply),
	}
	if base.Price > 0 {
		p.PotentialGain = numeric.Finite(p.PotentialPrice / base.Price)
		p.PercentChange = (p.PotentialGain - 1) * 100
	}
	return p, nil
}

// HoldingsValue is what holdings of the base coin would be worth at the
// projected price. Non-positive holdings are worth 0.
func (p Projection) HoldingsValue(holdings float64) float64 {
	if !(holdings > 0) {
		return 0
	}
	return numeric.Finite(holdings * p.PotentialPrice)
}
