// Package clmm values a concentrated-liquidity position between two prices:
// token allocation, liquidity, boundary values, fee income and an exit
// comparison against simply holding the tokens.
package clmm

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange      = errors.New("lower price must be below upper price")
	ErrNonPositiveBound  = errors.New("price range bounds must be positive")
	ErrInvalidInvestment = errors.New("investment must be positive")
	ErrInvalidPrice      = errors.New("price must be a positive finite number")
	ErrInvalidExitPrice  = errors.New("exit price must be a positive finite number")
)

// PriceRange is the [Lower, Upper] band in which the position provides liquidity.
// Prices are quoted as token B per token A.
type PriceRange struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Validate checks 0 < Lower < Upper.
func (r PriceRange) Validate() error {
	if r.Lower <= 0 || r.Upper <= 0 {
		return fmt.Errorf("%w: [%g, %g]", ErrNonPositiveBound, r.Lower, r.Upper)
	}
	if r.Lower >= r.Upper {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, r.Lower, r.Upper)
	}
	return nil
}

// WidthPercent is the range width relative to p, in percent.
func (r PriceRange) WidthPercent(p float64) float64 {
	if p <= 0 {
		return 0
	}
	return (r.Upper - r.Lower) / p * 100
}

// Inputs is everything the calculator form collects. Zero or NaN numeric
// fields count as not filled in yet. ManualPrice > 0 bypasses the oracle:
// token A is then priced at ManualPrice and token B at 1.
type Inputs struct {
	TokenA       string   `json:"token_a,omitempty"`
	TokenB       string   `json:"token_b,omitempty"`
	ManualPrice  float64  `json:"manual_price,omitempty"`
	Investment   float64  `json:"investment"`
	Lower        float64  `json:"lower"`
	Upper        float64  `json:"upper"`
	FeeAPR       float64  `json:"fee_apr"`
	DurationDays float64  `json:"duration_days"`
	ExitPrice    *float64 `json:"exit_price,omitempty"`
}

// Range returns the inputs' price band.
func (in Inputs) Range() PriceRange {
	return PriceRange{Lower: in.Lower, Upper: in.Upper}
}

// LiquidityResult holds the liquidity constant and the token amounts backing
// the position at the entry price.
type LiquidityResult struct {
	Liquidity float64 `json:"liquidity"`
	AmountA   float64 `json:"amount_a"`
	AmountB   float64 `json:"amount_b"`
}

// BoundaryValuation is the position value, in quote terms, once price reaches
// either edge of the range and the position is entirely one token.
type BoundaryValuation struct {
	ValueAtMin float64 `json:"value_at_min"`
	GainAtMin  float64 `json:"gain_at_min"`
	ValueAtMax float64 `json:"value_at_max"`
	GainAtMax  float64 `json:"gain_at_max"`
}

// FeeForecast is simple (non-compounding) fee accrual.
type FeeForecast struct {
	DailyFee float64 `json:"daily_fee"`
	TotalFee float64 `json:"total_fee"`
}

// BreakEvenKind tells the three breakeven situations apart.
type BreakEvenKind int

const (
	// AlreadyAhead means there is no impermanent loss to recover.
	AlreadyAhead BreakEvenKind = iota
	// Never means there is a loss but no fee income to recover it.
	Never
	// InDays means fees recover the loss after Days days.
	InDays
)

func (k BreakEvenKind) String() string {
	switch k {
	case AlreadyAhead:
		return "already_ahead"
	case Never:
		return "never"
	case InDays:
		return "in_days"
	default:
		return fmt.Sprintf("BreakEvenKind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k BreakEvenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// BreakEven is the explicit breakeven state.
type BreakEven struct {
	Kind BreakEvenKind `json:"kind"`
	Days float64       `json:"days,omitempty"`
}

func (b BreakEven) String() string {
	if b.Kind == InDays {
		return fmt.Sprintf("in %.1f days", b.Days)
	}
	return b.Kind.String()
}

// ExitComparison compares the LP position at an exit price with holding the
// entry token amounts. BreakEvenDays is 0 both when already ahead and when fees
// are zero; BreakEven tells the two apart.
type ExitComparison struct {
	ExitPrice            float64 `json:"exit_price"`
	HodlValue            float64 `json:"hodl_value"`
	LPValueRaw           float64 `json:"lp_value_raw"`
	LPValueWithFees      float64 `json:"lp_value_with_fees"`
	NetResult            float64 `json:"net_result"`
	NetPercent           float64 `json:"net_percent"`
	ImpermanentLossValue float64 `json:"impermanent_loss_value"`
	BreakEvenDays        float64 `json:"break_even_days"`
}

// BreakEven classifies BreakEvenDays.
func (c ExitComparison) BreakEven() BreakEven {
	switch {
	case c.ImpermanentLossValue <= 0:
		return BreakEven{Kind: AlreadyAhead}
	case c.BreakEvenDays <= 0:
		return BreakEven{Kind: Never}
	default:
		return BreakEven{Kind: InDays, Days: c.BreakEvenDays}
	}
}

// Position is the full result bundle of a successful evaluation.
type Position struct {
	CurrentPrice float64    `json:"current_price"`
	PriceA       float64    `json:"price_a"`
	PriceB       float64    `json:"price_b"`
	Range        PriceRange `json:"range"`
	Investment   float64    `json:"investment"`
	LiquidityResult
	ValueA     float64           `json:"value_a"`
	ValueB     float64           `json:"value_b"`
	Boundary   BoundaryValuation `json:"boundary"`
	Fees       FeeForecast       `json:"fees"`
	Comparison *ExitComparison   `json:"comparison,omitempty"`
	Insights   []Insight         `json:"insights,omitempty"`
}

// InRange reports whether the entry price lies inside the range.
func (p Position) InRange() bool {
	return p.CurrentPrice >= p.Range.Lower && p.CurrentPrice <= p.Range.Upper
}
