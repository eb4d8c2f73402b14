package clmm

import (
	"log/slog"
	"math"

	"defikit/internal/numeric"
	"defikit/internal/oracle"
)

// Engine evaluates positions. It holds no state between calls and is safe for
// concurrent use.
type Engine struct {
	logger *slog.Logger
	oracle oracle.PriceOracle
}

// NewEngine creates an Engine that reads token prices from o. o may be nil when
// only manual prices are used.
func NewEngine(logger *slog.Logger, o oracle.PriceOracle) *Engine {
	return &Engine{logger: logger, oracle: o}
}

// Evaluate runs the whole calculation for in.
func (e *Engine) Evaluate(in Inputs) Outcome {
	priceA, priceB, missing := e.resolvePrices(in)
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"investment", in.Investment},
		{"lower", in.Lower},
		{"upper", in.Upper},
	} {
		if !numeric.Present(f.v) {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return Waiting{Missing: missing}
	}

	rng := in.Range()
	if err := rng.Validate(); err != nil {
		return Invalid{Reason: err.Error(), Err: err}
	}
	if in.Investment <= 0 || math.IsInf(in.Investment, 0) {
		return Invalid{Reason: ErrInvalidInvestment.Error(), Err: ErrInvalidInvestment}
	}
	if !validPrice(priceA) {
		return Invalid{Reason: ErrInvalidPrice.Error(), Err: ErrInvalidPrice}
	}
	hasExit := in.ExitPrice != nil && !math.IsNaN(*in.ExitPrice)
	if hasExit && !validPrice(*in.ExitPrice) {
		return Invalid{Reason: ErrInvalidExitPrice.Error(), Err: ErrInvalidExitPrice}
	}

	p := priceA / priceB
	if !validPrice(p) {
		return Invalid{Reason: ErrInvalidPrice.Error(), Err: ErrInvalidPrice}
	}
	liq := ComputeLiquidityAllocation(in.Investment, rng, p, priceA, priceB)
	if liq.Liquidity == 0 {
		e.logger.Warn("Liquidity clamped to zero", "price", p, "lower", rng.Lower, "upper", rng.Upper)
	}

	pos := Position{
		CurrentPrice:    p,
		PriceA:          priceA,
		PriceB:          priceB,
		Range:           rng,
		Investment:      in.Investment,
		LiquidityResult: liq,
		ValueA:          numeric.Finite(liq.AmountA * priceA),
		ValueB:          numeric.Finite(liq.AmountB * priceB),
		Boundary:        ComputeBoundaryValuation(liq.Liquidity, rng, priceB, in.Investment),
		Fees:            ComputeFeeForecast(in.Investment, numeric.Finite(in.FeeAPR), numeric.Finite(in.DurationDays)),
	}

	if hasExit && liq.Liquidity > 0 {
		c := ComputeExitComparison(liq.Liquidity, rng, priceB, liq.AmountA, liq.AmountB, *in.ExitPrice, pos.Fees)
		pos.Comparison = &c
	}
	pos.Insights = Insights(pos)

	e.logger.Debug("Position evaluated",
		"price", p,
		"liquidity", liq.Liquidity,
		"amountA", liq.AmountA,
		"amountB", liq.AmountB,
		"comparison", pos.Comparison != nil,
	)
	return Success{Position: pos}
}

// resolvePrices returns the quote prices of token A and B, or the names of the
// inputs that are still missing. A filled-in manual price is returned as is,
// even when it is not positive, so that Evaluate can reject it. An oracle price
// that is not a positive finite number counts as unavailable.
func (e *Engine) resolvePrices(in Inputs) (priceA, priceB float64, missing []string) {
	if numeric.Present(in.ManualPrice) {
		return in.ManualPrice, 1, nil
	}
	if in.TokenA == "" || in.TokenB == "" || e.oracle == nil {
		return 0, 0, []string{"price"}
	}
	var ok bool
	if priceA, ok = e.oracle.Price(in.TokenA); !ok || !validPrice(priceA) {
		missing = append(missing, "price:"+in.TokenA)
	}
	if priceB, ok = e.oracle.Price(in.TokenB); !ok || !validPrice(priceB) {
		missing = append(missing, "price:"+in.TokenB)
	}
	return priceA, priceB, missing
}

func validPrice(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
