package ptyt

import (
	"fmt"
	"log/slog"
	"math"
)

// Horizon names the holder archetype.
type Horizon string

const (
	HorizonInvestor Horizon = "investor"
	HorizonTrader   Horizon = "trader"
)

// Strategy names what the holder buys.
type Strategy string

const (
	StrategyPT   Strategy = "pt"
	StrategyYT   Strategy = "yt"
	StrategyHODL Strategy = "hodl"
)

// Pick identifies the most profitable outcome of a forecast.
type Pick struct {
	Horizon   Horizon  `json:"horizon"`
	Strategy  Strategy `json:"strategy"`
	NetProfit float64  `json:"net_profit"`
}

// Forecast is a full analysis of a quoted market.
type Forecast struct {
	Quote    MarketQuote     `json:"quote"`
	Investor InvestorOutcome `json:"investor"`
	Trader   TraderOutcome   `json:"trader"`
	Best     *Pick           `json:"best,omitempty"`
}

// Project runs both projections for q.
func Project(q MarketQuote, in ForecastInputs, clock Clock) (Forecast, error) {
	inv, err := ProjectInvestor(q, in.Investment, in.FutureUnderlyingAPY)
	if err != nil {
		return Forecast{}, fmt.Errorf("investor projection: %w", err)
	}
	tr, err := ProjectTrader(q, in, clock.Today())
	if err != nil {
		return Forecast{}, fmt.Errorf("trader projection: %w", err)
	}
	f := Forecast{Quote: q, Investor: inv, Trader: tr}
	f.Best = BestStrategy(f)
	return f, nil
}

// BestStrategy returns the outcome with the highest finite net profit, or nil
// if there is none. Ties go to the investor side, then PT, YT, HODL.
func BestStrategy(f Forecast) *Pick {
	candidates := []struct {
		h Horizon
		s Strategy
		o StrategyOutcome
	}{
		{HorizonInvestor, StrategyPT, f.Investor.PT},
		{HorizonInvestor, StrategyYT, f.Investor.YT},
		{HorizonInvestor, StrategyHODL, f.Investor.HODL},
		{HorizonTrader, StrategyPT, f.Trader.PT},
		{HorizonTrader, StrategyYT, f.Trader.YT},
		{HorizonTrader, StrategyHODL, f.Trader.HODL},
	}

	var best *Pick
	for _, c := range candidates {
		if math.IsNaN(c.o.NetProfit) || math.IsInf(c.o.NetProfit, 0) {
			continue
		}
		if best == nil || c.o.NetProfit > best.NetProfit {
			best = &Pick{Horizon: c.h, Strategy: c.s, NetProfit: c.o.NetProfit}
		}
	}
	return best
}

// Calculator holds a submitted market and the forecast run against it.
// Submitting a market again discards the forecast. Not safe for concurrent use.
type Calculator struct {
	logger   *slog.Logger
	clock    Clock
	quote    *MarketQuote
	forecast *Forecast
}

// NewCalculator creates an empty Calculator.
func NewCalculator(logger *slog.Logger, clock Clock) *Calculator {
	return &Calculator{logger: logger, clock: clock}
}

// Submit quotes and locks a market. On error the previous state is kept.
func (c *Calculator) Submit(in MarketInputs) (MarketQuote, error) {
	q, err := QuoteMarket(in, c.clock.Today())
	if err != nil {
		c.logger.Warn("Market rejected", "asset", in.AssetName, "error", err)
		return MarketQuote{}, err
	}
	c.quote = &q
	c.forecast = nil
	c.logger.Info("Market submitted",
		"asset", q.AssetName,
		"timeToMaturity", q.TimeToMaturity,
		"ptPrice", q.PTPrice,
		"ytPrice", q.YTPrice,
	)
	return q, nil
}

// Analyze runs a forecast against the submitted market.
func (c *Calculator) Analyze(in ForecastInputs) (Forecast, error) {
	if c.quote == nil {
		return Forecast{}, ErrNoQuote
	}
	f, err := Project(*c.quote, in, c.clock)
	if err != nil {
		c.logger.Warn("Forecast rejected", "error", err)
		return Forecast{}, err
	}
	c.forecast = &f
	return f, nil
}

// Quote returns the submitted market, if any.
func (c *Calculator) Quote() (MarketQuote, bool) {
	if c.quote == nil {
		return MarketQuote{}, false
	}
	return *c.quote, true
}

// Forecast returns the last forecast, if it is still valid.
func (c *Calculator) Forecast() (Forecast, bool) {
	if c.forecast == nil {
		return Forecast{}, false
	}
	return *c.forecast, true
}

// ResetAnalysis discards the forecast and keeps the market.
func (c *Calculator) ResetAnalysis() {
	c.forecast = nil
}

// Reset discards everything.
func (c *Calculator) Reset() {
	c.quote = nil
	c.forecast = nil
}
