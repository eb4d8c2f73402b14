package clmm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBoundaryValuation(t *testing.T) {
	p := math.Sqrt(ethRange.Lower * ethRange.Upper)
	res := ComputeLiquidityAllocation(1000, ethRange, p, p, 1)
	require.Greater(t, res.Liquidity, 0.0)

	b := ComputeBoundaryValuation(res.Liquidity, ethRange, 1, 1000)

	assert.Less(t, b.ValueAtMin, 1000.0)
	assert.Greater(t, b.ValueAtMax, 1000.0)
	assert.InDelta(t, b.ValueAtMin-1000, b.GainAtMin, 1e-12)
	assert.InDelta(t, b.ValueAtMax-1000, b.GainAtMax, 1e-12)

	sqrtPa, sqrtPb := math.Sqrt(ethRange.Lower), math.Sqrt(ethRange.Upper)
	fromMin := b.ValueAtMin / ((1/sqrtPa - 1/sqrtPb) * ethRange.Lower * 1)
	fromMax := b.ValueAtMax / ((sqrtPb - sqrtPa) * 1)
	assert.InEpsilon(t, res.Liquidity, fromMin, 1e-12)
	assert.InEpsilon(t, res.Liquidity, fromMax, 1e-12)

	// the boundary values match the generic valuation at the edges
	assert.InEpsilon(t, LPValueAt(res.Liquidity, ethRange, ethRange.Lower, 1), b.ValueAtMin, 1e-12)
	assert.InEpsilon(t, LPValueAt(res.Liquidity, ethRange, ethRange.Upper, 1), b.ValueAtMax, 1e-12)
}

func TestComputeFeeForecast(t *testing.T) {
	f := ComputeFeeForecast(1000, 20, 30)
	assert.InDelta(t, 1000*0.2/365, f.DailyFee, 1e-12)
	assert.InDelta(t, f.DailyFee*30, f.TotalFee, 1e-12)

	t.Run("linear in duration", func(t *testing.T) {
		prev := -1.0
		for _, days := range []float64{0, 1, 7, 30, 90, 365} {
			total := ComputeFeeForecast(1000, 20, days).TotalFee
			assert.Greater(t, total, prev)
			prev = total
		}
		assert.InDelta(t, 2*ComputeFeeForecast(1000, 20, 30).TotalFee, ComputeFeeForecast(1000, 20, 60).TotalFee, 1e-9)
	})

	t.Run("zero apr", func(t *testing.T) {
		assert.Equal(t, FeeForecast{}, ComputeFeeForecast(1000, 0, 30))
	})
}

func TestComputeExitComparison(t *testing.T) {
	res := ComputeLiquidityAllocation(1000, ethRange, 3500, 3500, 1)
	fees := ComputeFeeForecast(1000, 20, 30)

	t.Run("unchanged price", func(t *testing.T) {
		c := ComputeExitComparison(res.Liquidity, ethRange, 1, res.AmountA, res.AmountB, 3500, fees)
		assert.InDelta(t, 1000, c.HodlValue, 1e-9)
		assert.InDelta(t, 1000, c.LPValueRaw, 1e-9)
		assert.InDelta(t, fees.TotalFee, c.NetResult, 1e-9)
		assert.Greater(t, c.NetPercent, 0.0)
	})

	t.Run("divergence loses against hodl", func(t *testing.T) {
		c := ComputeExitComparison(res.Liquidity, ethRange, 1, res.AmountA, res.AmountB, 3000, fees)
		assert.Greater(t, c.ImpermanentLossValue, 0.0)
		assert.InDelta(t, c.HodlValue-c.LPValueRaw, c.ImpermanentLossValue, 1e-9)
		assert.InDelta(t, c.LPValueRaw+fees.TotalFee, c.LPValueWithFees, 1e-9)
		assert.InDelta(t, c.ImpermanentLossValue/fees.DailyFee, c.BreakEvenDays, 1e-9)
		assert.Equal(t, BreakEven{Kind: InDays, Days: c.BreakEvenDays}, c.BreakEven())
	})

	t.Run("below range keeps revaluing token A", func(t *testing.T) {
		c := ComputeExitComparison(res.Liquidity, ethRange, 1, res.AmountA, res.AmountB, 2000, fees)
		sqrtPa, sqrtPb := math.Sqrt(ethRange.Lower), math.Sqrt(ethRange.Upper)
		assert.InDelta(t, res.Liquidity*(1/sqrtPa-1/sqrtPb)*2000, c.LPValueRaw, 1e-9)
	})

	t.Run("loss without fees never breaks even", func(t *testing.T) {
		c := ComputeExitComparison(res.Liquidity, ethRange, 1, res.AmountA, res.AmountB, 3000, FeeForecast{})
		assert.Equal(t, 0.0, c.BreakEvenDays)
		assert.Equal(t, Never, c.BreakEven().Kind)
	})

	t.Run("no loss is already ahead", func(t *testing.T) {
		c := ExitComparison{NetResult: 5}
		assert.Equal(t, AlreadyAhead, c.BreakEven().Kind)
	})

	t.Run("empty hodl gives zero percent", func(t *testing.T) {
		c := ComputeExitComparison(res.Liquidity, ethRange, 1, 0, 0, 3500, fees)
		assert.Equal(t, 0.0, c.HodlValue)
		assert.Equal(t, 0.0, c.NetPercent)
	})
}

func TestBreakEvenKindText(t *testing.T) {
	b, err := InDays.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "in_days", string(b))
	assert.Equal(t, "never", Never.String())
}
