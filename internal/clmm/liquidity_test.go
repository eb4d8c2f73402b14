package clmm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ethRange = PriceRange{Lower: 3000, Upper: 4000}

func TestComputeLiquidityAllocation(t *testing.T) {
	t.Run("in range holds both tokens", func(t *testing.T) {
		res := ComputeLiquidityAllocation(1000, ethRange, 3500, 3500, 1)
		assert.Greater(t, res.AmountA, 0.0)
		assert.Greater(t, res.AmountB, 0.0)
		assert.Greater(t, res.Liquidity, 0.0)
		assert.InDelta(t, 1000, res.AmountA*3500+res.AmountB*1, 1e-9)
	})

	t.Run("below range is all token A", func(t *testing.T) {
		res := ComputeLiquidityAllocation(1000, ethRange, 2500, 2500, 1)
		assert.Equal(t, 0.0, res.AmountB)
		assert.Equal(t, 1000.0/2500.0, res.AmountA)
		assert.Greater(t, res.Liquidity, 0.0)
	})

	t.Run("above range is all token B", func(t *testing.T) {
		res := ComputeLiquidityAllocation(1000, ethRange, 4500, 4500, 1)
		assert.Equal(t, 0.0, res.AmountA)
		assert.Equal(t, 1000.0, res.AmountB)
		assert.Greater(t, res.Liquidity, 0.0)
	})

	t.Run("degenerate range clamps liquidity", func(t *testing.T) {
		res := ComputeLiquidityAllocation(1000, PriceRange{Lower: 3000, Upper: 3000}, 2500, 2500, 1)
		assert.Equal(t, 0.0, res.Liquidity)
		assert.False(t, math.IsNaN(res.AmountA))
	})

	t.Run("non-positive token price panics", func(t *testing.T) {
		assert.Panics(t, func() { ComputeLiquidityAllocation(1000, ethRange, 3500, 3500, 0) })
		assert.Panics(t, func() { ComputeLiquidityAllocation(1000, ethRange, 3500, -1, 1) })
	})
}

func TestAllocationConservesValue(t *testing.T) {
	for _, priceB := range []float64{1, 0.998, 2.5} {
		for _, p := range []float64{1500, 3000, 3001, 3500, 3999, 4000, 9000} {
			priceA := p * priceB
			res := ComputeLiquidityAllocation(1000, ethRange, p, priceA, priceB)
			assert.InDelta(t, 1000, res.AmountA*priceA+res.AmountB*priceB, 1e-8, "p=%v priceB=%v", p, priceB)
		}
	}
}

func TestAllocationContinuousAtBounds(t *testing.T) {
	const eps = 1e-12

	at := func(p float64) LiquidityResult {
		return ComputeLiquidityAllocation(1000, ethRange, p, p, 1)
	}

	below := at(ethRange.Lower)
	justInside := at(ethRange.Lower * (1 + eps))
	require.Greater(t, justInside.AmountB, 0.0)
	assert.InEpsilon(t, below.Liquidity, justInside.Liquidity, 1e-6)
	assert.InEpsilon(t, below.AmountA, justInside.AmountA, 1e-6)
	assert.InDelta(t, below.AmountB, justInside.AmountB, 1e-6)

	above := at(ethRange.Upper)
	justBelowTop := at(ethRange.Upper * (1 - eps))
	require.Greater(t, justBelowTop.AmountA, 0.0)
	assert.InEpsilon(t, above.Liquidity, justBelowTop.Liquidity, 1e-6)
	assert.InEpsilon(t, above.AmountB, justBelowTop.AmountB, 1e-6)
	assert.InDelta(t, above.AmountA, justBelowTop.AmountA, 1e-6)
}

func TestLPValueAt(t *testing.T) {
	res := ComputeLiquidityAllocation(1000, ethRange, 3500, 3500, 1)

	assert.InDelta(t, 1000, LPValueAt(res.Liquidity, ethRange, 3500, 1), 1e-9)

	// continuous across both edges
	assert.InEpsilon(t, LPValueAt(res.Liquidity, ethRange, 3000, 1), LPValueAt(res.Liquidity, ethRange, 3000.0001, 1), 1e-6)
	assert.InEpsilon(t, LPValueAt(res.Liquidity, ethRange, 4000, 1), LPValueAt(res.Liquidity, ethRange, 3999.9999, 1), 1e-6)

	// above range the value is capped
	assert.Equal(t, LPValueAt(res.Liquidity, ethRange, 5000, 1), LPValueAt(res.Liquidity, ethRange, 8000, 1))
}
