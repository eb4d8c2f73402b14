package comparator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sol = Coin{ID: "solana", Price: 150, MarketCap: 75e9, CirculatingSupply: 500e6, ATH: 260}
	eth = Coin{ID: "ethereum", Price: 3500, MarketCap: 420e9, CirculatingSupply: 120e6, ATH: 4900}
)

func TestProject(t *testing.T) {
	t.Run("at market cap", func(t *testing.T) {
		p, err := Project(sol, eth, false)
		require.NoError(t, err)
		assert.Equal(t, "solana", p.Base)
		assert.Equal(t, "ethereum", p.Target)
		assert.InDelta(t, 840, p.PotentialPrice, 1e-9)
		assert.InDelta(t, 5.6, p.PotentialGain, 1e-12)
		assert.InDelta(t, 460, p.PercentChange, 1e-9)
		assert.InDelta(t, 8400, p.HoldingsValue(10), 1e-6)
	})

	t.Run("at all-time high", func(t *testing.T) {
		p, err := Project(eth, sol, true)
		require.NoError(t, err)
		assert.True(t, p.UsedATH)
		assert.InDelta(t, 260*500e6/120e6, p.PotentialPrice, 1e-9)
		assert.Less(t, p.PercentChange, 0.0)
	})

	t.Run("unknown base price", func(t *testing.T) {
		base := sol
		base.Price = 0
		p, err := Project(base, eth, false)
		require.NoError(t, err)
		assert.Greater(t, p.PotentialPrice, 0.0)
		assert.Zero(t, p.PotentialGain)
		assert.Zero(t, p.PercentChange)
	})

	t.Run("no supply", func(t *testing.T) {
		base := sol
		base.CirculatingSupply = 0
		_, err := Project(base, eth, false)
		assert.ErrorIs(t, err, ErrNoSupply)
	})

	t.Run("no target cap", func(t *testing.T) {
		target := eth
		target.ATH = 0
		_, err := Project(sol, target, true)
		assert.ErrorIs(t, err, ErrNoTargetValue)
	})
}

func TestHoldingsValue(t *testing.T) {
	p := Projection{PotentialPrice: 2}
	assert.Equal(t, 0.0, p.HoldingsValue(0))
	assert.Equal(t, 0.0, p.HoldingsValue(-3))
	assert.Equal(t, 6.0, p.HoldingsValue(3))
}
