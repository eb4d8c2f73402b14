package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"defikit/internal/clmm"
	"defikit/internal/ptyt"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", t.TempDir(), "--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLMMCommand(t *testing.T) {
	t.Run("manual price with derived range", func(t *testing.T) {
		out, err := run(t, "clmm", "--price", "3500", "--investment", "1000", "--exit-change", "10")
		require.NoError(t, err)

		var env clmm.Envelope
		require.NoError(t, json.Unmarshal([]byte(out), &env))
		require.Equal(t, clmm.StatusSuccess, env.Status)
		assert.Equal(t, 2450.0, env.Data.Range.Lower)
		assert.Equal(t, 4550.0, env.Data.Range.Upper)
		require.NotNil(t, env.Data.Comparison)
		assert.Equal(t, 3850.0, env.Data.Comparison.ExitPrice)
	})

	t.Run("nudged bounds", func(t *testing.T) {
		out, err := run(t, "clmm", "--price", "3500", "--investment", "1000", "--nudge-lower", "up", "--nudge-upper", "down")
		require.NoError(t, err)

		var env clmm.Envelope
		require.NoError(t, json.Unmarshal([]byte(out), &env))
		require.Equal(t, clmm.StatusSuccess, env.Status)
		assert.Equal(t, 2460.0, env.Data.Range.Lower)
		assert.Equal(t, 4540.0, env.Data.Range.Upper)
	})

	t.Run("bad nudge direction", func(t *testing.T) {
		_, err := run(t, "clmm", "--price", "3500", "--nudge-lower", "sideways")
		assert.ErrorContains(t, err, "--nudge-lower")
	})

	t.Run("no price waits", func(t *testing.T) {
		out, err := run(t, "clmm", "--investment", "1000")
		require.NoError(t, err)

		var env clmm.Envelope
		require.NoError(t, json.Unmarshal([]byte(out), &env))
		assert.Equal(t, clmm.StatusWaiting, env.Status)
	})

	t.Run("inverted range fails", func(t *testing.T) {
		_, err := run(t, "clmm", "--price", "3500", "--lower", "4000", "--upper", "3000")
		require.Error(t, err)
		assert.ErrorIs(t, err, clmm.ErrInvalidRange)
	})
}

func TestPTYTCommand(t *testing.T) {
	out, err := run(t, "ptyt", "--days", "90", "--sale-days", "30")
	require.NoError(t, err)

	var f ptyt.Forecast
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, "sUSDe", f.Quote.AssetName)
	assert.InDelta(t, 1, f.Quote.PTPrice+f.Quote.YTPrice, 1e-12)
	assert.Equal(t, 30, f.Trader.DaysHeld)

	out, err = run(t, "ptyt", "--days", "90", "--asset-price", "1", "--nudge-asset-price", "up")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, 1.1, f.Quote.AssetPrice)

	_, err = run(t, "ptyt")
	assert.Error(t, err)
}

func TestScenariosCommandNeedsDatabase(t *testing.T) {
	_, err := run(t, "scenarios", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario store disabled")
}
