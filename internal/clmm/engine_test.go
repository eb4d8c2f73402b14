package clmm

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) Price(tokenID string) (float64, bool) {
	args := m.Called(tokenID)
	return args.Get(0).(float64), args.Bool(1)
}

func newTestEngine(o *MockOracle) *Engine {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if o == nil {
		return NewEngine(logger, nil)
	}
	return NewEngine(logger, o)
}

func ptr(v float64) *float64 { return &v }

func TestEngine_Evaluate(t *testing.T) {
	t.Run("blank form waits", func(t *testing.T) {
		out := newTestEngine(nil).Evaluate(Inputs{})
		w, ok := out.(Waiting)
		require.True(t, ok, "got %T", out)
		assert.ElementsMatch(t, []string{"price", "investment", "lower", "upper"}, w.Missing)
		assert.Equal(t, StatusWaiting, out.Status())
	})

	t.Run("NaN counts as missing", func(t *testing.T) {
		out := newTestEngine(nil).Evaluate(Inputs{ManualPrice: 3500, Investment: math.NaN(), Lower: 3000, Upper: 4000})
		w, ok := out.(Waiting)
		require.True(t, ok)
		assert.Equal(t, []string{"investment"}, w.Missing)
	})

	t.Run("unavailable oracle price waits", func(t *testing.T) {
		o := new(MockOracle)
		o.On("Price", "ethereum").Return(0.0, false).Once()
		o.On("Price", "usd-coin").Return(1.0, true).Once()

		out := newTestEngine(o).Evaluate(Inputs{TokenA: "ethereum", TokenB: "usd-coin", Investment: 1000, Lower: 3000, Upper: 4000})
		w, ok := out.(Waiting)
		require.True(t, ok)
		assert.Equal(t, []string{"price:ethereum"}, w.Missing)
		o.AssertExpectations(t)
	})

	t.Run("inverted range is invalid", func(t *testing.T) {
		out := newTestEngine(nil).Evaluate(Inputs{ManualPrice: 3500, Investment: 1000, Lower: 4000, Upper: 3000})
		inv, ok := out.(Invalid)
		require.True(t, ok, "got %T", out)
		assert.Equal(t, StatusError, out.Status())
		assert.True(t, errors.Is(inv, ErrInvalidRange))
		assert.Contains(t, inv.Reason, "lower price must be below upper price")
	})

	t.Run("negative investment is invalid", func(t *testing.T) {
		out := newTestEngine(nil).Evaluate(Inputs{ManualPrice: 3500, Investment: -5, Lower: 3000, Upper: 4000})
		inv, ok := out.(Invalid)
		require.True(t, ok)
		assert.ErrorIs(t, inv, ErrInvalidInvestment)
	})

	t.Run("negative bound is invalid", func(t *testing.T) {
		out := newTestEngine(nil).Evaluate(Inputs{ManualPrice: 3500, Investment: 1000, Lower: -1, Upper: 3000})
		inv, ok := out.(Invalid)
		require.True(t, ok)
		assert.ErrorIs(t, inv, ErrNonPositiveBound)
	})

	t.Run("oracle priced position", func(t *testing.T) {
		o := new(MockOracle)
		o.On("Price", "ethereum").Return(3500.0, true)
		o.On("Price", "usd-coin").Return(1.0, true)

		out := newTestEngine(o).Evaluate(Inputs{
			TokenA:       "ethereum",
			TokenB:       "usd-coin",
			Investment:   1000,
			Lower:        3000,
			Upper:        4000,
			FeeAPR:       20,
			DurationDays: 30,
			ExitPrice:    ptr(3200),
		})
		s, ok := out.(Success)
		require.True(t, ok, "got %T", out)

		pos := s.Position
		assert.Equal(t, 3500.0, pos.CurrentPrice)
		assert.InDelta(t, 1000, pos.ValueA+pos.ValueB, 1e-9)
		assert.InDelta(t, 1000*0.2/365*30, pos.Fees.TotalFee, 1e-9)
		require.NotNil(t, pos.Comparison)
		assert.Equal(t, 3200.0, pos.Comparison.ExitPrice)
		assert.True(t, pos.InRange())
		o.AssertExpectations(t)
	})

	t.Run("no exit price means no comparison", func(t *testing.T) {
		out := newTestEngine(nil).Evaluate(Inputs{ManualPrice: 2500, Investment: 1000, Lower: 3000, Upper: 4000})
		s, ok := out.(Success)
		require.True(t, ok)
		assert.Nil(t, s.Position.Comparison)
		assert.Equal(t, 0.0, s.Position.AmountB)
		assert.Equal(t, 0.4, s.Position.AmountA)
		assert.Empty(t, s.Position.Insights)
	})
	t.Run("zero oracle price waits", func(t *testing.T) {
		o := new(MockOracle)
		o.On("Price", "ethereum").Return(3500.0, true).Once()
		o.On("Price", "usd-coin").Return(0.0, true).Once()

		var out Outcome
		require.NotPanics(t, func() {
			out = newTestEngine(o).Evaluate(Inputs{TokenA: "ethereum", TokenB: "usd-coin", Investment: 1000, Lower: 3000, Upper: 4000})
		})
		w, ok := out.(Waiting)
		require.True(t, ok, "got %T", out)
		assert.Equal(t, []string{"price:usd-coin"}, w.Missing)
		o.AssertExpectations(t)
	})

	t.Run("infinite oracle price waits", func(t *testing.T) {
		o := new(MockOracle)
		o.On("Price", "ethereum").Return(math.Inf(1), true).Once()
		o.On("Price", "usd-coin").Return(1.0, true).Once()

		out := newTestEngine(o).Evaluate(Inputs{TokenA: "ethereum", TokenB: "usd-coin", Investment: 1000, Lower: 3000, Upper: 4000})
		w, ok := out.(Waiting)
		require.True(t, ok, "got %T", out)
		assert.Equal(t, []string{"price:ethereum"}, w.Missing)
	})

	t.Run("negative manual price is invalid", func(t *testing.T) {
		out := newTestEngine(nil).Evaluate(Inputs{ManualPrice: -3500, Investment: 1000, Lower: 3000, Upper: 4000})
		inv, ok := out.(Invalid)
		require.True(t, ok, "got %T", out)
		assert.ErrorIs(t, inv, ErrInvalidPrice)
	})

	t.Run("negative exit price is invalid", func(t *testing.T) {
		out := newTestEngine(nil).Evaluate(Inputs{ManualPrice: 3500, Investment: 1000, Lower: 3000, Upper: 4000, ExitPrice: ptr(-1)})
		inv, ok := out.(Invalid)
		require.True(t, ok, "got %T", out)
		assert.ErrorIs(t, inv, ErrInvalidExitPrice)
	})

	t.Run("extreme exit price stays finite", func(t *testing.T) {
		out := newTestEngine(nil).Evaluate(Inputs{
			ManualPrice:  3500,
			Investment:   1e10,
			Lower:        3000,
			Upper:        4000,
			FeeAPR:       20,
			DurationDays: 30,
			ExitPrice:    ptr(1e305),
		})
		s, ok := out.(Success)
		require.True(t, ok, "got %T", out)
		c := s.Position.Comparison
		require.NotNil(t, c)
		for name, v := range map[string]float64{
			"hodl":      c.HodlValue,
			"raw":       c.LPValueRaw,
			"withFees":  c.LPValueWithFees,
			"net":       c.NetResult,
			"netPct":    c.NetPercent,
			"il":        c.ImpermanentLossValue,
			"breakEven": c.BreakEvenDays,
		} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s = %v", name, v)
		}
		_, err := json.Marshal(Wrap(out))
		assert.NoError(t, err)
	})
}

func TestWrap(t *testing.T) {
	env := Wrap(Waiting{Missing: []string{"lower"}})
	assert.Equal(t, StatusWaiting, env.Status)
	assert.Equal(t, []string{"lower"}, env.Missing)
	assert.Nil(t, env.Data)

	env = Wrap(Invalid{Reason: "bad"})
	assert.Equal(t, StatusError, env.Status)
	assert.Equal(t, "bad", env.Message)

	env = Wrap(Success{Position: Position{CurrentPrice: 1}})
	require.NotNil(t, env.Data)
	assert.Equal(t, 1.0, env.Data.CurrentPrice)
}
