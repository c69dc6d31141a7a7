package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil)
	assert.ErrorIs(t, err, ErrNoValidTrades)
}

func TestSummarizeCounts(t *testing.T) {
	trades := []Trade{
		// Clean winner, band never touched.
		{Result: 300, ResultPct: 30, CloseWithin: true, EarlyExit: true, DaysHeld: 2},
		// Upper breach, closed outside, loser.
		{Result: -150, ResultPct: -15, Exceeded: true, ExceededUpper: true, DaysHeld: 5},
		// Breached both sides intraday but recovered into the band.
		{Result: 100, ResultPct: 10, Exceeded: true, ExceededUpper: true, ExceededLower: true,
			ExceededBoth: true, CloseWithin: true, DaysHeld: 5},
	}

	s, err := Summarize(trades)
	require.NoError(t, err)

	assert.Equal(t, 3, s.TotalTrades)
	assert.Equal(t, s.TotalTrades, s.NeverExceeded+s.Exceeded)
	assert.Equal(t, 1, s.NeverExceeded)
	assert.Equal(t, 2, s.Exceeded)
	assert.InDelta(t, 100.0/3, s.NeverExceededPct, 1e-9)
	assert.InDelta(t, 200.0/3, s.ExceededPct, 1e-9)

	// Conditional populations: within-rate over breached trades, both-sides
	// rate over recovered ones.
	assert.Equal(t, 1, s.ExceededWithin)
	assert.InDelta(t, 50.0, s.ExceededWithinPct, 1e-9)
	assert.Equal(t, 1, s.ExceededBothWithin)
	assert.InDelta(t, 100.0, s.ExceededBothPct, 1e-9)

	assert.Equal(t, 1, s.ExceededUpperOnly)
	assert.Equal(t, 0, s.ExceededLowerOnly)
	assert.Equal(t, 1, s.ExceededBothSides)

	assert.Equal(t, 2, s.ClosedWithin)
	assert.Equal(t, 1, s.ClosedOutside)
	assert.Equal(t, 1, s.EarlyExits)
	assert.InDelta(t, 4.0, s.AvgDaysHeld, 1e-9)

	assert.InDelta(t, 250.0, s.TotalResult, 1e-9)
	assert.InDelta(t, 250.0/3, s.AvgResult, 1e-9)
	assert.InDelta(t, 25.0/3, s.AvgResultPct, 1e-9)

	assert.Equal(t, 2, s.ProfitableTrades)
	assert.Equal(t, 1, s.LosingTrades)
	assert.InDelta(t, 200.0/3, s.WinRate, 1e-9)
	assert.InDelta(t, 200.0, s.AvgWin, 1e-9)
	assert.InDelta(t, -150.0, s.AvgLoss, 1e-9)
	assert.InDelta(t, 200.0/150.0, s.RiskReward, 1e-9)
	assert.False(t, s.RiskRewardInfinite)
}

func TestSummarizeAllWinners(t *testing.T) {
	trades := []Trade{
		{Result: 100, ResultPct: 10, CloseWithin: true, DaysHeld: 3},
		{Result: 50, ResultPct: 5, CloseWithin: true, DaysHeld: 4},
	}
	s, err := Summarize(trades)
	require.NoError(t, err)

	assert.Equal(t, 100.0, s.WinRate)
	assert.Zero(t, s.AvgLoss)
	assert.Zero(t, s.RiskReward)
	assert.True(t, s.RiskRewardInfinite)
}

func TestSummarizeFlatTradeCountsAsLoss(t *testing.T) {
	s, err := Summarize([]Trade{{Result: 0, CloseWithin: true}})
	require.NoError(t, err)

	assert.Equal(t, 0, s.ProfitableTrades)
	assert.Equal(t, 1, s.LosingTrades)
	assert.Zero(t, s.WinRate)
	// Break-even trades count as losses but lose no money, so the mean
	// loss is exactly zero and the ratio is still unbounded.
	assert.Zero(t, s.AvgLoss)
	assert.Zero(t, s.RiskReward)
	assert.True(t, s.RiskRewardInfinite)
}

func TestSummarizeRateBounds(t *testing.T) {
	trades := []Trade{
		{Result: 10}, {Result: -10}, {Result: 5, Exceeded: true, ExceededLower: true},
		{Result: -5, CloseWithin: true, EarlyExit: true},
	}
	s, err := Summarize(trades)
	require.NoError(t, err)

	for name, pct := range map[string]float64{
		"never_exceeded_pct": s.NeverExceededPct,
		"exceeded_pct":       s.ExceededPct,
		"closed_within_pct":  s.ClosedWithinPct,
		"closed_outside_pct": s.ClosedOutsidePct,
		"early_exits_pct":    s.EarlyExitsPct,
		"win_rate":           s.WinRate,
	} {
		assert.GreaterOrEqual(t, pct, 0.0, name)
		assert.LessOrEqual(t, pct, 100.0, name)
	}
	assert.InDelta(t, 100.0, s.ClosedWithinPct+s.ClosedOutsidePct, 1e-9)
}
