package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	d1 := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	bars := []Bar{
		{Date: d2, Close: 101},
		{Date: d1.Add(14 * time.Hour), Close: 99}, // intraday timestamp
		{Date: d2, Close: 102},                    // restated session, last wins
		{Date: d1, Close: 0},                      // dropped
	}

	got := Normalize(bars)
	require.Len(t, got, 2)
	assert.Equal(t, d1, got[0].Date)
	assert.Equal(t, 99.0, got[0].Close)
	assert.Equal(t, d2, got[1].Date)
	assert.Equal(t, 102.0, got[1].Close)
}

func TestClosesOrder(t *testing.T) {
	bars := []Bar{{Close: 1}, {Close: 2}, {Close: 3}}
	assert.Equal(t, []float64{1, 2, 3}, Closes(bars))
}

func TestSyntheticDeterministic(t *testing.T) {
	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC)

	a, err := NewSyntheticProvider(7).GetDailyBars(context.Background(), "X", from, to)
	require.NoError(t, err)
	b, err := NewSyntheticProvider(7).GetDailyBars(context.Background(), "X", from, to)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := NewSyntheticProvider(8).GetDailyBars(context.Background(), "X", from, to)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSyntheticWeekdaysOnly(t *testing.T) {
	from := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)

	bars, err := NewSyntheticProvider(1).GetDailyBars(context.Background(), "X", from, to)
	require.NoError(t, err)
	require.NotEmpty(t, bars)
	for _, b := range bars {
		wd := b.Date.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}
	// January 2023 had 22 weekdays.
	assert.Len(t, bars, 22)
}

func TestFlatProvider(t *testing.T) {
	bars, err := NewFlatProvider(40).GetDailyBars(context.Background(), "X",
		time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	for _, b := range bars {
		assert.Equal(t, 40.0, b.Close)
		assert.Equal(t, 40.0, b.High)
		assert.Equal(t, 40.0, b.Low)
	}
}

func TestSyntheticEmptyRange(t *testing.T) {
	// A weekend-only range yields no sessions.
	_, err := NewSyntheticProvider(1).GetDailyBars(context.Background(), "X",
		time.Date(2023, 6, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 6, 4, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNoData)
}
