package data

import (
	"context"
	"errors"
	"sort"
	"time"
)

// ErrNoData is returned by providers when the requested ticker/range has no
// usable price history. The caller maps it to a "no data" outcome rather
// than a generic failure.
var ErrNoData = errors.New("no price data available")

// Provider supplies daily price history for an underlying.
type Provider interface {
	GetDailyBars(ctx context.Context, ticker string, from, to time.Time) ([]Bar, error)
}

// Bar is one session's observed prices for the underlying. Date carries no
// time component (UTC midnight). High >= Close >= Low whenever high/low are
// populated.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open,omitempty"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume,omitempty"`
}

// DateOnly truncates t to a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Normalize sorts bars ascending by date, truncates dates to UTC midnight
// and drops duplicate dates (last one wins, matching an adjusted feed that
// restates a session). Bars without a positive close are dropped.
func Normalize(bars []Bar) []Bar {
	byDate := make(map[time.Time]Bar, len(bars))
	for _, b := range bars {
		if b.Close <= 0 {
			continue
		}
		b.Date = DateOnly(b.Date)
		byDate[b.Date] = b
	}
	out := make([]Bar, 0, len(byDate))
	for _, b := range byDate {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Closes extracts the closing-price series in bar order.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
