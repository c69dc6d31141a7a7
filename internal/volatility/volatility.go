// Package volatility estimates annualized historical volatility from a daily
// closing-price series.
package volatility

import (
	"math"

	"github.com/contactkeval/strangle-replay/internal/data"
)

const (
	// TradingDaysPerYear is the annualization base for daily returns.
	TradingDaysPerYear = 252

	// DefaultWindow is the trailing number of daily returns per estimate.
	DefaultWindow = 30

	// FallbackVol is used when the series is too short to produce any
	// complete-window estimate.
	FallbackVol = 0.25
)

// Rolling computes the annualized rolling standard deviation of daily log
// returns. The result is aligned to the return series: element i corresponds
// to the return from closes[i] to closes[i+1], so its length is
// len(closes)-1. Positions with fewer than window prior returns are NaN.
func Rolling(closes []float64, window int) []float64 {
	if len(closes) < 2 {
		return nil
	}

	returns := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns[i-1] = math.Log(closes[i] / closes[i-1])
	}

	out := make([]float64, len(returns))
	for i := range out {
		if i+1 < window {
			out[i] = math.NaN()
			continue
		}
		out[i] = sampleStdDev(returns[i+1-window:i+1]) * math.Sqrt(TradingDaysPerYear)
	}
	return out
}

// Annotate returns one annualized volatility per bar, aligned to the input
// series. The volatility at bar t is the rolling estimate over the window
// returns ending at t. Bars whose window is incomplete (the first `window`
// bars, including bar 0 which has no return) receive the mean of all
// complete-window estimates. When no complete window exists anywhere in the
// series every bar receives FallbackVol. A zero mean is a valid estimate and
// is kept as-is.
func Annotate(bars []data.Bar, window int) []float64 {
	if window <= 0 {
		window = DefaultWindow
	}

	rolling := Rolling(data.Closes(bars), window)

	sum, n := 0.0, 0
	for _, v := range rolling {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	fill := FallbackVol
	if n > 0 {
		mean := sum / float64(n)
		if !math.IsNaN(mean) && !math.IsInf(mean, 0) {
			fill = mean
		}
	}

	out := make([]float64, len(bars))
	for i := range bars {
		// rolling[i-1] is the estimate for the return ending at bar i.
		if i >= 1 && !math.IsNaN(rolling[i-1]) {
			out[i] = rolling[i-1]
		} else {
			out[i] = fill
		}
	}
	return out
}

// sampleStdDev is the ddof=1 standard deviation, matching the estimator the
// legacy system used.
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	ss := 0.0
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
