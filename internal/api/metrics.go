package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backtestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "strangle",
		Name:      "backtests_total",
		Help:      "Backtest requests by outcome.",
	}, []string{"status"})

	backtestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "strangle",
		Name:      "backtest_duration_seconds",
		Help:      "Wall time of backtest requests, data fetch included.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	tradesProduced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "strangle",
		Name:      "trades_produced_total",
		Help:      "Simulated trades across all successful backtests.",
	})
)

func observeBacktest(status string, d time.Duration) {
	backtestTotal.WithLabelValues(status).Inc()
	backtestDuration.Observe(d.Seconds())
}
