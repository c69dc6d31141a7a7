// Package data provides market data provider implementations.
//
// This file contains a Yahoo Finance backed Provider that retrieves daily
// OHLC history via the public v8 chart API.
//
// Design notes:
//   - Uses resty for HTTP with a shared rate limiter (Yahoo throttles
//     aggressively on burst traffic)
//   - Tickers without an exchange suffix default to the B3 exchange (".SA"),
//     matching the deployment this service replaced
//   - Logging is intentionally verbose at Debug/Trace levels for diagnostics
package data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/contactkeval/strangle-replay/internal/logger"
)

// yahooDataProvider implements Provider using the Yahoo Finance chart API.
type yahooDataProvider struct {
	client  *resty.Client
	limiter *rate.Limiter
}

// yahooChartResp models the subset of the v8 chart response we consume.
type yahooChartResp struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// NewYahooDataProvider constructs a Yahoo-backed daily bar provider.
func NewYahooDataProvider() Provider {
	client := resty.New().
		SetBaseURL("https://query1.finance.yahoo.com").
		SetTimeout(30 * time.Second).
		SetHeader("User-Agent", "strangle-replay/1.0").
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err == nil && r.StatusCode() == 429
		})

	return &yahooDataProvider{
		client: client,
		// Yahoo tolerates roughly 2 req/s sustained from one address.
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
	}
}

// NormalizeTicker appends the B3 suffix when the symbol carries no exchange
// qualifier, so "PETR4" resolves the same way the legacy deployment did.
func NormalizeTicker(ticker string) string {
	up := strings.ToUpper(strings.TrimSpace(ticker))
	if strings.Contains(up, ".") {
		return up
	}
	return up + ".SA"
}

func (yahooDataProv *yahooDataProvider) GetDailyBars(
	ctx context.Context,
	ticker string,
	from, to time.Time,
) ([]Bar, error) {

	symbol := NormalizeTicker(ticker)
	logger.Debugf(
		"fetching bars: %s from=%s to=%s",
		symbol,
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
	)

	if err := yahooDataProv.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var body yahooChartResp
	resp, err := yahooDataProv.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"period1":  fmt.Sprintf("%d", from.Unix()),
			"period2":  fmt.Sprintf("%d", to.Unix()),
			"interval": "1d",
			"events":   "div,split",
		}).
		SetResult(&body).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		return nil, fmt.Errorf("yahoo chart request: %w", err)
	}
	if resp.StatusCode() == 404 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("yahoo chart status %d for %s", resp.StatusCode(), symbol)
	}
	if body.Chart.Error != nil {
		logger.Errorf("yahoo chart API error code=%s", body.Chart.Error.Code)
		return nil, fmt.Errorf("%w: %s (%s)", ErrNoData, symbol, body.Chart.Error.Code)
	}
	if len(body.Chart.Result) == 0 || len(body.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}

	res := body.Chart.Result[0]
	quote := res.Indicators.Quote[0]
	// Prefer split/dividend adjusted closes when the feed carries them.
	closes := quote.Close
	if len(res.Indicators.AdjClose) > 0 && len(res.Indicators.AdjClose[0].AdjClose) == len(res.Timestamp) {
		closes = res.Indicators.AdjClose[0].AdjClose
	}

	out := make([]Bar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(closes) || closes[i] <= 0 {
			continue // Yahoo emits null entries for halted sessions
		}
		b := Bar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: closes[i],
		}
		if i < len(quote.Open) {
			b.Open = quote.Open[i]
		}
		if i < len(quote.High) {
			b.High = quote.High[i]
		}
		if i < len(quote.Low) {
			b.Low = quote.Low[i]
		}
		if i < len(quote.Volume) {
			b.Volume = quote.Volume[i]
		}
		out = append(out, b)
	}

	logger.Tracef("bars received: %d records for %s", len(out), symbol)
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}
	return Normalize(out), nil
}
