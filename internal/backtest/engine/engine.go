// Package engine simulates a recurring short strangle over daily price
// history: one position per monthly expiration cycle, priced with
// Black-Scholes, marked to market each session for an early profit exit,
// and summarized into aggregate statistics.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/contactkeval/strangle-replay/internal/backtest/scheduler"
	"github.com/contactkeval/strangle-replay/internal/data"
	"github.com/contactkeval/strangle-replay/internal/logger"
	"github.com/contactkeval/strangle-replay/internal/pricing"
	"github.com/contactkeval/strangle-replay/internal/volatility"
)

// ErrNoValidTrades is returned when no monthly cycle in the supplied history
// could produce a trade. Callers treat it as a distinct outcome, not as an
// aggregate over an empty set.
var ErrNoValidTrades = errors.New("no valid trades in period")

// HoldingDayMode selects how a trade's holding duration is counted.
type HoldingDayMode string

const (
	// HoldingBusiness counts weekday sessions between open and close.
	HoldingBusiness HoldingDayMode = "business"
	// HoldingCalendar counts raw calendar days between open and close.
	HoldingCalendar HoldingDayMode = "calendar"
)

// DefaultRiskFreeRate is the annual rate applied when the config leaves it
// unset. The two legacy deployments disagreed (0.1075 vs 0.1475); the rate
// is configuration now, with the older constant as default.
const DefaultRiskFreeRate = 0.1075

// Config is the frozen parameter set for one backtest run.
type Config struct {
	Ticker         string         `json:"ticker"`
	DaysBefore     int            `json:"days_before"`      // sessions before expiration to open
	DistancePct    float64        `json:"distance_pct"`     // strike distance, percent of spot
	PremiumPct     float64        `json:"premium_pct"`      // target premium, percent of spot
	Contracts      int            `json:"num_contracts"`    // contracts per leg
	EarlyProfitPct float64        `json:"early_profit_pct"` // early-exit capture, percent of premium
	FridayOrdinal  int            `json:"friday_ordinal"`   // 1 or 3
	RiskFreeRate   float64        `json:"risk_free_rate,omitempty"`
	HoldingDays    HoldingDayMode `json:"holding_days,omitempty"`
	VolWindow      int            `json:"vol_window,omitempty"`
}

func (cfg Config) withDefaults() Config {
	if cfg.RiskFreeRate == 0 {
		cfg.RiskFreeRate = DefaultRiskFreeRate
	}
	if cfg.HoldingDays == "" {
		cfg.HoldingDays = HoldingBusiness
	}
	if cfg.VolWindow == 0 {
		cfg.VolWindow = volatility.DefaultWindow
	}
	if cfg.FridayOrdinal == 0 {
		cfg.FridayOrdinal = 3
	}
	return cfg
}

// Validate rejects parameter ranges the engine is not specified for.
func (cfg Config) Validate() error {
	switch {
	case cfg.DaysBefore <= 0:
		return fmt.Errorf("days_before must be positive")
	case cfg.DistancePct <= 0:
		return fmt.Errorf("distance_pct must be positive")
	case cfg.PremiumPct <= 0:
		return fmt.Errorf("premium_pct must be positive")
	case cfg.Contracts <= 0:
		return fmt.Errorf("num_contracts must be positive")
	case cfg.EarlyProfitPct <= 0 || cfg.EarlyProfitPct > 100:
		return fmt.Errorf("early_profit_pct must be in (0, 100]")
	case cfg.FridayOrdinal != 1 && cfg.FridayOrdinal != 3:
		return fmt.Errorf("friday_ordinal must be 1 or 3")
	}
	return nil
}

// Date is a calendar date that serializes as YYYY-MM-DD.
type Date struct{ time.Time }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Trade is one simulated strangle position for one expiration cycle. It is
// fully determined at creation and never mutated afterwards.
type Trade struct {
	OpenDate          Date    `json:"open_date"`
	CloseDate         Date    `json:"close_date"`
	OpeningPrice      float64 `json:"opening_price"`
	FinalPrice        float64 `json:"final_price"`
	UpperStrike       float64 `json:"upper_strike"`
	LowerStrike       float64 `json:"lower_strike"`
	PremiumPct        float64 `json:"premium_pct"`
	CallPremium       float64 `json:"call_premium"`
	PutPremium        float64 `json:"put_premium"`
	TotalPremium      float64 `json:"total_premium"`
	FinalCallValue    float64 `json:"final_call_value"`
	FinalPutValue     float64 `json:"final_put_value"`
	OptionCost        float64 `json:"option_cost"`
	Result            float64 `json:"trade_result"`
	ResultPct         float64 `json:"trade_result_pct"`
	Exceeded          bool    `json:"exceeded"`
	ExceededUpper     bool    `json:"exceeded_upper"`
	ExceededLower     bool    `json:"exceeded_lower"`
	ExceededBoth      bool    `json:"exceeded_both"`
	CloseWithin       bool    `json:"close_within"`
	EarlyExit         bool    `json:"early_exit"`
	DaysHeld          int     `json:"days_held"`
	InitialVolatility float64 `json:"initial_volatility"` // percent
}

// Report is the engine's output: the trade list in cycle order plus the
// aggregate summary. All fields are plain scalars.
type Report struct {
	Summary Summary `json:"summary"`
	Trades  []Trade `json:"trades"`
}

// Engine runs backtests against a price history supplier. One Engine may
// serve concurrent runs; each run's state is local to the call.
type Engine struct {
	cfg  Config
	prov data.Provider
}

func New(cfg Config, prov data.Provider) *Engine {
	return &Engine{cfg: cfg.withDefaults(), prov: prov}
}

// Run fetches `years` of daily history for the configured ticker and
// backtests it. Data unavailability surfaces as data.ErrNoData; a run with
// no viable cycle surfaces as ErrNoValidTrades.
func (e *Engine) Run(ctx context.Context, years int) (*Report, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -years*365)

	bars, err := e.prov.GetDailyBars(ctx, e.cfg.Ticker, start, end)
	if err != nil {
		return nil, err
	}
	return e.Backtest(bars)
}

// Backtest simulates the strategy over an already materialized series. Pure
// over its inputs: two calls with the same bars and config produce identical
// reports.
func (e *Engine) Backtest(bars []data.Bar) (*Report, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}

	bars = data.Normalize(bars)
	if len(bars) == 0 {
		return nil, ErrNoValidTrades
	}

	vols := volatility.Annotate(bars, e.cfg.VolWindow)

	dates := make([]time.Time, len(bars))
	index := make(map[time.Time]int, len(bars))
	for i, b := range bars {
		dates[i] = b.Date
		index[b.Date] = i
	}
	first, last := bars[0].Date, bars[len(bars)-1].Date

	logger.Infof(
		"backtest %s: %d sessions %s..%s",
		e.cfg.Ticker, len(bars),
		first.Format("2006-01-02"), last.Format("2006-01-02"),
	)

	var trades []Trade
	year, month := first.Year(), first.Month()
	for year < last.Year() || (year == last.Year() && month <= last.Month()) {
		if tr, ok := e.cycle(bars, vols, dates, index, year, month); ok {
			trades = append(trades, tr)
		}
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	if len(trades) == 0 {
		return nil, ErrNoValidTrades
	}

	summary, err := Summarize(trades)
	if err != nil {
		return nil, err
	}
	logger.Infof("backtest %s: %d trades, win rate %.1f%%", e.cfg.Ticker, len(trades), summary.WinRate)
	return &Report{Summary: summary, Trades: trades}, nil
}

// cycle simulates the expiration cycle of one calendar month. The second
// return is false when the month yields no trade; skipped months leave no
// trace in the report.
func (e *Engine) cycle(
	bars []data.Bar,
	vols []float64,
	dates []time.Time,
	index map[time.Time]int,
	year int,
	month time.Month,
) (Trade, bool) {

	cfg := e.cfg
	first, last := bars[0].Date, bars[len(bars)-1].Date

	expiration, ok := scheduler.NthFriday(year, month, cfg.FridayOrdinal)
	if !ok || expiration.Before(first) || expiration.After(last) {
		return Trade{}, false
	}

	// Holiday expirations roll back to the last traded session.
	if _, present := index[expiration]; !present {
		expiration, ok = scheduler.PriorSession(dates, expiration)
		if !ok {
			return Trade{}, false
		}
	}
	expIdx := index[expiration]

	openDate, ok := scheduler.OpenSession(dates, expiration, cfg.DaysBefore)
	if !ok {
		logger.Debugf("%d-%02d: fewer than %d sessions before expiration, skipped", year, month, cfg.DaysBefore)
		return Trade{}, false
	}
	openIdx := index[openDate]
	if openIdx+1 > expIdx {
		return Trade{}, false // no sessions to hold through
	}

	openPrice := bars[openIdx].Close
	upper := openPrice * (1 + cfg.DistancePct/100)
	lower := openPrice * (1 - cfg.DistancePct/100)
	openVol := vols[openIdx]
	contracts := float64(cfg.Contracts)

	daysToExpiry := calendarDays(openDate, expiration)
	tInitial := float64(daysToExpiry) / 365.0

	callBS := pricing.BlackScholes(true, openPrice, upper, tInitial, cfg.RiskFreeRate, openVol)
	putBS := pricing.BlackScholes(false, openPrice, lower, tInitial, cfg.RiskFreeRate, openVol)

	// Scale raw model premiums so the combined credit matches the target
	// percent of spot exactly. A zero raw total (dead-flat market) keeps
	// factor 1.0.
	desired := openPrice * cfg.PremiumPct / 100
	adjustment := 1.0
	if raw := callBS + putBS; raw > 0 {
		adjustment = (desired * 2) / raw
	}
	callPremium := callBS * adjustment
	putPremium := putBS * adjustment
	totalPremium := (callPremium + putPremium) * contracts

	// Walk the holding period for the first session hitting the profit
	// target.
	target := totalPremium * cfg.EarlyProfitPct / 100
	earlyExit := false
	closeIdx := expIdx
	var callValue, putValue float64

	for j := openIdx + 1; j <= expIdx; j++ {
		cur := bars[j]
		tRemaining := float64(calendarDays(cur.Date, expiration)) / 365.0
		cv := pricing.BlackScholes(true, cur.Close, upper, tRemaining, cfg.RiskFreeRate, vols[j]) * adjustment
		pv := pricing.BlackScholes(false, cur.Close, lower, tRemaining, cfg.RiskFreeRate, vols[j]) * adjustment
		profit := totalPremium - (cv+pv)*contracts

		if profit >= target {
			earlyExit = true
			closeIdx = j
			callValue, putValue = cv, pv
			logger.Debugf(
				"%d-%02d: early exit on %s profit=%.2f target=%.2f",
				year, month, cur.Date.Format("2006-01-02"), profit, target,
			)
			break
		}
	}

	closeDate := bars[closeIdx].Date
	finalPrice := bars[closeIdx].Close
	if !earlyExit {
		// Held to expiration: legs settle at intrinsic value.
		callValue = pricing.Intrinsic(true, finalPrice, upper)
		putValue = pricing.Intrinsic(false, finalPrice, lower)
	}
	optionCost := (callValue + putValue) * contracts
	result := totalPremium - optionCost

	maxPrice, minPrice := observedRange(bars[openIdx+1 : closeIdx+1])
	exceededUpper := maxPrice > upper
	exceededLower := minPrice < lower

	daysHeld := scheduler.BusinessDaysBetween(openDate, closeDate)
	if cfg.HoldingDays == HoldingCalendar {
		daysHeld = calendarDays(openDate, closeDate)
	}

	resultPct := 0.0
	if totalPremium != 0 {
		resultPct = result / totalPremium * 100
	}

	return Trade{
		OpenDate:          Date{openDate},
		CloseDate:         Date{closeDate},
		OpeningPrice:      openPrice,
		FinalPrice:        finalPrice,
		UpperStrike:       upper,
		LowerStrike:       lower,
		PremiumPct:        cfg.PremiumPct,
		CallPremium:       callPremium,
		PutPremium:        putPremium,
		TotalPremium:      totalPremium,
		FinalCallValue:    callValue * contracts,
		FinalPutValue:     putValue * contracts,
		OptionCost:        optionCost,
		Result:            result,
		ResultPct:         resultPct,
		Exceeded:          exceededUpper || exceededLower,
		ExceededUpper:     exceededUpper,
		ExceededLower:     exceededLower,
		ExceededBoth:      exceededUpper && exceededLower,
		CloseWithin:       lower <= finalPrice && finalPrice <= upper,
		EarlyExit:         earlyExit,
		DaysHeld:          daysHeld,
		InitialVolatility: openVol * 100,
	}, true
}

// observedRange returns the highest high and lowest low across the bars,
// falling back to the close for bars without high/low columns.
func observedRange(bars []data.Bar) (maxPrice, minPrice float64) {
	maxPrice = math.Inf(-1)
	minPrice = math.Inf(1)
	for _, b := range bars {
		hi, lo := b.High, b.Low
		if hi <= 0 {
			hi = b.Close
		}
		if lo <= 0 {
			lo = b.Close
		}
		maxPrice = math.Max(maxPrice, hi)
		minPrice = math.Min(minPrice, lo)
	}
	return maxPrice, minPrice
}

// calendarDays counts whole days between two UTC midnights.
func calendarDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
