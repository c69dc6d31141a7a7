package api

import (
	"github.com/contactkeval/strangle-replay/internal/backtest/engine"
)

// BacktestRequest is the POST /backtest payload. Omitted fields take the
// documented strategy defaults.
type BacktestRequest struct {
	Ticker         string  `json:"ticker" validate:"required,min=1,max=12"`
	Years          int     `json:"years" validate:"required,gte=1,lte=5"`
	DaysBefore     int     `json:"days_before" default:"5" validate:"gte=1,lte=30"`
	DistancePct    float64 `json:"distance_pct" default:"5" validate:"gt=0,lte=50"`
	PremiumPct     float64 `json:"premium_pct" default:"0.65" validate:"gt=0,lte=20"`
	Contracts      int     `json:"num_contracts" default:"200" validate:"gte=1"`
	EarlyProfitPct float64 `json:"early_profit_pct" default:"60" validate:"gt=0,lte=100"`
	FridayOrdinal  int     `json:"friday_ordinal" default:"3" validate:"oneof=1 3"`
}

// EngineConfig converts the request into an engine parameter set. Service
// level knobs (rate, holding-day metric, window) come from configuration,
// not from the request.
func (r BacktestRequest) EngineConfig(riskFreeRate float64, holdingDays engine.HoldingDayMode, volWindow int) engine.Config {
	return engine.Config{
		Ticker:         r.Ticker,
		DaysBefore:     r.DaysBefore,
		DistancePct:    r.DistancePct,
		PremiumPct:     r.PremiumPct,
		Contracts:      r.Contracts,
		EarlyProfitPct: r.EarlyProfitPct,
		FridayOrdinal:  r.FridayOrdinal,
		RiskFreeRate:   riskFreeRate,
		HoldingDays:    holdingDays,
		VolWindow:      volWindow,
	}
}

// APIResponse represents standard API response.
type APIResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError represents one failed request field.
type ValidationError struct {
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}
