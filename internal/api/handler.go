// Package api exposes the backtest engine over HTTP.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/contactkeval/strangle-replay/internal/backtest/engine"
	"github.com/contactkeval/strangle-replay/internal/config"
	"github.com/contactkeval/strangle-replay/internal/data"
	"github.com/contactkeval/strangle-replay/internal/logger"
)

var validate = validator.New()

// Handler serves the backtest routes. It holds no per-request state.
type Handler struct {
	cfg  *config.Config
	prov data.Provider
}

func NewHandler(cfg *config.Config, prov data.Provider) *Handler {
	return &Handler{cfg: cfg, prov: prov}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	e.POST("/backtest", h.Backtest)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Backtest runs one simulation synchronously and returns the full report.
func (h *Handler) Backtest(c echo.Context) error {
	start := time.Now()

	var req BacktestRequest
	if err := c.Bind(&req); err != nil {
		observeBacktest("bad_request", time.Since(start))
		return respond(c, http.StatusBadRequest, []ValidationError{{
			Code:    "ERR_MALFORMED",
			Message: fmt.Sprintf("%v", err),
		}})
	}
	if err := defaults.Set(&req); err != nil {
		observeBacktest("error", time.Since(start))
		return respond(c, http.StatusInternalServerError, err.Error())
	}
	if err := validate.StructCtx(c.Request().Context(), &req); err != nil {
		observeBacktest("invalid", time.Since(start))
		return respond(c, http.StatusUnprocessableEntity, validationErrors(err))
	}

	eng := engine.New(
		req.EngineConfig(
			h.cfg.Backtest.RiskFreeRate,
			engine.HoldingDayMode(h.cfg.Backtest.HoldingDays),
			h.cfg.Backtest.VolWindow,
		),
		h.prov,
	)

	rep, err := eng.Run(c.Request().Context(), req.Years)
	switch {
	case errors.Is(err, data.ErrNoData):
		observeBacktest("no_data", time.Since(start))
		return respond(c, http.StatusNotFound,
			fmt.Sprintf("no price data for ticker %q", req.Ticker))
	case errors.Is(err, engine.ErrNoValidTrades):
		observeBacktest("no_trades", time.Since(start))
		return respond(c, http.StatusUnprocessableEntity,
			"no valid trades could be generated for the requested period")
	case err != nil:
		observeBacktest("error", time.Since(start))
		logger.Errorf("backtest %s: %v", req.Ticker, err)
		return respond(c, http.StatusInternalServerError, "backtest failed")
	}

	observeBacktest("ok", time.Since(start))
	tradesProduced.Add(float64(len(rep.Trades)))
	return respond(c, http.StatusOK, rep)
}

func respond(c echo.Context, status int, payload interface{}) error {
	return c.JSON(status, APIResponse{
		Status:  status,
		Message: http.StatusText(status),
		Data:    payload,
	})
}

func validationErrors(err error) []ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Code: "ERR_UNKNOWN", Message: err.Error()}}
	}
	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Code:    "ERR_" + strings.ToUpper(fe.Tag()),
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
