package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"MarketDash/internal/calculator"
	"MarketDash/internal/model"
	"MarketDash/internal/recorder"
	"MarketDash/internal/store"
	"MarketDash/internal/strategy"
)

// StocksHandler serves the latest snapshots and derived views of them.
type StocksHandler struct {
	Store    store.Store
	Recorder recorder.Recorder
	Log      zerolog.Logger
}

func NewStocksHandler(st store.Store, rec recorder.Recorder, log zerolog.Logger) *StocksHandler {
	return &StocksHandler{Store: st, Recorder: rec, Log: log.With().Str("component", "api").Logger()}
}

func (h *StocksHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/stocks")
	g.GET("", h.List)
	g.GET("/:symbol", h.Get)
	g.GET("/:symbol/bars", h.Bars)
	g.GET("/:symbol/indicators", h.Indicators)
	g.GET("/:symbol/history", h.History)
}

// IndicatorsResponse is a recomputation over the cached bars.
type IndicatorsResponse struct {
	Symbol     string                 `json:"symbol"`
	Interval   model.Interval         `json:"interval"`
	Bars       int                    `json:"bars"`
	Params     calculator.Params      `json:"params"`
	Indicators *model.IndicatorResult `json:"indicators"`
	Assessment *model.Assessment      `json:"assessment"`
}

// List returns every symbol that has a successful snapshot.
func (h *StocksHandler) List(c echo.Context) error {
	entries, err := h.Store.List(c.Request().Context())
	if err != nil {
		h.Log.Error().Err(err).Msg("list entries")
		return ErrorResponse(c, err)
	}
	snaps := make([]*model.StockSnapshot, 0, len(entries))
	for _, e := range entries {
		if e.Snapshot != nil {
			snaps = append(snaps, e.Snapshot)
		}
	}
	return SuccessResponse(c, snaps)
}

// Get returns the entry of one symbol including its last refresh error.
func (h *StocksHandler) Get(c echo.Context) error {
	e, err := h.Store.Get(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return h.fail(c, err)
	}
	return SuccessResponse(c, e)
}

// Bars returns the cached bars resampled to the requested interval.
func (h *StocksHandler) Bars(c echo.Context) error {
	req := &BarsRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}
	snap, err := h.snapshot(c, req.Symbol)
	if err != nil {
		return h.fail(c, err)
	}
	interval, err := calculator.ParseInterval(req.Interval)
	if err != nil {
		return ErrorResponse(c, err)
	}
	bars, err := calculator.AggregateBars(snap.Bars, interval)
	if err != nil {
		return h.fail(c, err)
	}
	return SuccessResponse(c, model.BarSeries{Symbol: snap.Symbol, Bars: bars})
}

// Indicators recomputes indicators over the cached bars with caller-chosen periods.
func (h *StocksHandler) Indicators(c echo.Context) error {
	req := &IndicatorsRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}
	snap, err := h.snapshot(c, req.Symbol)
	if err != nil {
		return h.fail(c, err)
	}
	interval, err := calculator.ParseInterval(req.Interval)
	if err != nil {
		return ErrorResponse(c, err)
	}
	bars, err := calculator.AggregateBars(snap.Bars, interval)
	if err != nil {
		return h.fail(c, err)
	}

	params := calculator.Params{SMAPeriods: req.SMA, RSIPeriod: req.RSI, MACDFast: req.Fast, MACDSlow: req.Slow}
	ind, err := calculator.Compute(bars, params)
	if err != nil {
		return h.fail(c, err)
	}
	return SuccessResponse(c, IndicatorsResponse{
		Symbol:     snap.Symbol,
		Interval:   interval,
		Bars:       len(bars),
		Params:     params,
		Indicators: ind,
		Assessment: strategy.Evaluate(ind),
	})
}

// History returns recorded indicator snapshots, newest first.
func (h *StocksHandler) History(c echo.Context) error {
	req := &HistoryRequest{}
	if verr := ReadAndValidateRequest(c, req); verr != nil {
		return BadRequestResponse(c, verr)
	}
	rows, err := h.Recorder.RecentSnapshots(normalize(req.Symbol), req.Limit)
	if err != nil {
		return h.fail(c, err)
	}
	if rows == nil {
		rows = []recorder.SnapshotRow{}
	}
	return SuccessResponse(c, rows)
}

func (h *StocksHandler) snapshot(c echo.Context, symbol string) (*model.StockSnapshot, error) {
	e, err := h.Store.Get(c.Request().Context(), symbol)
	if err != nil {
		return nil, err
	}
	if e.Snapshot == nil {
		return nil, fmt.Errorf("%s has no successful refresh yet: %w", e.Symbol, store.ErrNotFound)
	}
	return e.Snapshot, nil
}

func (h *StocksHandler) fail(c echo.Context, err error) error {
	if !errors.Is(err, store.ErrNotFound) {
		h.Log.Error().Err(err).Str("path", c.Path()).Str("symbol", c.Param("symbol")).Msg("request failed")
	}
	return ErrorResponse(c, err)
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
