package collector

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog"

	"MarketDash/internal/calculator"
	"MarketDash/internal/model"
	"MarketDash/internal/strategy"
)

// RecentWindow is the number of trailing bars behind High30/Low30.
const RecentWindow = 30

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher      Fetcher
	Universe     map[string]model.StockInfo
	Params       calculator.Params
	LookbackDays int
	Log          zerolog.Logger
	Now          func() time.Time
}

// NewCollector creates a new Collector for the given watch list.
func NewCollector(fetcher Fetcher, symbols []model.StockInfo, params calculator.Params, lookbackDays int, log zerolog.Logger) *Collector {
	universe := make(map[string]model.StockInfo, len(symbols))
	for _, s := range symbols {
		universe[strings.ToUpper(s.Symbol)] = s
	}
	return &Collector{
		Fetcher:      fetcher,
		Universe:     universe,
		Params:       params,
		LookbackDays: lookbackDays,
		Log:          log.With().Str("component", "collector").Str("source", fetcher.Name()).Logger(),
		Now:          time.Now,
	}
}

// Info returns the reference data for symbol, falling back to a bare entry.
func (c *Collector) Info(symbol string) model.StockInfo {
	symbol = strings.ToUpper(symbol)
	if info, ok := c.Universe[symbol]; ok {
		return info
	}
	return model.StockInfo{Symbol: symbol, Name: symbol, Sector: "N/A"}
}

// Collect fetches bars for symbol and computes its snapshot.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.StockSnapshot, error) {
	info := c.Info(symbol)
	bars, err := c.Fetcher.FetchDailyBars(ctx, info.Symbol, c.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch daily bars %s: %w", info.Symbol, ErrNoData)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	snap, err := BuildSnapshot(info, bars, c.Params)
	if err != nil {
		return nil, fmt.Errorf("compute %s: %w", info.Symbol, err)
	}
	snap.Source = c.Fetcher.Name()
	snap.FetchedAt = c.Now().UTC()
	c.Log.Debug().Str("symbol", info.Symbol).Int("bars", len(bars)).Str("signal", string(snap.Indicators.Signal)).Msg("collected")
	return snap, nil
}

// Result is the outcome of collecting one symbol.
type Result struct {
	Symbol   string
	Snapshot *model.StockSnapshot
	Err      error
}

// CollectAll collects every symbol concurrently. Results keep the order of symbols.
func (c *Collector) CollectAll(ctx context.Context, symbols []string) []Result {
	results := make([]Result, len(symbols))
	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			snap, err := c.Collect(ctx, sym)
			results[i] = Result{Symbol: strings.ToUpper(sym), Snapshot: snap, Err: err}
		}(i, sym)
	}
	wg.Wait()
	return results
}

// BuildSnapshot validates ascending bars and derives the dashboard snapshot from them.
func BuildSnapshot(info model.StockInfo, bars []model.PriceBar, params calculator.Params) (*model.StockSnapshot, error) {
	ind, err := calculator.Compute(bars, params)
	if err != nil {
		return nil, err
	}

	first, latest := bars[0], bars[len(bars)-1]
	high30, low30, err := calculator.CalculateCloseRange(bars, RecentWindow)
	if err != nil {
		return nil, err
	}
	avg, err := stats.Mean(model.Closes(bars))
	if err != nil {
		return nil, fmt.Errorf("average close: %w", err)
	}
	var totalVolume int64
	for _, b := range bars {
		totalVolume += b.Volume
	}

	change := latest.Close - latest.Open
	return &model.StockSnapshot{
		StockInfo:     info,
		Price:         latest.Close,
		Change:        change,
		ChangePercent: change / latest.Open * 100,
		Volume:        latest.Volume,
		High30:        high30,
		Low30:         low30,
		AvgPrice:      avg,
		TotalVolume:   totalVolume,
		StartDate:     first.Time,
		EndDate:       latest.Time,
		Indicators:    ind,
		Assessment:    strategy.Evaluate(ind),
		Bars:          bars,
	}, nil
}
