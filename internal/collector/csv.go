package collector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"MarketDash/internal/model"
)

// csvBar is one row of a <SYMBOL>.csv file.
type csvBar struct {
	Date   string  `csv:"date"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume int64   `csv:"volume"`
}

var csvDateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

func parseCSVDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// CSVFetcher reads daily bars from <Dir>/<SYMBOL>.csv files with a
// date,open,high,low,close,volume header. The look-back window is measured
// from the newest row, so archived files stay usable.
type CSVFetcher struct {
	Dir string
}

// NewCSVFetcher creates a fetcher rooted at dir.
func NewCSVFetcher(dir string) *CSVFetcher {
	return &CSVFetcher{Dir: dir}
}

func (f *CSVFetcher) Name() string { return "csv" }

func (f *CSVFetcher) FetchDailyBars(_ context.Context, symbol string, days int) ([]model.PriceBar, error) {
	path := filepath.Join(f.Dir, strings.ToUpper(symbol)+".csv")
	bars, err := ReadCSVBars(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("csv %s: %w", symbol, ErrNoData)
	}
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("csv %s: %w", symbol, ErrNoData)
	}
	if days > 0 {
		cutoff := bars[len(bars)-1].Time.AddDate(0, 0, -days)
		start := sort.Search(len(bars), func(i int) bool { return bars[i].Time.After(cutoff) })
		bars = bars[start:]
	}
	return bars, nil
}

// ReadCSVBars loads every row of path, sorted ascending by date.
func ReadCSVBars(path string) ([]model.PriceBar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rows []*csvBar
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	bars := make([]model.PriceBar, 0, len(rows))
	for i, r := range rows {
		ts, err := parseCSVDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		bars = append(bars, model.PriceBar{
			Time:   ts,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
