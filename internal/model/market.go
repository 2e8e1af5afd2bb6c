package model

import "time"

// PriceBar represents a single OHLCV candlestick bar.
type PriceBar struct {
	Time   time.Time `json:"t"`
	Open   float64   `json:"o"`
	High   float64   `json:"h"`
	Low    float64   `json:"l"`
	Close  float64   `json:"c"`
	Volume int64     `json:"v"`
}

// BarSeries holds the bars of one instrument, ascending by time.
type BarSeries struct {
	Symbol string     `json:"symbol"`
	Bars   []PriceBar `json:"bars"`
}

// Len returns the number of bars in the series.
func (s *BarSeries) Len() int { return len(s.Bars) }

// First returns the oldest bar. The series must not be empty.
func (s *BarSeries) First() PriceBar { return s.Bars[0] }

// Last returns the newest bar. The series must not be empty.
func (s *BarSeries) Last() PriceBar { return s.Bars[len(s.Bars)-1] }

// Closes extracts the close prices in order.
func Closes(bars []PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Interval is the bucket width used when resampling bars.
type Interval string

const (
	IntervalDay   Interval = "day"
	IntervalWeek  Interval = "week"
	IntervalMonth Interval = "month"
)
