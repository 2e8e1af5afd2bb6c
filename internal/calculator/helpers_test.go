package calculator

import (
	"time"

	"MarketDash/internal/model"
)

var day0 = time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

// barsFromCloses builds one bar per trading day with a one-unit range around each close.
func barsFromCloses(closes ...float64) []model.PriceBar {
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = model.PriceBar{
			Time:   day0.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 0.5,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func rising(n int, start float64) []model.PriceBar {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)
	}
	return barsFromCloses(closes...)
}
