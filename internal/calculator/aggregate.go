package calculator

import (
	"fmt"
	"strings"

	"MarketDash/internal/model"
)

// ParseInterval maps user input such as "week" or "1mo" to an Interval.
func ParseInterval(s string) (model.Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "day", "daily", "1d":
		return model.IntervalDay, nil
	case "week", "weekly", "1w", "1wk":
		return model.IntervalWeek, nil
	case "month", "monthly", "1mo", "1m":
		return model.IntervalMonth, nil
	}
	return "", fmt.Errorf("interval %q: %w", s, ErrInvalidArgument)
}

type bucketKey struct {
	year   int
	period int
}

func keyFor(b model.PriceBar, interval model.Interval) bucketKey {
	switch interval {
	case model.IntervalWeek:
		// ISO year, so the last days of December can share a bucket with early January.
		y, w := b.Time.ISOWeek()
		return bucketKey{year: y, period: w}
	case model.IntervalMonth:
		return bucketKey{year: b.Time.Year(), period: int(b.Time.Month())}
	default:
		return bucketKey{year: b.Time.Year(), period: b.Time.YearDay()}
	}
}

// AggregateBars folds ascending bars into week or month buckets.
// Each bucket keeps the first bar's open and time, the last bar's close,
// the extreme high and low, and the summed volume. Buckets are returned in
// the order their keys were first seen.
func AggregateBars(bars []model.PriceBar, interval model.Interval) ([]model.PriceBar, error) {
	switch interval {
	case model.IntervalDay, model.IntervalWeek, model.IntervalMonth:
	default:
		return nil, fmt.Errorf("interval %q: %w", interval, ErrInvalidArgument)
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return nil, fmt.Errorf("bar %d not after bar %d: %w", i, i-1, ErrInvalidArgument)
		}
	}
	if interval == model.IntervalDay {
		out := make([]model.PriceBar, len(bars))
		copy(out, bars)
		return out, nil
	}

	var out []model.PriceBar
	index := make(map[bucketKey]int)
	for _, b := range bars {
		k := keyFor(b, interval)
		i, ok := index[k]
		if !ok {
			index[k] = len(out)
			out = append(out, b)
			continue
		}
		bucket := &out[i]
		if b.High > bucket.High {
			bucket.High = b.High
		}
		if b.Low < bucket.Low {
			bucket.Low = b.Low
		}
		bucket.Close = b.Close
		bucket.Volume += b.Volume
	}
	return out, nil
}
