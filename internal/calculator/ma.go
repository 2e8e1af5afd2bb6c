package calculator

import (
	"fmt"

	"MarketDash/internal/model"
)

// Defaults used by the dashboard.
const (
	DefaultSMAShort = 20
	DefaultSMALong  = 50
	DefaultMACDFast = 12
	DefaultMACDSlow = 26
)

// CalculateSMA computes the simple moving average of the last period closes.
// Returns 0 with ErrInsufficientData when fewer than period bars are supplied.
func CalculateSMA(bars []model.PriceBar, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("sma period %d: %w", period, ErrInvalidArgument)
	}
	if len(bars) < period {
		return 0, fmt.Errorf("sma(%d) over %d bars: %w", period, len(bars), ErrInsufficientData)
	}
	sum := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		sum += bars[i].Close
	}
	return sum / float64(period), nil
}

// CalculateEMA returns the final exponential moving average of closes.
// The seed is the simple mean of the first period closes; each remaining close is folded in
// with k = 2/(period+1).
func CalculateEMA(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("ema period %d: %w", period, ErrInvalidArgument)
	}
	if len(closes) < period {
		return 0, fmt.Errorf("ema(%d) over %d closes: %w", period, len(closes), ErrInsufficientData)
	}
	k := 2.0 / float64(period+1)
	ema := 0.0
	for _, c := range closes[:period] {
		ema += c
	}
	ema /= float64(period)
	for _, c := range closes[period:] {
		ema = c*k + ema*(1-k)
	}
	return ema, nil
}

// CalculateMACD returns the raw MACD line, EMA(fast) - EMA(slow) of closes.
// No signal line or histogram is computed.
func CalculateMACD(bars []model.PriceBar, fast, slow int) (float64, error) {
	if fast <= 0 || slow <= 0 || fast >= slow {
		return 0, fmt.Errorf("macd periods fast=%d slow=%d: %w", fast, slow, ErrInvalidArgument)
	}
	if len(bars) < slow {
		return 0, fmt.Errorf("macd(%d,%d) over %d bars: %w", fast, slow, len(bars), ErrInsufficientData)
	}
	closes := model.Closes(bars)
	fastEMA, err := CalculateEMA(closes, fast)
	if err != nil {
		return 0, err
	}
	slowEMA, err := CalculateEMA(closes, slow)
	if err != nil {
		return 0, err
	}
	return fastEMA - slowEMA, nil
}
