package calculator

import (
	"fmt"

	"MarketDash/internal/model"
)

// CalculateSupportResistance returns the lowest low and the highest high of the window.
func CalculateSupportResistance(bars []model.PriceBar) (support, resistance float64, err error) {
	if len(bars) == 0 {
		return 0, 0, fmt.Errorf("support/resistance of empty window: %w", ErrInvalidArgument)
	}
	support, resistance = bars[0].Low, bars[0].High
	for _, b := range bars[1:] {
		if b.Low < support {
			support = b.Low
		}
		if b.High > resistance {
			resistance = b.High
		}
	}
	return support, resistance, nil
}

// CalculateCloseRange returns the highest and lowest close of the most recent n bars.
func CalculateCloseRange(bars []model.PriceBar, n int) (high, low float64, err error) {
	if n <= 0 {
		return 0, 0, fmt.Errorf("close range length %d: %w", n, ErrInvalidArgument)
	}
	if len(bars) == 0 {
		return 0, 0, fmt.Errorf("close range of empty window: %w", ErrInvalidArgument)
	}
	start := len(bars) - n
	if start < 0 {
		start = 0
	}
	high, low = bars[start].Close, bars[start].Close
	for _, b := range bars[start+1:] {
		if b.Close > high {
			high = b.Close
		}
		if b.Close < low {
			low = b.Close
		}
	}
	return high, low, nil
}
