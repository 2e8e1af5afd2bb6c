package calculator

import (
	"fmt"

	"MarketDash/internal/model"
)

// DefaultRSIPeriod is the look-back used when none is configured.
const DefaultRSIPeriod = 14

// NeutralRSI is returned with ErrInsufficientData.
const NeutralRSI = 50.0

// CalculateRSI sums the gains and losses of the last period close-to-close changes.
// A window without losses divides by 1 instead of 0, so the result stays below 100.
// Requires more than period bars.
func CalculateRSI(bars []model.PriceBar, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("rsi period %d: %w", period, ErrInvalidArgument)
	}
	if len(bars) <= period {
		return NeutralRSI, fmt.Errorf("rsi(%d) over %d bars: %w", period, len(bars), ErrInsufficientData)
	}

	var gains, losses float64
	for i := len(bars) - period; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	if losses == 0 {
		losses = 1
	}
	rs := gains / losses
	return 100.0 - 100.0/(1.0+rs), nil
}
