package calculator

import (
	"fmt"

	"MarketDash/internal/model"
)

// DetermineSignal compares the last close with the first close of the window.
// It is a two-point trend heuristic and makes no claim beyond that.
func DetermineSignal(bars []model.PriceBar) (model.Signal, error) {
	if len(bars) == 0 {
		return model.SignalHold, fmt.Errorf("signal of empty window: %w", ErrInvalidArgument)
	}
	first, last := bars[0].Close, bars[len(bars)-1].Close
	switch {
	case last > first:
		return model.SignalBuy, nil
	case last < first:
		return model.SignalSell, nil
	default:
		return model.SignalHold, nil
	}
}
