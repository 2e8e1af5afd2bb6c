package calculator

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"MarketDash/internal/model"
)

// CalculateVolatility returns the population standard deviation of every close in bars.
func CalculateVolatility(bars []model.PriceBar) (float64, error) {
	if len(bars) == 0 {
		return 0, fmt.Errorf("volatility of empty window: %w", ErrInvalidArgument)
	}
	sd, err := stats.StandardDeviationPopulation(model.Closes(bars))
	if err != nil {
		return 0, fmt.Errorf("volatility: %w", err)
	}
	return sd, nil
}
