package calculator

import (
	"fmt"
	"math"

	"MarketDash/internal/model"
)

// ValidateBar checks the OHLC invariants of a single bar.
func ValidateBar(b model.PriceBar) error {
	switch {
	case !finite(b.Open) || !finite(b.High) || !finite(b.Low) || !finite(b.Close):
		return fmt.Errorf("non-finite price at %s: %w", b.Time.Format("2006-01-02"), ErrMalformedBar)
	case b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0:
		return fmt.Errorf("non-positive price at %s: %w", b.Time.Format("2006-01-02"), ErrMalformedBar)
	case b.Low > b.High:
		return fmt.Errorf("low %.4f above high %.4f at %s: %w", b.Low, b.High, b.Time.Format("2006-01-02"), ErrMalformedBar)
	case b.Open < b.Low || b.Open > b.High:
		return fmt.Errorf("open %.4f outside [%.4f, %.4f] at %s: %w", b.Open, b.Low, b.High, b.Time.Format("2006-01-02"), ErrMalformedBar)
	case b.Close < b.Low || b.Close > b.High:
		return fmt.Errorf("close %.4f outside [%.4f, %.4f] at %s: %w", b.Close, b.Low, b.High, b.Time.Format("2006-01-02"), ErrMalformedBar)
	case b.Volume < 0:
		return fmt.Errorf("negative volume at %s: %w", b.Time.Format("2006-01-02"), ErrMalformedBar)
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// ValidateSeries checks every bar and that timestamps strictly ascend.
func ValidateSeries(bars []model.PriceBar) error {
	for i, b := range bars {
		if err := ValidateBar(b); err != nil {
			return fmt.Errorf("bar %d: %w", i, err)
		}
		if i > 0 && !b.Time.After(bars[i-1].Time) {
			return fmt.Errorf("bar %d: timestamp %s not after previous: %w", i, b.Time.Format("2006-01-02"), ErrMalformedBar)
		}
	}
	return nil
}
