package strategy

import "MarketDash/internal/model"

const (
	StatusUnknown    = "Unknown"
	StatusNeutral    = "Neutral"
	StatusOverbought = "Overbought"
	StatusOversold   = "Oversold"
	StatusBullish    = "Bullish"
	StatusBearish    = "Bearish"

	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Thresholds used by the dashboard badges.
const (
	RSIOverbought = 70.0
	RSIOversold   = 30.0
	MACDBullish   = 0.5
	MACDBearish   = -0.5
	RiskHighVol   = 30.0
	RiskMediumVol = 20.0
)

// Evaluate classifies the computed indicators for display.
// Values that could not be computed map to StatusUnknown.
func Evaluate(ind *model.IndicatorResult) *model.Assessment {
	if ind == nil {
		return &model.Assessment{RSIStatus: StatusUnknown, MACDStatus: StatusUnknown, RiskLevel: StatusUnknown}
	}
	return &model.Assessment{
		RSIStatus:  rsiStatus(ind.RSI),
		MACDStatus: macdStatus(ind.MACD),
		RiskLevel:  riskLevel(ind.Volatility),
	}
}

func rsiStatus(v *float64) string {
	switch {
	case v == nil:
		return StatusUnknown
	case *v > RSIOverbought:
		return StatusOverbought
	case *v < RSIOversold:
		return StatusOversold
	default:
		return StatusNeutral
	}
}

func macdStatus(v *float64) string {
	switch {
	case v == nil:
		return StatusUnknown
	case *v > MACDBullish:
		return StatusBullish
	case *v < MACDBearish:
		return StatusBearish
	default:
		return StatusNeutral
	}
}

func riskLevel(v *float64) string {
	switch {
	case v == nil:
		return StatusUnknown
	case *v > RiskHighVol:
		return RiskHigh
	case *v > RiskMediumVol:
		return RiskMedium
	default:
		return RiskLow
	}
}
