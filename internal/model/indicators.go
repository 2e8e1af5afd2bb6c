package model

// Signal is the coarse trend call derived from the first and last close of a window.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// IndicatorResult is the read-only snapshot of indicators computed from one BarSeries.
// A nil field means the value could not be computed for the supplied window.
// SMA holds every configured period. SMAShort and SMALong are always the 20 and 50
// period averages and stay nil when those periods are not configured.
type IndicatorResult struct {
	SMA        map[int]*float64 `json:"sma"`
	SMAShort   *float64         `json:"sma20"`
	SMALong    *float64         `json:"sma50"`
	RSI        *float64         `json:"rsi"`
	MACD       *float64         `json:"macd"`
	Volatility *float64         `json:"volatility"`
	Support    *float64         `json:"support"`
	Resistance *float64         `json:"resistance"`
	Signal     Signal           `json:"signal"`
}

// Float returns a pointer to v, for filling optional indicator fields.
func Float(v float64) *float64 { return &v }

// ValueOr returns *p, or fallback when p is nil.
func ValueOr(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}
