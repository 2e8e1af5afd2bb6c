package recorder

import (
	"time"

	"MarketDash/internal/model"
)

// FailureEvent records a symbol that could not be refreshed in a poll run.
type FailureEvent struct {
	RunID  string
	Symbol string
	Error  string
	At     time.Time
}

// SnapshotRow is one recorded indicator snapshot. Nil fields were not computable.
type SnapshotRow struct {
	RunID      string       `json:"runId"`
	Symbol     string       `json:"symbol"`
	At         time.Time    `json:"at"`
	Price      float64      `json:"price"`
	SMAShort   *float64     `json:"sma20"`
	SMALong    *float64     `json:"sma50"`
	RSI        *float64     `json:"rsi"`
	MACD       *float64     `json:"macd"`
	Volatility *float64     `json:"volatility"`
	Support    *float64     `json:"support"`
	Resistance *float64     `json:"resistance"`
	Signal     model.Signal `json:"signal"`
	Source     string       `json:"source"`
}

// Recorder keeps the history of computed indicators. Raw bars are never stored.
type Recorder interface {
	RecordSnapshot(snap *model.StockSnapshot) error
	RecordFailure(evt *FailureEvent) error
	RecentSnapshots(symbol string, limit int) ([]SnapshotRow, error)
	Close() error
}
