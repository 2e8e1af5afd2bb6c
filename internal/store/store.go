package store

import (
	"context"
	"errors"
	"time"

	"MarketDash/internal/model"
)

// ErrNotFound is returned when a symbol has never been refreshed or failed.
var ErrNotFound = errors.New("symbol not found")

// Entry is the latest known state of one symbol. Snapshot is the last successful
// refresh; LastError is set when a later refresh failed and cleared by the next success.
type Entry struct {
	Symbol      string               `json:"symbol"`
	Snapshot    *model.StockSnapshot `json:"snapshot,omitempty"`
	LastError   string               `json:"lastError,omitempty"`
	LastErrorAt *time.Time           `json:"lastErrorAt,omitempty"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// Stale reports whether the snapshot predates the last failed refresh.
func (e *Entry) Stale() bool {
	return e.LastErrorAt != nil
}

// Store keeps the latest snapshot per symbol.
// A failed refresh never removes a previously stored snapshot.
type Store interface {
	Put(ctx context.Context, snap *model.StockSnapshot) error
	MarkFailed(ctx context.Context, symbol string, cause error, at time.Time) error
	Get(ctx context.Context, symbol string) (*Entry, error)
	List(ctx context.Context) ([]*Entry, error)
	Close() error
}

func applySuccess(e *Entry, snap *model.StockSnapshot) {
	e.Snapshot = snap
	e.LastError = ""
	e.LastErrorAt = nil
	e.UpdatedAt = snap.FetchedAt
}

func applyFailure(e *Entry, cause error, at time.Time) {
	e.LastError = cause.Error()
	e.LastErrorAt = &at
	e.UpdatedAt = at
}
