package recorder

import "MarketDash/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSnapshot(_ *model.StockSnapshot) error { return nil }
func (n *NoopRecorder) RecordFailure(_ *FailureEvent) error         { return nil }
func (n *NoopRecorder) RecentSnapshots(_ string, _ int) ([]SnapshotRow, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
