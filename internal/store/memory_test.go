package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketDash/internal/model"
)

func snapshot(symbol string, price float64, at time.Time) *model.StockSnapshot {
	return &model.StockSnapshot{StockInfo: model.StockInfo{Symbol: symbol}, Price: price, FetchedAt: at}
}

func TestMemoryStore_LatestSuccessWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	t0 := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)

	require.NoError(t, s.Put(ctx, snapshot("AAPL", 100, t0)))
	require.NoError(t, s.Put(ctx, snapshot("AAPL", 101, t0.Add(5*time.Second))))

	e, err := s.Get(ctx, "aapl")
	require.NoError(t, err)
	assert.Equal(t, 101.0, e.Snapshot.Price)
	assert.False(t, e.Stale())
}

func TestMemoryStore_FailureKeepsStaleSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	t0 := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)

	require.NoError(t, s.Put(ctx, snapshot("AAPL", 100, t0)))
	require.NoError(t, s.MarkFailed(ctx, "AAPL", errors.New("timeout"), t0.Add(5*time.Second)))

	e, err := s.Get(ctx, "AAPL")
	require.NoError(t, err)
	require.NotNil(t, e.Snapshot)
	assert.Equal(t, 100.0, e.Snapshot.Price)
	assert.True(t, e.Stale())
	assert.Equal(t, "timeout", e.LastError)

	require.NoError(t, s.Put(ctx, snapshot("AAPL", 102, t0.Add(10*time.Second))))
	e, err = s.Get(ctx, "AAPL")
	require.NoError(t, err)
	assert.False(t, e.Stale())
	assert.Empty(t, e.LastError)
}

func TestMemoryStore_FailureWithoutSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.MarkFailed(ctx, "ZZZ", errors.New("no data"), time.Now()))

	e, err := s.Get(ctx, "ZZZ")
	require.NoError(t, err)
	assert.Nil(t, e.Snapshot)
	assert.Equal(t, "no data", e.LastError)
}

func TestMemoryStore_GetUnknownAndList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.Get(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)

	now := time.Now()
	require.NoError(t, s.Put(ctx, snapshot("QQQ", 1, now)))
	require.NoError(t, s.Put(ctx, snapshot("AAPL", 2, now)))
	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "AAPL", list[0].Symbol)
	assert.Equal(t, "QQQ", list[1].Symbol)
}
