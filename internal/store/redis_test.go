package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server when REDIS_TEST_ADDR is set, e.g. localhost:6379.
func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	s, err := NewRedisStore(RedisConfig{Addr: addr, Prefix: "marketdash-test-" + uuid.NewString(), TTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRedisStore_RoundTripAndStale(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()
	t0 := time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)

	require.NoError(t, s.Put(ctx, snapshot("AAPL", 100, t0)))
	require.NoError(t, s.MarkFailed(ctx, "aapl", errors.New("timeout"), t0.Add(time.Second)))

	e, err := s.Get(ctx, "AAPL")
	require.NoError(t, err)
	require.NotNil(t, e.Snapshot)
	assert.Equal(t, 100.0, e.Snapshot.Price)
	assert.True(t, e.Stale())

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = s.Get(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}
