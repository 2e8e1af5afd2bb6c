package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"MarketDash/internal/model"
)

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry)}
}

func (m *MemoryStore) entry(symbol string) *Entry {
	e, ok := m.entries[symbol]
	if !ok {
		e = &Entry{Symbol: symbol}
		m.entries[symbol] = e
	}
	return e
}

func (m *MemoryStore) Put(_ context.Context, snap *model.StockSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	applySuccess(m.entry(strings.ToUpper(snap.Symbol)), snap)
	return nil
}

func (m *MemoryStore) MarkFailed(_ context.Context, symbol string, cause error, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	applyFailure(m.entry(strings.ToUpper(symbol)), cause, at)
	return nil
}

// Get returns a copy of the entry for symbol.
func (m *MemoryStore) Get(_ context.Context, symbol string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[strings.ToUpper(symbol)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

// List returns copies of all entries sorted by symbol.
func (m *MemoryStore) List(_ context.Context) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Entry, 0, len(m.entries))
	for _, e := range m.entries {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
