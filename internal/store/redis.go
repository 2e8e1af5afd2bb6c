package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"MarketDash/internal/model"
)

// RedisConfig configures RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// RedisStore shares the latest entries between API replicas through Redis.
// Entries are JSON values under <prefix>:entry:<SYMBOL>; the symbol set lives in <prefix>:symbols.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects and pings the server.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStoreWithClient(client, cfg.Prefix, cfg.TTL), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "marketdash"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) entryKey(symbol string) string {
	return r.prefix + ":entry:" + strings.ToUpper(symbol)
}

func (r *RedisStore) symbolsKey() string {
	return r.prefix + ":symbols"
}

func (r *RedisStore) load(ctx context.Context, symbol string) (*Entry, error) {
	data, err := r.client.Get(ctx, r.entryKey(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", symbol, err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode entry %s: %w", symbol, err)
	}
	return &e, nil
}

func (r *RedisStore) save(ctx context.Context, e *Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode entry %s: %w", e.Symbol, err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.entryKey(e.Symbol), data, r.ttl)
	pipe.SAdd(ctx, r.symbolsKey(), e.Symbol)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save %s: %w", e.Symbol, err)
	}
	return nil
}

// update loads the entry, applies fn and writes it back. Concurrent writers for the same
// symbol are serialised by the single poller, so no WATCH is taken.
func (r *RedisStore) update(ctx context.Context, symbol string, fn func(*Entry)) error {
	symbol = strings.ToUpper(symbol)
	e, err := r.load(ctx, symbol)
	if errors.Is(err, ErrNotFound) {
		e = &Entry{Symbol: symbol}
	} else if err != nil {
		return err
	}
	fn(e)
	return r.save(ctx, e)
}

func (r *RedisStore) Put(ctx context.Context, snap *model.StockSnapshot) error {
	return r.update(ctx, snap.Symbol, func(e *Entry) { applySuccess(e, snap) })
}

func (r *RedisStore) MarkFailed(ctx context.Context, symbol string, cause error, at time.Time) error {
	return r.update(ctx, symbol, func(e *Entry) { applyFailure(e, cause, at) })
}

func (r *RedisStore) Get(ctx context.Context, symbol string) (*Entry, error) {
	return r.load(ctx, symbol)
}

// List returns every live entry sorted by symbol; expired members are skipped.
func (r *RedisStore) List(ctx context.Context) ([]*Entry, error) {
	symbols, err := r.client.SMembers(ctx, r.symbolsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers: %w", err)
	}
	sort.Strings(symbols)
	out := make([]*Entry, 0, len(symbols))
	for _, s := range symbols {
		e, err := r.load(ctx, s)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
