package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"MarketDash/internal/model"
)

// SQLiteRecorder persists indicator history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the API read history while the poller writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS indicator_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			run_id         TEXT,
			symbol         TEXT NOT NULL,
			price          REAL,
			change_percent REAL,
			sma20          REAL,
			sma50          REAL,
			rsi            REAL,
			macd           REAL,
			volatility     REAL,
			support        REAL,
			resistance     REAL,
			signal         TEXT,
			rsi_status     TEXT,
			macd_status    TEXT,
			risk_level     TEXT,
			source         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_symbol_ts ON indicator_snapshots(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS poll_failures (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			run_id    TEXT,
			symbol    TEXT NOT NULL,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_ts ON poll_failures(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSnapshot(snap *model.StockSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ind := snap.Indicators
	if ind == nil {
		ind = &model.IndicatorResult{}
	}
	var rsiStatus, macdStatus, risk string
	if a := snap.Assessment; a != nil {
		rsiStatus, macdStatus, risk = a.RSIStatus, a.MACDStatus, a.RiskLevel
	}
	ts := snap.FetchedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := r.db.Exec(`INSERT INTO indicator_snapshots
		(timestamp, run_id, symbol, price, change_percent,
		 sma20, sma50, rsi, macd, volatility, support, resistance,
		 signal, rsi_status, macd_status, risk_level, source)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		ts.UnixMilli(), snap.RunID, strings.ToUpper(snap.Symbol), snap.Price, snap.ChangePercent,
		nullFloat(ind.SMAShort), nullFloat(ind.SMALong), nullFloat(ind.RSI), nullFloat(ind.MACD),
		nullFloat(ind.Volatility), nullFloat(ind.Support), nullFloat(ind.Resistance),
		string(ind.Signal), rsiStatus, macdStatus, risk, snap.Source,
	)
	return err
}

func (r *SQLiteRecorder) RecordFailure(evt *FailureEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := evt.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO poll_failures (timestamp, run_id, symbol, error) VALUES (?,?,?,?)`,
		at.UnixMilli(), evt.RunID, strings.ToUpper(evt.Symbol), evt.Error,
	)
	return err
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return model.Float(v.Float64)
}

// RecentSnapshots returns up to limit rows for symbol, newest first.
func (r *SQLiteRecorder) RecentSnapshots(symbol string, limit int) ([]SnapshotRow, error) {
	rows, err := r.db.Query(`SELECT timestamp, run_id, symbol, price,
		sma20, sma50, rsi, macd, volatility, support, resistance, signal, source
		FROM indicator_snapshots WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		strings.ToUpper(symbol), limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotRow
	for rows.Next() {
		var (
			row                   SnapshotRow
			ts                    int64
			runID, signal, source sql.NullString
		)
		var sma20, sma50, rsi, macd, vol, sup, res sql.NullFloat64
		if err := rows.Scan(&ts, &runID, &row.Symbol, &row.Price,
			&sma20, &sma50, &rsi, &macd, &vol, &sup, &res, &signal, &source); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		row.At = time.UnixMilli(ts).UTC()
		row.RunID = runID.String
		row.Signal = model.Signal(signal.String)
		row.Source = source.String
		row.SMAShort, row.SMALong = nullable(sma20), nullable(sma50)
		row.RSI, row.MACD, row.Volatility = nullable(rsi), nullable(macd), nullable(vol)
		row.Support, row.Resistance = nullable(sup), nullable(res)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
