package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"MarketDash/internal/calculator"
	"MarketDash/internal/collector"
	"MarketDash/internal/metrics"
	"MarketDash/internal/model"
	"MarketDash/internal/notifier"
	"MarketDash/internal/recorder"
	"MarketDash/internal/store"
)

// Notifier delivers alert text. A nil Notifier disables alerts.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler polls the watch list on a cron schedule and keeps the store current.
type Scheduler struct {
	Cron         *cron.Cron
	Collector    *collector.Collector
	Store        store.Store
	Recorder     recorder.Recorder
	Metrics      *metrics.Metrics
	Notifier     Notifier
	Symbols      []string
	FetchTimeout time.Duration
	Log          zerolog.Logger

	mu sync.Mutex
}

// Report summarises one poll run.
type Report struct {
	RunID     string
	Succeeded []string
	Failed    map[string]error
	Flipped   []string
	Duration  time.Duration
}

// NewScheduler creates a new Scheduler. Overlapping runs are skipped.
func NewScheduler(col *collector.Collector, st store.Store, rec recorder.Recorder, m *metrics.Metrics, n Notifier, symbols []string, fetchTimeout time.Duration, log zerolog.Logger) *Scheduler {
	log = log.With().Str("component", "scheduler").Logger()
	cl := cronLogger{log}
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds(), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		Collector:    col,
		Store:        st,
		Recorder:     rec,
		Metrics:      m,
		Notifier:     n,
		Symbols:      symbols,
		FetchTimeout: fetchTimeout,
		Log:          log,
	}
}

// Register adds the poll job under the given six-field cron spec.
func (s *Scheduler) Register(ctx context.Context, pollSpec string) error {
	if _, err := s.Cron.AddFunc(pollSpec, func() { s.PollNow(ctx) }); err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info().Int("symbols", len(s.Symbols)).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running poll to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info().Msg("scheduler stopped")
}

// PollNow refreshes every symbol once. A failed symbol keeps its previous snapshot.
func (s *Scheduler) PollNow(ctx context.Context) *Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()
	report := &Report{RunID: uuid.NewString(), Failed: make(map[string]error)}
	log := s.Log.With().Str("run_id", report.RunID).Logger()

	fetchCtx, cancel := context.WithTimeout(ctx, s.FetchTimeout)
	results := s.Collector.CollectAll(fetchCtx, s.Symbols)
	cancel()

	for _, r := range results {
		if r.Err != nil {
			s.handleFailure(ctx, log, report, r)
			continue
		}
		r.Snapshot.RunID = report.RunID
		if s.handleSuccess(ctx, log, r.Snapshot) {
			report.Flipped = append(report.Flipped, r.Symbol)
		}
		report.Succeeded = append(report.Succeeded, r.Symbol)
	}

	report.Duration = time.Since(started)
	if s.Metrics != nil {
		s.Metrics.ObservePoll(report.Duration)
	}
	log.Info().Int("ok", len(report.Succeeded)).Int("failed", len(report.Failed)).Dur("took", report.Duration).Msg("poll finished")
	return report
}

// handleSuccess stores the snapshot and reports whether its signal flipped.
func (s *Scheduler) handleSuccess(ctx context.Context, log zerolog.Logger, snap *model.StockSnapshot) bool {
	var prev model.Signal
	if e, err := s.Store.Get(ctx, snap.Symbol); err == nil && e.Snapshot != nil {
		prev = e.Snapshot.Indicators.Signal
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Warn().Err(err).Str("symbol", snap.Symbol).Msg("read previous entry")
	}

	if err := s.Store.Put(ctx, snap); err != nil {
		log.Error().Err(err).Str("symbol", snap.Symbol).Msg("store snapshot")
	}
	if err := s.Recorder.RecordSnapshot(snap); err != nil {
		log.Error().Err(err).Str("symbol", snap.Symbol).Msg("record snapshot")
	}
	if s.Metrics != nil {
		s.Metrics.ObserveSuccess(snap.Symbol, snap.Price, snap.Indicators.RSI, snap.FetchedAt)
	}

	cur := snap.Indicators.Signal
	if prev == "" || prev == cur {
		return false
	}
	log.Info().Str("symbol", snap.Symbol).Str("from", string(prev)).Str("to", string(cur)).Msg("signal changed")
	if s.Metrics != nil {
		s.Metrics.ObserveSignalChange(snap.Symbol, string(cur))
	}
	s.trySend(ctx, log, notifier.FormatSignalChange(prev, snap))
	return true
}

func (s *Scheduler) handleFailure(ctx context.Context, log zerolog.Logger, report *Report, r collector.Result) {
	report.Failed[r.Symbol] = r.Err
	at := time.Now().UTC()
	log.Warn().Err(r.Err).Str("symbol", r.Symbol).Msg("refresh failed, keeping previous snapshot")

	if err := s.Store.MarkFailed(ctx, r.Symbol, r.Err, at); err != nil {
		log.Error().Err(err).Str("symbol", r.Symbol).Msg("mark failed")
	}
	if err := s.Recorder.RecordFailure(&recorder.FailureEvent{
		RunID: report.RunID, Symbol: r.Symbol, Error: r.Err.Error(), At: at,
	}); err != nil {
		log.Error().Err(err).Str("symbol", r.Symbol).Msg("record failure")
	}
	if s.Metrics != nil {
		s.Metrics.ObserveFailure(r.Symbol, FailureKind(r.Err))
	}
}

// FailureKind buckets a refresh error for metrics.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, collector.ErrNoData):
		return "no_data"
	case errors.Is(err, calculator.ErrMalformedBar):
		return "malformed"
	case errors.Is(err, calculator.ErrInsufficientData):
		return "insufficient"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "fetch"
	}
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText
	}
	switch fields[0] {
	case "/quote":
		if len(fields) < 2 {
			return "Usage: /quote SYMBOL"
		}
		e, err := s.Store.Get(ctx, fields[1])
		if errors.Is(err, store.ErrNotFound) || (err == nil && e.Snapshot == nil) {
			return fmt.Sprintf("No data for %s yet.", strings.ToUpper(fields[1]))
		}
		if err != nil {
			return fmt.Sprintf("❌ lookup failed: %v", err)
		}
		return notifier.FormatQuote(e.Snapshot, e.Stale())
	case "/list":
		entries, err := s.Store.List(ctx)
		if err != nil {
			return fmt.Sprintf("❌ lookup failed: %v", err)
		}
		snaps := make([]*model.StockSnapshot, 0, len(entries))
		for _, e := range entries {
			if e.Snapshot != nil {
				snaps = append(snaps, e.Snapshot)
			}
		}
		return notifier.FormatList(snaps)
	default:
		return notifier.HelpText
	}
}

func (s *Scheduler) trySend(ctx context.Context, log zerolog.Logger, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}

// cronLogger routes cron's internal logging through zerolog.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
