package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"MarketDash/internal/api"
	"MarketDash/internal/collector"
	"MarketDash/internal/config"
	"MarketDash/internal/logger"
	"MarketDash/internal/metrics"
	"MarketDash/internal/notifier"
	"MarketDash/internal/recorder"
	"MarketDash/internal/scheduler"
	"MarketDash/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the poller and the HTTP API until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		pollOnStart, err := cmd.Flags().GetBool("poll-on-start")
		if err != nil {
			return err
		}
		return runServe(cfgPath, pollOnStart)
	},
}

func init() {
	serveCmd.Flags().Bool("poll-on-start", true, "refresh every symbol once before the first cron tick")
}

func runServe(cfgPath string, pollOnStart bool) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	log.Info().Str("source", fetcher.Name()).Strs("symbols", cfg.SymbolNames()).Msg("dashboard starting")
	col := collector.NewCollector(fetcher, cfg.Symbols, cfg.Indicators, cfg.DataSource.LookbackDays, log)

	st, err := newStore(cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	rec := newRecorder(cfg, log)
	defer rec.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var tn *notifier.TelegramNotifier
	var alerts scheduler.Notifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		alerts = tn
	}

	sched := scheduler.NewScheduler(col, st, rec, m, alerts, cfg.SymbolNames(), cfg.Schedule.FetchTimeout, log)
	if err := sched.Register(ctx, cfg.Schedule.PollCron); err != nil {
		return err
	}

	srv := api.NewServer(reg, m, log, api.NewStocksHandler(st, rec, log))
	srv.Start(cfg.HTTP.Addr)

	if pollOnStart {
		sched.PollNow(ctx)
	}
	sched.Start()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping")
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("stop http server")
	}
	log.Info().Msg("dashboard stopped")
	return nil
}

func newFetcher(cfg *config.Config) (collector.Fetcher, error) {
	ds := cfg.DataSource
	switch ds.Provider {
	case "alpaca":
		return collector.NewAlpacaFetcher(ds.BaseURL, ds.APIKey, ds.APISecret, ds.Feed, cfg.Proxy), nil
	case "yahoo":
		return collector.NewYahooFetcher(cfg.Proxy), nil
	case "polygon":
		return collector.NewPolygonFetcher(ds.APIKey), nil
	case "csv":
		return collector.NewCSVFetcher(ds.CSVDir), nil
	}
	return nil, fmt.Errorf("unknown data provider %q", ds.Provider)
}

func newStore(cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	if cfg.Redis.Addr == "" {
		return store.NewMemoryStore(), nil
	}
	rs, err := store.NewRedisStore(store.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Prefix:   cfg.Redis.Prefix,
		TTL:      cfg.Redis.TTL,
	})
	if err != nil {
		return nil, fmt.Errorf("init redis store: %w", err)
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis store")
	return rs, nil
}

func newRecorder(cfg *config.Config, log zerolog.Logger) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}
