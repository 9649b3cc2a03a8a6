package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"StockFetcher/internal/collector"
	"StockFetcher/internal/config"
	"StockFetcher/internal/exporter"
	"StockFetcher/internal/logging"
	"StockFetcher/internal/recorder"
	"StockFetcher/internal/runner"
	"StockFetcher/internal/scheduler"

	"go.uber.org/zap"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logging.New("info").Fatal("load config", zap.Error(err))
	}

	log := logging.New(cfg.Log.Level)
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("config validation", zap.Error(err))
	}

	fetcher := collector.NewYahooFetcher(cfg.Provider.BaseURL, cfg.Provider.Timeout, cfg.Provider.Proxy)
	log.Debug("data source", zap.String("name", fetcher.Name()), zap.String("base_url", cfg.Provider.BaseURL))

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			log.Info("sqlite recorder opened", zap.String("path", cfg.Database.SQLitePath))
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := runner.New(fetcher, exporter.NewCSVExporter(cfg.OutputDir), rec, log, cfg.Tickers, cfg.LookbackDays)

	if cfg.Schedule.Cron == "" {
		r.Run(ctx)
		return
	}

	sched := scheduler.NewScheduler(ctx, r, log)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatal("register cron task", zap.Error(err))
	}
	sched.RunNow()
	sched.Start()

	log.Info("waiting for next scheduled download, press Ctrl+C to stop", zap.String("cron", cfg.Schedule.Cron))
	<-ctx.Done()

	log.Info("shutdown signal received, stopping...")
	sched.Stop()
}
