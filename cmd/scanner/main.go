package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Alias1177/Analyzer/internal/app"
	"github.com/Alias1177/Analyzer/internal/config"
	"github.com/Alias1177/Analyzer/internal/platform/logger"
	"github.com/Alias1177/Analyzer/internal/scheduler"
	"github.com/rs/zerolog/log"
)

func main() {
	once := flag.Bool("once", false, "scan the watchlist once and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat, "scanner")

	a, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize analyzer")
	}
	defer a.Close()

	n, err := a.Notifier()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize notifier")
	}

	scanner := scheduler.NewScanner(ctx, a.Analyzer, a.Recorder(ctx), n, cfg.Watchlist)
	scanner.Metrics = a.Metrics

	if *once {
		report, err := scanner.RunOnce(ctx)
		if err != nil {
			log.Error().Err(err).Str("run_id", report.RunID.String()).Msg("Scan finished with errors")
			a.Close()
			cancel()
			os.Exit(1)
		}
		log.Info().
			Str("run_id", report.RunID.String()).
			Int("timeframes", report.Timeframes).
			Int("failed", report.Failed).
			Int("alerts", report.Alerts).
			Msg("Scan finished")
		return
	}

	if err := scanner.Register(cfg.ScanCron); err != nil {
		log.Fatal().Err(err).Msg("Failed to register scan")
	}
	scanner.Start()
	log.Info().Str("cron", cfg.ScanCron).Strs("watchlist", cfg.Watchlist).Msg("Scanner running")

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")
	scanner.Stop()
}
