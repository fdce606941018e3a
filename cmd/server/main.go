package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Alias1177/Analyzer/internal/app"
	"github.com/Alias1177/Analyzer/internal/config"
	"github.com/Alias1177/Analyzer/internal/platform/logger"
	"github.com/Alias1177/Analyzer/internal/server"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat, "server")

	a, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize analyzer")
	}
	defer a.Close()

	opts := []server.Option{server.WithMetrics(a.Metrics)}
	for name, check := range a.Checks {
		opts = append(opts, server.WithHealthCheck(name, check))
	}

	srv := server.New(a.Analyzer, opts...)
	if err := srv.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
		log.Error().Err(err).Msg("HTTP server stopped")
		return
	}
	log.Info().Msg("Shutdown complete")
}
