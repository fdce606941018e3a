package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Alias1177/Analyzer/internal/app"
	"github.com/Alias1177/Analyzer/internal/config"
	"github.com/Alias1177/Analyzer/internal/platform/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat, "tgbot")

	a, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize analyzer")
	}
	defer a.Close()

	bot, err := a.TelegramBot()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram bot")
	}

	// Setup update configuration
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := bot.GetUpdatesChan(updateConfig)

	h := newHandler(bot, a.Analyzer, cfg.Watchlist)

	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			log.Info().Msg("Shutdown signal received, exiting...")
			return
		case update := <-updates:
			switch {
			case update.Message != nil:
				h.handleMessage(ctx, update.Message)
			case update.CallbackQuery != nil:
				h.handleCallback(ctx, update.CallbackQuery)
			}
		}
	}
}
