package app

import (
	"context"
	"fmt"

	"github.com/Alias1177/Analyzer/internal/analysis/timeframe"
	"github.com/Alias1177/Analyzer/internal/api"
	"github.com/Alias1177/Analyzer/internal/cache"
	"github.com/Alias1177/Analyzer/internal/config"
	"github.com/Alias1177/Analyzer/internal/database"
	"github.com/Alias1177/Analyzer/internal/metrics"
	"github.com/Alias1177/Analyzer/internal/notifier"
	"github.com/Alias1177/Analyzer/internal/platform/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// App holds the collaborators every command shares.
type App struct {
	Config   *config.Config
	Analyzer *timeframe.Analyzer
	Metrics  *metrics.Metrics
	// Checks are dependency probes for the health endpoint.
	Checks map[string]func(ctx context.Context) error

	closers []func() error
	logger  zerolog.Logger
}

// Bootstrap builds the candle source, cache, metrics and analyzer from cfg.
// An unreachable Redis is logged and analysis runs uncached.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{
		Config:  cfg,
		Metrics: metrics.New(),
		Checks:  map[string]func(ctx context.Context) error{},
		logger:  logger.Component("bootstrap"),
	}

	source, err := api.NewCandleSource(cfg)
	if err != nil {
		return nil, err
	}

	opts := []timeframe.Option{timeframe.WithMetrics(a.Metrics)}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			a.logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, running without cache")
		} else {
			opts = append(opts, timeframe.WithCache(rc, cfg.CacheTTL))
			a.Checks["redis"] = rc.Ping
			a.closers = append(a.closers, rc.Close)
		}
	}

	a.Analyzer = timeframe.NewAnalyzer(source, cfg.Engine, opts...)
	a.logger.Info().
		Str("source", cfg.CandleSource).
		Strs("intervals", cfg.Engine.Intervals).
		Int("candle_limit", cfg.Engine.CandleLimit).
		Msg("Analyzer ready")
	return a, nil
}

// Recorder connects to Postgres when configured; otherwise, or when the
// connection fails, it returns a recorder that drops everything.
func (a *App) Recorder(ctx context.Context) database.Recorder {
	if !a.Config.DB.Enabled() {
		a.logger.Info().Msg("Database not configured, snapshots are not persisted")
		return database.Noop{}
	}

	db, err := database.New(ctx, database.ConnectionParams{
		Host:     a.Config.DB.Host,
		Port:     a.Config.DB.Port,
		User:     a.Config.DB.User,
		Password: a.Config.DB.Password,
		DBName:   a.Config.DB.Name,
		SSLMode:  a.Config.DB.SSLMode,
	})
	if err != nil {
		a.logger.Warn().Err(err).Msg("Database unavailable, using noop recorder")
		return database.Noop{}
	}
	a.Checks["postgres"] = db.PingContext
	a.closers = append(a.closers, db.Close)
	return db
}

// TelegramBot logs in with the configured token.
func (a *App) TelegramBot() (*tgbotapi.BotAPI, error) {
	if a.Config.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN not set")
	}
	bot, err := tgbotapi.NewBotAPI(a.Config.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	a.logger.Info().Str("username", bot.Self.UserName).Msg("Authorized on Telegram")
	return bot, nil
}

// Notifier returns a Telegram notifier for the configured chat, or a noop one
// when alerts are not configured.
func (a *App) Notifier() (notifier.Notifier, error) {
	if a.Config.TelegramBotToken == "" || a.Config.TelegramChatID == 0 {
		a.logger.Info().Msg("Telegram alerts disabled")
		return notifier.Noop{}, nil
	}
	bot, err := a.TelegramBot()
	if err != nil {
		return nil, err
	}
	return notifier.NewTelegram(bot, a.Config.TelegramChatID), nil
}

// Close releases the cache and database connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn().Err(err).Msg("Close failed")
		}
	}
}
