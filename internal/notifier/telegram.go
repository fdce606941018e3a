package notifier

import (
	"context"
	"fmt"

	"github.com/Alias1177/Analyzer/internal/platform/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Notifier delivers a text alert.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Sender is the part of *tgbotapi.BotAPI used for delivery.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts alerts to a single chat.
type Telegram struct {
	bot    Sender
	chatID int64
	logger zerolog.Logger
}

func NewTelegram(bot Sender, chatID int64) *Telegram {
	return &Telegram{
		bot:    bot,
		chatID: chatID,
		logger: logger.Component("telegram_notifier"),
	}
}

func (t *Telegram) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Error().Err(err).Int64("chat_id", t.chatID).Msg("Failed to send alert")
		return fmt.Errorf("telegram send: %w", err)
	}
	t.logger.Debug().Int64("chat_id", t.chatID).Msg("Alert sent")
	return nil
}

// Noop drops every alert.
type Noop struct{}

func (Noop) Notify(context.Context, string) error {
	return nil
}
