package main

import (
	"context"
	"strings"
	"time"

	"github.com/Alias1177/Analyzer/internal/analysis/prediction"
	"github.com/Alias1177/Analyzer/internal/market"
	"github.com/Alias1177/Analyzer/internal/model"
	"github.com/Alias1177/Analyzer/internal/notifier"
	"github.com/Alias1177/Analyzer/internal/platform/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const (
	symbolCallbackPrefix = "symbol_"
	analyzeTimeout       = 45 * time.Second
	usage                = "Send /analyze SYMBOL, e.g. /analyze BTCUSDT, or pick a pair below."
)

// multiAnalyzer is the part of the timeframe analyzer the bot uses.
type multiAnalyzer interface {
	Analyze(ctx context.Context, symbol string) model.MultiTimeframe
	Config() model.EngineConfig
}

// botAPI is the part of *tgbotapi.BotAPI the handler calls.
type botAPI interface {
	notifier.Sender
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type handler struct {
	bot       botAPI
	analyzer  multiAnalyzer
	watchlist []string
	logger    zerolog.Logger
}

func newHandler(bot botAPI, analyzer multiAnalyzer, watchlist []string) *handler {
	return &handler{
		bot:       bot,
		analyzer:  analyzer,
		watchlist: watchlist,
		logger:    logger.Component("tgbot"),
	}
}

func (h *handler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	switch {
	case message.IsCommand() && message.Command() == "analyze":
		arg := strings.TrimSpace(message.CommandArguments())
		if arg == "" {
			h.sendMenu(chatID, usage)
			return
		}
		h.runAnalysis(ctx, chatID, arg)
	case message.IsCommand() && (message.Command() == "start" || message.Command() == "help"):
		h.sendMenu(chatID, "Welcome to the crypto indicator bot! "+usage)
	default:
		h.sendMenu(chatID, usage)
	}
}

func (h *handler) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	// Acknowledge the button press
	if _, err := h.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to answer callback")
	}
	if callback.Message == nil {
		return
	}
	symbol, ok := strings.CutPrefix(callback.Data, symbolCallbackPrefix)
	if !ok {
		return
	}
	h.runAnalysis(ctx, callback.Message.Chat.ID, symbol)
}

// runAnalysis analyzes every configured timeframe and replies with the report.
func (h *handler) runAnalysis(ctx context.Context, chatID int64, raw string) {
	symbol, err := market.NormalizeSymbol(raw)
	if err != nil {
		h.send(chatID, "Invalid symbol "+raw+". Use 2-20 letters or digits, e.g. BTCUSDT.")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, analyzeTimeout)
	defer cancel()

	cfg := h.analyzer.Config()
	result := h.analyzer.Analyze(ctx, symbol)
	summaries := prediction.SummarizeAll(symbol, result, cfg)

	h.logger.Info().Int64("chat_id", chatID).Str("symbol", symbol).Msg("Analysis requested")
	h.send(chatID, notifier.FormatReport(symbol, cfg.Intervals, summaries))
}

// sendMenu shows the watchlist as inline buttons, two per row.
func (h *handler) sendMenu(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(h.watchlist) > 0 {
		var keyboard [][]tgbotapi.InlineKeyboardButton
		var row []tgbotapi.InlineKeyboardButton
		for i, symbol := range h.watchlist {
			if i%2 == 0 && i > 0 {
				keyboard = append(keyboard, row)
				row = []tgbotapi.InlineKeyboardButton{}
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(symbol, symbolCallbackPrefix+symbol))
		}
		keyboard = append(keyboard, row)
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	}
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send menu")
	}
}

func (h *handler) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}
