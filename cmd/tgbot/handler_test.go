package main

import (
	"context"
	"strings"
	"testing"

	"github.com/Alias1177/Analyzer/internal/model"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeBot struct {
	sent     []tgbotapi.MessageConfig
	requests int
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeBot) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type fakeAnalyzer struct {
	symbols []string
}

func (f *fakeAnalyzer) Config() model.EngineConfig {
	return model.DefaultEngineConfig()
}

func (f *fakeAnalyzer) Analyze(_ context.Context, symbol string) model.MultiTimeframe {
	f.symbols = append(f.symbols, symbol)
	rsi := 80.0
	return model.MultiTimeframe{
		"4h": {{Candle: model.Candle{OpenTime: 1, Close: 10, Volume: 1}, RSI: &rsi}},
		"1d": nil,
		"1w": nil,
	}
}

func command(text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: 42}}
	if strings.HasPrefix(text, "/") {
		end := strings.IndexByte(text, ' ')
		if end < 0 {
			end = len(text)
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: end}}
	}
	return msg
}

func TestHandleMessage(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantPrefix string
		analyzed   string
	}{
		{"analyze", "/analyze ethusdt", "ETHUSDT 4h: SELL", "ETHUSDT"},
		{"analyze without symbol", "/analyze", "Send /analyze", ""},
		{"invalid symbol", "/analyze ETH/USDT", "Invalid symbol", ""},
		{"start", "/start", "Welcome", ""},
		{"free text", "hello", "Send /analyze", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := &fakeBot{}
			analyzer := &fakeAnalyzer{}
			h := newHandler(bot, analyzer, []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"})

			h.handleMessage(context.Background(), command(tt.text))

			if len(bot.sent) != 1 {
				t.Fatalf("sent %d messages, want 1", len(bot.sent))
			}
			reply := bot.sent[0]
			if reply.ChatID != 42 || !strings.HasPrefix(reply.Text, tt.wantPrefix) {
				t.Errorf("reply = %d %q", reply.ChatID, reply.Text)
			}
			if tt.analyzed != "" {
				if len(analyzer.symbols) != 1 || analyzer.symbols[0] != tt.analyzed {
					t.Errorf("analyzed %v, want %s", analyzer.symbols, tt.analyzed)
				}
				if !strings.Contains(reply.Text, "ETHUSDT 1d: data unavailable") {
					t.Errorf("failed timeframes should be reported: %q", reply.Text)
				}
			}
		})
	}
}

func TestSendMenu_Keyboard(t *testing.T) {
	bot := &fakeBot{}
	h := newHandler(bot, &fakeAnalyzer{}, []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"})
	h.sendMenu(1, usage)

	markup, ok := bot.sent[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("reply markup = %T", bot.sent[0].ReplyMarkup)
	}
	if len(markup.InlineKeyboard) != 2 || len(markup.InlineKeyboard[0]) != 2 || len(markup.InlineKeyboard[1]) != 1 {
		t.Errorf("keyboard layout = %+v", markup.InlineKeyboard)
	}
	if data := markup.InlineKeyboard[1][0].CallbackData; data == nil || *data != "symbol_SOLUSDT" {
		t.Errorf("callback data = %v", data)
	}
}

func TestHandleCallback(t *testing.T) {
	bot := &fakeBot{}
	analyzer := &fakeAnalyzer{}
	h := newHandler(bot, analyzer, nil)

	h.handleCallback(context.Background(), &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    "symbol_BTCUSDT",
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}},
	})
	h.handleCallback(context.Background(), &tgbotapi.CallbackQuery{
		ID:      "other",
		Data:    "main_menu",
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}},
	})

	if bot.requests != 2 {
		t.Errorf("answered %d callbacks, want 2", bot.requests)
	}
	if len(analyzer.symbols) != 1 || analyzer.symbols[0] != "BTCUSDT" {
		t.Errorf("analyzed %v", analyzer.symbols)
	}
	if len(bot.sent) != 1 || !strings.HasPrefix(bot.sent[0].Text, "BTCUSDT 4h: SELL") {
		t.Errorf("sent %+v", bot.sent)
	}
}
