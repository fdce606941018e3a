package market

import (
	"context"
	"regexp"
	"strings"

	"github.com/Alias1177/Analyzer/internal/model"
)

// Source supplies ascending OHLCV candles for a symbol and interval.
type Source interface {
	GetCandles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error)

func (f SourceFunc) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	return f(ctx, symbol, interval, limit)
}

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{2,20}$`)

// NormalizeSymbol upper-cases and trims a user-supplied symbol and checks its shape.
func NormalizeSymbol(raw string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if !symbolPattern.MatchString(symbol) {
		return "", ErrBadSymbol
	}
	return symbol, nil
}
