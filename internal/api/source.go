package api

import (
	"fmt"

	"github.com/Alias1177/Analyzer/internal/api/binance"
	"github.com/Alias1177/Analyzer/internal/api/twelvedata"
	"github.com/Alias1177/Analyzer/internal/config"
	"github.com/Alias1177/Analyzer/internal/market"
)

// NewCandleSource builds the candle client selected by cfg.CandleSource.
func NewCandleSource(cfg *config.Config) (market.Source, error) {
	switch cfg.CandleSource {
	case config.SourceBinance:
		return binance.NewClient(binance.ClientOptions{
			BaseURL:         cfg.BinanceBaseURL,
			RequestTimeout:  cfg.RequestTimeout,
			RequestsPerSec:  cfg.RequestsPerSec,
			MaxRetries:      cfg.MaxRetries,
			MaxRetryTimeout: cfg.RequestTimeout,
		}), nil
	case config.SourceTwelveData:
		return twelvedata.NewClient(twelvedata.ClientOptions{
			APIKey:          cfg.TwelveAPIKey,
			RequestTimeout:  cfg.RequestTimeout,
			RequestsPerSec:  cfg.RequestsPerSec,
			MaxRetries:      cfg.MaxRetries,
			MaxRetryTimeout: cfg.RequestTimeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown candle source %q", cfg.CandleSource)
	}
}
