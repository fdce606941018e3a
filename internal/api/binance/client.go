package binance

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Alias1177/Analyzer/internal/market"
	"github.com/Alias1177/Analyzer/internal/model"
	httpClient "github.com/Alias1177/Analyzer/internal/platform/http"
	"github.com/Alias1177/Analyzer/internal/platform/logger"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://api.binance.com"
	klinePath      = "/api/v3/klines"
	maxLimit       = 1000
)

// Client reads klines from the Binance public REST API
type Client struct {
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Binance client
type ClientOptions struct {
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new Binance klines client
func NewClient(options ClientOptions) *Client {
	if options.BaseURL == "" {
		options.BaseURL = defaultBaseURL
	}
	if options.RequestsPerSec == 0 {
		options.RequestsPerSec = 10
	}

	return &Client{
		baseURL: options.BaseURL,
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout:         options.RequestTimeout,
			RequestsPerSec:  options.RequestsPerSec,
			MaxRetries:      options.MaxRetries,
			MaxRetryTimeout: options.MaxRetryTimeout,
		}),
		logger: logger.Component("binance_client"),
	}
}

// GetCandles fetches the latest limit klines, oldest first.
//
// Kline layout: [openTime, "open", "high", "low", "close", "volume", closeTime, ...].
// Trailing fields are ignored.
func (c *Client) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	u, err := url.Parse(c.baseURL + klinePath)
	if err != nil {
		return nil, fmt.Errorf("binance: parse url: %w", err)
	}
	q := u.Query()
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	c.logger.Debug().Str("symbol", symbol).Str("interval", interval).Int("limit", limit).Msg("Fetching klines")

	body, err := c.httpClient.Get(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("binance: %w", err)
	}

	candles, err := market.DecodeCandles(body)
	if err != nil {
		c.logger.Error().Err(err).Str("symbol", symbol).Str("interval", interval).Msg("Error parsing klines")
		return nil, fmt.Errorf("binance: %w", err)
	}
	if len(candles) == 0 {
		return nil, market.ErrNoCandles
	}

	c.logger.Debug().Int("count", len(candles)).Msg("Fetched klines")
	return candles, nil
}
