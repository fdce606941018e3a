package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Alias1177/Analyzer/internal/market"
	"github.com/Alias1177/Analyzer/internal/model"
	httpClient "github.com/Alias1177/Analyzer/internal/platform/http"
	"github.com/Alias1177/Analyzer/internal/platform/logger"
	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.twelvedata.com"

// Client is the TwelveData API client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new TwelveData client
type ClientOptions struct {
	APIKey          string
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
}

type timeSeriesResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Values  []timeSeriesValue `json:"values"`
}

type timeSeriesValue struct {
	Datetime string          `json:"datetime"`
	Open     json.RawMessage `json:"open"`
	High     json.RawMessage `json:"high"`
	Low      json.RawMessage `json:"low"`
	Close    json.RawMessage `json:"close"`
	Volume   json.RawMessage `json:"volume"`
}

// NewClient creates a new TwelveData API client
func NewClient(options ClientOptions) *Client {
	httpOpts := httpClient.ClientOptions{
		Timeout:         options.RequestTimeout,
		RequestsPerSec:  options.RequestsPerSec,
		MaxRetries:      options.MaxRetries,
		MaxRetryTimeout: options.MaxRetryTimeout,
	}

	// Apply defaults if not set
	if httpOpts.Timeout == 0 {
		httpOpts.Timeout = 30 * time.Second
	}
	if httpOpts.RequestsPerSec == 0 {
		httpOpts.RequestsPerSec = 5
	}
	if options.BaseURL == "" {
		options.BaseURL = defaultBaseURL
	}

	return &Client{
		apiKey:     options.APIKey,
		baseURL:    options.BaseURL,
		httpClient: httpClient.NewClient(httpOpts),
		logger:     logger.Component("twelvedata_client"),
	}
}

// GetCandles fetches candle data from Twelve Data API, oldest first.
func (c *Client) GetCandles(ctx context.Context, symbol string, interval string, count int) ([]model.Candle, error) {
	q := url.Values{}
	q.Set("symbol", pairSymbol(symbol))
	q.Set("interval", mapInterval(interval))
	q.Set("outputsize", strconv.Itoa(count))
	q.Set("timezone", "UTC")
	q.Set("apikey", c.apiKey)
	endpoint := c.baseURL + "/time_series?" + q.Encode()

	c.logger.Debug().Str("symbol", symbol).Str("interval", interval).Int("count", count).Msg("Fetching candles")

	body, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	var data timeSeriesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error().Err(err).Str("response", string(body)).Msg("Error parsing JSON")
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	if data.Status == "error" {
		c.logger.Error().Str("response", string(body)).Msg("Twelve Data API error")
		return nil, fmt.Errorf("twelve data API error: %s", data.Message)
	}

	if len(data.Values) == 0 {
		c.logger.Warn().Str("symbol", symbol).Str("interval", interval).Msg("No candles in response")
		return nil, market.ErrNoCandles
	}

	// Sort candles by datetime (oldest first for proper calculations)
	sort.Slice(data.Values, func(i, j int) bool {
		return data.Values[i].Datetime < data.Values[j].Datetime
	})

	candles := make([]model.Candle, 0, len(data.Values))
	for i, v := range data.Values {
		candle, err := v.toCandle(i)
		if err != nil {
			return nil, err
		}
		candles = append(candles, candle)
	}

	if err := market.Validate(candles); err != nil {
		return nil, err
	}

	c.logger.Debug().Int("count", len(candles)).Msg("Fetched candles")
	return candles, nil
}

func (v timeSeriesValue) toCandle(index int) (model.Candle, error) {
	openTime, err := parseDatetime(v.Datetime)
	if err != nil {
		return model.Candle{}, &market.MalformedCandleError{Index: index, Field: "datetime", Value: v.Datetime, Err: err}
	}

	fields := []struct {
		name string
		raw  json.RawMessage
		dst  *float64
	}{
		{"open", v.Open, new(float64)},
		{"high", v.High, new(float64)},
		{"low", v.Low, new(float64)},
		{"close", v.Close, new(float64)},
		{"volume", v.Volume, new(float64)},
	}
	for _, f := range fields {
		// forex and index series carry no volume
		if f.name == "volume" && len(f.raw) == 0 {
			continue
		}
		if len(f.raw) == 0 {
			return model.Candle{}, &market.MalformedCandleError{Index: index, Field: f.name, Err: market.ErrMissingField}
		}
		d, err := market.ParseDecimal(f.raw)
		if err != nil {
			return model.Candle{}, &market.MalformedCandleError{Index: index, Field: f.name, Value: string(f.raw), Err: err}
		}
		*f.dst = d.InexactFloat64()
	}

	return model.Candle{
		OpenTime: openTime,
		Open:     *fields[0].dst,
		High:     *fields[1].dst,
		Low:      *fields[2].dst,
		Close:    *fields[3].dst,
		Volume:   *fields[4].dst,
	}, nil
}

// parseDatetime accepts "2006-01-02 15:04:05" and "2006-01-02" in UTC and
// returns epoch milliseconds.
func parseDatetime(s string) (int64, error) {
	for _, layout := range []string{time.DateTime, time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized datetime %q", s)
}

// mapInterval converts exchange-style interval labels to Twelve Data names.
func mapInterval(interval string) string {
	switch interval {
	case "1m":
		return "1min"
	case "5m":
		return "5min"
	case "15m":
		return "15min"
	case "30m":
		return "30min"
	case "1d":
		return "1day"
	case "1w":
		return "1week"
	case "1M":
		return "1month"
	default:
		return interval
	}
}

// pairSymbol turns BTCUSDT into BTC/USDT; symbols that already carry a
// separator or have no known quote currency pass through.
func pairSymbol(symbol string) string {
	if strings.Contains(symbol, "/") {
		return symbol
	}
	for _, quote := range []string{"USDT", "USDC", "BUSD", "USD", "EUR", "BTC"} {
		if base, ok := strings.CutSuffix(symbol, quote); ok && base != "" {
			return base + "/" + quote
		}
	}
	return symbol
}
