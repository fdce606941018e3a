package twelvedata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Alias1177/Analyzer/internal/market"
)

func serve(t *testing.T, body string) (*Client, *url.URL) {
	t.Helper()
	seen := &url.URL{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = *r.URL
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientOptions{
		APIKey:          "test-key",
		BaseURL:         srv.URL,
		RequestTimeout:  time.Second,
		RequestsPerSec:  100,
		MaxRetries:      1,
		MaxRetryTimeout: time.Second,
	})
	return client, seen
}

func TestClient_GetCandles(t *testing.T) {
	body := `{
		"meta": {"symbol": "BTC/USD", "interval": "1day"},
		"values": [
			{"datetime": "2024-01-03", "open": "43000", "high": "44000", "low": "42500", "close": "43500", "volume": "120.5"},
			{"datetime": "2024-01-02", "open": "42000", "high": "43200", "low": "41800", "close": "43000", "volume": "99"}
		],
		"status": "ok"
	}`
	client, seen := serve(t, body)

	candles, err := client.GetCandles(context.Background(), "BTCUSD", "1d", 2)
	if err != nil {
		t.Fatalf("GetCandles() error = %v", err)
	}

	q := seen.Query()
	if q.Get("symbol") != "BTC/USD" || q.Get("interval") != "1day" || q.Get("outputsize") != "2" || q.Get("apikey") != "test-key" {
		t.Errorf("query = %v", q)
	}

	if len(candles) != 2 {
		t.Fatalf("got %d candles, want 2", len(candles))
	}
	jan2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).UnixMilli()
	if candles[0].OpenTime != jan2 || candles[0].Close != 43000 {
		t.Errorf("candles not sorted oldest first: %+v", candles[0])
	}
	if candles[1].Volume != 120.5 {
		t.Errorf("volume = %f, want 120.5", candles[1].Volume)
	}
}

func TestClient_GetCandles_NoVolume(t *testing.T) {
	body := `{"values":[{"datetime":"2024-01-02 08:00:00","open":"1.1","high":"1.2","low":"1.0","close":"1.15"}],"status":"ok"}`
	client, _ := serve(t, body)

	candles, err := client.GetCandles(context.Background(), "EUR/USD", "4h", 1)
	if err != nil {
		t.Fatalf("GetCandles() error = %v", err)
	}
	if candles[0].Volume != 0 {
		t.Errorf("volume = %f, want 0", candles[0].Volume)
	}
}

func TestClient_GetCandles_Errors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		check func(error) bool
	}{
		{
			name:  "api error",
			body:  `{"code":400,"message":"symbol not found","status":"error"}`,
			check: func(err error) bool { return err != nil },
		},
		{
			name:  "empty values",
			body:  `{"values":[],"status":"ok"}`,
			check: func(err error) bool { return errors.Is(err, market.ErrNoCandles) },
		},
		{
			name: "bad price",
			body: `{"values":[{"datetime":"2024-01-02","open":"x","high":"1","low":"1","close":"1","volume":"1"}],"status":"ok"}`,
			check: func(err error) bool {
				var malformed *market.MalformedCandleError
				return errors.As(err, &malformed) && malformed.Field == "open"
			},
		},
		{
			name: "bad datetime",
			body: `{"values":[{"datetime":"yesterday","open":"1","high":"1","low":"1","close":"1","volume":"1"}],"status":"ok"}`,
			check: func(err error) bool {
				var malformed *market.MalformedCandleError
				return errors.As(err, &malformed) && malformed.Field == "datetime"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := serve(t, tt.body)
			_, err := client.GetCandles(context.Background(), "BTCUSD", "1d", 10)
			if !tt.check(err) {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestMapInterval(t *testing.T) {
	for in, want := range map[string]string{"4h": "4h", "1d": "1day", "1w": "1week", "15m": "15min", "1h": "1h"} {
		if got := mapInterval(in); got != want {
			t.Errorf("mapInterval(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPairSymbol(t *testing.T) {
	for in, want := range map[string]string{"BTCUSDT": "BTC/USDT", "ETHUSD": "ETH/USD", "EUR/USD": "EUR/USD", "AAPL": "AAPL"} {
		if got := pairSymbol(in); got != want {
			t.Errorf("pairSymbol(%q) = %q, want %q", in, got, want)
		}
	}
}
