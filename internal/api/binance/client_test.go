package binance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Alias1177/Analyzer/internal/market"
	httpClient "github.com/Alias1177/Analyzer/internal/platform/http"
)

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *url.URL) {
	t.Helper()
	seen := &url.URL{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = *r.URL
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func newTestClient(baseURL string) *Client {
	return NewClient(ClientOptions{
		BaseURL:         baseURL,
		RequestTimeout:  time.Second,
		RequestsPerSec:  100,
		MaxRetries:      1,
		MaxRetryTimeout: time.Second,
	})
}

func TestClient_GetCandles(t *testing.T) {
	body := `[
		[1700000000000,"100.0","110.0","95.0","105.0","12.5",1700014399999,"1300.0",42,"6.0","630.0","0"],
		[1700014400000,"105.0","107.0","101.0","102.0","8.25",1700028799999,"840.0",30,"4.0","410.0","0"]
	]`
	srv, seen := newTestServer(t, http.StatusOK, body)

	candles, err := newTestClient(srv.URL).GetCandles(context.Background(), "BTCUSDT", "4h", 2)
	if err != nil {
		t.Fatalf("GetCandles() error = %v", err)
	}

	if seen.Path != klinePath {
		t.Errorf("path = %s, want %s", seen.Path, klinePath)
	}
	q := seen.Query()
	if q.Get("symbol") != "BTCUSDT" || q.Get("interval") != "4h" || q.Get("limit") != "2" {
		t.Errorf("query = %v", q)
	}

	if len(candles) != 2 {
		t.Fatalf("got %d candles, want 2", len(candles))
	}
	if c := candles[0]; c.OpenTime != 1700000000000 || c.Close != 105 || c.Volume != 12.5 {
		t.Errorf("first candle = %+v", c)
	}
}

func TestClient_GetCandles_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{
			name:   "empty series",
			status: http.StatusOK,
			body:   `[]`,
			check:  func(err error) bool { return errors.Is(err, market.ErrNoCandles) },
		},
		{
			name:   "malformed kline",
			status: http.StatusOK,
			body:   `[[1700000000000,"1","2","0.5","oops","1"]]`,
			check: func(err error) bool {
				var malformed *market.MalformedCandleError
				return errors.As(err, &malformed) && malformed.Field == "close"
			},
		},
		{
			name:   "invalid symbol",
			status: http.StatusBadRequest,
			body:   `{"code":-1121,"msg":"Invalid symbol."}`,
			check: func(err error) bool {
				var statusErr *httpClient.HTTPStatusError
				return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusBadRequest
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			_, err := newTestClient(srv.URL).GetCandles(context.Background(), "BTCUSDT", "1d", 10)
			if err == nil || !tt.check(err) {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}
