package app

import (
	"context"
	"testing"

	"github.com/Alias1177/Analyzer/internal/config"
	"github.com/Alias1177/Analyzer/internal/database"
	"github.com/Alias1177/Analyzer/internal/notifier"
	"github.com/alicebob/miniredis/v2"
)

func TestBootstrap(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name      string
		redisAddr string
		wantRedis bool
	}{
		{"no cache", "", false},
		{"redis", mr.Addr(), true},
		{"unreachable redis", "127.0.0.1:1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.RedisAddr = tt.redisAddr

			a, err := Bootstrap(context.Background(), cfg)
			if err != nil {
				t.Fatalf("Bootstrap() error = %v", err)
			}
			defer a.Close()

			if a.Analyzer == nil || a.Metrics == nil {
				t.Fatal("analyzer and metrics must be set")
			}
			if _, ok := a.Checks["redis"]; ok != tt.wantRedis {
				t.Errorf("redis check present = %v, want %v", ok, tt.wantRedis)
			}
			if tt.wantRedis {
				if err := a.Checks["redis"](context.Background()); err != nil {
					t.Errorf("redis check: %v", err)
				}
			}
		})
	}
}

func TestBootstrap_UnknownSource(t *testing.T) {
	cfg := config.Default()
	cfg.CandleSource = "kraken"
	if _, err := Bootstrap(context.Background(), cfg); err == nil {
		t.Error("expected an error for an unknown source")
	}
}

func TestFallbacks(t *testing.T) {
	a, err := Bootstrap(context.Background(), config.Default())
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if _, ok := a.Recorder(context.Background()).(database.Noop); !ok {
		t.Error("recorder without database config should be a noop")
	}
	n, err := a.Notifier()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := n.(notifier.Noop); !ok {
		t.Error("notifier without telegram config should be a noop")
	}
	if _, err := a.TelegramBot(); err == nil {
		t.Error("TelegramBot() without a token should fail")
	}
}
