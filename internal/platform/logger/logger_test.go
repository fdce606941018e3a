package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug", "json", "analyzer")
	l.Debug().Str("interval", "4h").Msg("computed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["service"] != "analyzer" || entry["interval"] != "4h" || entry["level"] != "debug" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestNew_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := New(&bytes.Buffer{}, tt.level, "json", "").GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", "console", "scanner")
	l.Info().Msg("scan finished")

	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Errorf("console output looks like JSON: %s", out)
	}
	if !strings.Contains(out, "scan finished") {
		t.Errorf("message missing from %q", out)
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	saved := log.Logger
	log.Logger = New(&buf, "info", "json", "server")
	t.Cleanup(func() { log.Logger = saved })

	l := Component("http_server")
	l.Info().Msg("listening")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["component"] != "http_server" || entry["service"] != "server" {
		t.Errorf("unexpected entry %v", entry)
	}
}
