package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/Alias1177/Analyzer/internal/metrics"
	"github.com/Alias1177/Analyzer/internal/model"
	"github.com/Alias1177/Analyzer/internal/platform/logger"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Analyzer is what the HTTP layer needs from the timeframe analyzer.
type Analyzer interface {
	Analyze(ctx context.Context, symbol string) model.MultiTimeframe
	AnalyzeInterval(ctx context.Context, symbol, interval string) ([]model.EnrichedCandle, error)
	Config() model.EngineConfig
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Server exposes the analyzer over HTTP and WebSocket.
type Server struct {
	analyzer  Analyzer
	metrics   *metrics.Metrics
	checks    map[string]HealthCheck
	minStream time.Duration
	limiter   *clientLimiter
	logger    zerolog.Logger
}

type Option func(*Server)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithHealthCheck adds a named dependency probe to /healthz.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(s *Server) {
		s.checks[name] = check
	}
}

// WithRateLimit sets the per-client request budget. A zero limit disables limiting.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(s *Server) {
		if limit == 0 {
			s.limiter = nil
			return
		}
		s.limiter = newClientLimiter(limit, burst)
	}
}

// WithMinStreamInterval bounds how often a stream client may ask for updates.
func WithMinStreamInterval(d time.Duration) Option {
	return func(s *Server) {
		s.minStream = d
	}
}

func New(analyzer Analyzer, opts ...Option) *Server {
	s := &Server{
		analyzer:  analyzer,
		checks:    map[string]HealthCheck{},
		minStream: 5 * time.Second,
		limiter:   newClientLimiter(DefaultClientRate, DefaultClientBurst),
		logger:    logger.Component("http_server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed and logged HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/bot/analyze", s.handleBotAnalyze)
	mux.HandleFunc("GET /api/analysis", s.handleInterval)
	mux.HandleFunc("GET /api/analysis/summary", s.handleSummary)
	mux.HandleFunc("GET /ws/analysis", s.handleStream)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return s.logRequests(s.recoverPanics(s.limitClients(mux)))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	setCORS(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// statusWriter records the response status for the access log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Hijack lets the WebSocket upgrader take over the connection.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Msg("Request served")
	})
}
