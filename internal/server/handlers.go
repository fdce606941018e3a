package server

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Alias1177/Analyzer/internal/analysis/prediction"
	"github.com/Alias1177/Analyzer/internal/market"
	"github.com/Alias1177/Analyzer/internal/model"
)

type analysisResponse struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval,omitempty"`
	Analysis any    `json:"analysis"`
}

type summaryResponse struct {
	Symbol    string                             `json:"symbol"`
	Summaries map[string]*model.IndicatorSummary `json:"summaries"`
}

// symbolParam reads and validates the symbol query parameter, writing a 400 on failure.
func (s *Server) symbolParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := r.URL.Query().Get("symbol")
	if strings.TrimSpace(raw) == "" {
		s.writeError(w, http.StatusBadRequest, "Symbol parameter is required, e.g., BTCUSDT")
		return "", false
	}
	symbol, err := market.NormalizeSymbol(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Symbol must be 2-20 letters or digits, e.g., BTCUSDT")
		return "", false
	}
	return symbol, true
}

// handleBotAnalyze returns every configured timeframe; failed ones are null.
func (s *Server) handleBotAnalyze(w http.ResponseWriter, r *http.Request) {
	symbol, ok := s.symbolParam(w, r)
	if !ok {
		return
	}
	result := s.analyzer.Analyze(r.Context(), symbol)
	s.writeJSON(w, http.StatusOK, analysisResponse{Symbol: symbol, Analysis: result})
}

func (s *Server) handleInterval(w http.ResponseWriter, r *http.Request) {
	symbol, ok := s.symbolParam(w, r)
	if !ok {
		return
	}
	interval := strings.TrimSpace(r.URL.Query().Get("interval"))
	if interval == "" {
		s.writeError(w, http.StatusBadRequest, "Interval parameter is required, e.g., 4h")
		return
	}

	series, err := s.analyzer.AnalyzeInterval(r.Context(), symbol, interval)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Str("interval", interval).Msg("Analysis failed")
		var malformed *market.MalformedCandleError
		switch {
		case errors.Is(err, context.Canceled):
			return
		case errors.As(err, &malformed):
			s.writeError(w, http.StatusBadGateway, "Upstream returned malformed candles")
		default:
			s.writeError(w, http.StatusBadGateway, "Failed to fetch asset analysis")
		}
		return
	}
	s.writeJSON(w, http.StatusOK, analysisResponse{Symbol: symbol, Interval: interval, Analysis: series})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	symbol, ok := s.symbolParam(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.summarize(r.Context(), symbol))
}

func (s *Server) summarize(ctx context.Context, symbol string) summaryResponse {
	cfg := s.analyzer.Config()
	result := s.analyzer.Analyze(ctx, symbol)
	summaries := prediction.SummarizeAll(symbol, result, cfg)
	for _, summary := range summaries {
		if summary != nil {
			s.metrics.ObserveSignal(string(summary.Signal.Action))
		}
	}
	return summaryResponse{Symbol: symbol, Summaries: summaries}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var failing []string
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.Warn().Err(err).Str("check", name).Msg("Health check failed")
			failing = append(failing, name)
		}
	}
	if len(failing) > 0 {
		sort.Strings(failing)
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "failing": failing})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
