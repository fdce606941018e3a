package timeframe

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Alias1177/Analyzer/internal/analysis/technical"
	"github.com/Alias1177/Analyzer/internal/cache"
	"github.com/Alias1177/Analyzer/internal/market"
	"github.com/Alias1177/Analyzer/internal/metrics"
	"github.com/Alias1177/Analyzer/internal/model"
	"github.com/Alias1177/Analyzer/internal/platform/logger"
	"github.com/rs/zerolog"
)

// Analyzer fetches candles for every configured interval and attaches indicators.
type Analyzer struct {
	source   market.Source
	cfg      model.EngineConfig
	cache    cache.Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

type Option func(*Analyzer)

// WithCache serves and stores enriched series through c.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(a *Analyzer) {
		a.cache = c
		a.cacheTTL = ttl
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

func NewAnalyzer(source market.Source, cfg model.EngineConfig, opts ...Option) *Analyzer {
	a := &Analyzer{
		source: source,
		cfg:    cfg,
		cache:  cache.Noop{},
		logger: logger.Component("timeframe_analyzer"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns the engine configuration the analyzer runs with.
func (a *Analyzer) Config() model.EngineConfig {
	return a.cfg
}

// Analyze runs every configured interval concurrently. A timeframe that fails
// is logged and stored as nil; it never affects the others. The call returns
// once every timeframe has settled.
func (a *Analyzer) Analyze(ctx context.Context, symbol string) model.MultiTimeframe {
	intervals := a.cfg.Intervals
	results := make([][]model.EnrichedCandle, len(intervals))

	var wg sync.WaitGroup
	for i, interval := range intervals {
		wg.Add(1)
		go func(i int, interval string) {
			defer wg.Done()
			results[i] = a.analyzeTimeframe(ctx, symbol, interval)
		}(i, interval)
	}
	wg.Wait()

	out := make(model.MultiTimeframe, len(intervals))
	for i, interval := range intervals {
		out[interval] = results[i]
	}
	return out
}

func (a *Analyzer) analyzeTimeframe(ctx context.Context, symbol, interval string) (series []model.EnrichedCandle) {
	start := time.Now()
	if a.cfg.TimeframeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.TimeframeTimeout)
		defer cancel()
	}

	var err error
	defer func() {
		if r := recover(); r != nil {
			err = &market.FetchError{Symbol: symbol, Interval: interval, Err: fmt.Errorf("panic: %v", r)}
			series = nil
		}
		a.metrics.ObserveTimeframe(interval, err, time.Since(start))
		if err != nil {
			a.logger.Error().Err(err).Str("symbol", symbol).Str("interval", interval).Msg("Timeframe analysis failed")
			return
		}
		a.logger.Debug().
			Str("symbol", symbol).
			Str("interval", interval).
			Int("count", len(series)).
			Dur("duration", time.Since(start)).
			Msg("Timeframe analyzed")
	}()

	series, err = a.AnalyzeInterval(ctx, symbol, interval)
	return series
}

// AnalyzeInterval fetches one timeframe and returns its enriched series.
// Fetch, empty and malformed-data failures come back as *market.FetchError.
func (a *Analyzer) AnalyzeInterval(ctx context.Context, symbol, interval string) ([]model.EnrichedCandle, error) {
	key := cache.Key(symbol, interval, a.cfg.CandleLimit)
	if series, ok := a.cached(ctx, key); ok {
		return series, nil
	}

	candles, err := a.source.GetCandles(ctx, symbol, interval, a.cfg.CandleLimit)
	if err == nil && len(candles) == 0 {
		err = market.ErrNoCandles
	}
	if err == nil {
		err = market.Validate(candles)
	}
	if err != nil {
		return nil, &market.FetchError{Symbol: symbol, Interval: interval, Err: err}
	}

	series := technical.CalculateAllIndicators(candles, a.cfg)
	a.store(ctx, key, series)
	return series, nil
}

func (a *Analyzer) cached(ctx context.Context, key string) ([]model.EnrichedCandle, bool) {
	raw, ok, err := a.cache.Get(ctx, key)
	switch {
	case err != nil:
		a.metrics.ObserveCache("error")
		a.logger.Warn().Err(err).Str("key", key).Msg("Cache lookup failed")
		return nil, false
	case !ok:
		a.metrics.ObserveCache("miss")
		return nil, false
	}

	var series []model.EnrichedCandle
	if err := json.Unmarshal(raw, &series); err != nil {
		a.metrics.ObserveCache("error")
		a.logger.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		return nil, false
	}
	a.metrics.ObserveCache("hit")
	return series, true
}

func (a *Analyzer) store(ctx context.Context, key string, series []model.EnrichedCandle) {
	raw, err := json.Marshal(series)
	if err != nil {
		a.logger.Warn().Err(err).Str("key", key).Msg("Encoding series for cache failed")
		return
	}
	if err := a.cache.Set(ctx, key, raw, a.cacheTTL); err != nil {
		a.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}
