package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the analysis engine.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	FetchesTotal    *prometheus.CounterVec   // labels: interval, outcome
	AnalyzeDuration *prometheus.HistogramVec // labels: interval
	SignalsTotal    *prometheus.CounterVec   // labels: action
	CacheRequests   *prometheus.CounterVec   // labels: result
	ScansTotal      *prometheus.CounterVec   // labels: outcome
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analyzer_timeframe_fetches_total",
			Help: "Per-timeframe candle fetches by outcome",
		}, []string{"interval", "outcome"}),
		AnalyzeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "analyzer_timeframe_duration_seconds",
			Help:    "Fetch plus indicator computation time per timeframe",
			Buckets: prometheus.DefBuckets,
		}, []string{"interval"}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analyzer_signals_total",
			Help: "Classified signals by action",
		}, []string{"action"}),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analyzer_cache_requests_total",
			Help: "Analysis cache lookups by result",
		}, []string{"result"}),
		ScansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analyzer_scans_total",
			Help: "Scheduled watchlist scans by outcome",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.FetchesTotal,
		m.AnalyzeDuration,
		m.SignalsTotal,
		m.CacheRequests,
		m.ScansTotal,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveTimeframe(interval string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.FetchesTotal.WithLabelValues(interval, outcome).Inc()
	m.AnalyzeDuration.WithLabelValues(interval).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveSignal(action string) {
	if m == nil {
		return
	}
	m.SignalsTotal.WithLabelValues(action).Inc()
}

// ObserveCache records a lookup; result is hit, miss or error.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveScan(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ScansTotal.WithLabelValues(outcome).Inc()
}
