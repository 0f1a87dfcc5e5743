// Package metrics provides the centralized Prometheus metrics registry for
// the acquisition and prediction pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	FetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gameline",
		Name:      "fetches_total",
		Help:      "Total upstream fetches by source and outcome",
	}, []string{"source", "outcome"})
	RelayedRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gameline",
		Name:      "relayed_requests_total",
		Help:      "Total requests routed through the secure relay",
	})
	FallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gameline",
		Name:      "fallbacks_total",
		Help:      "Total synthetic game set generations by sport",
	}, []string{"sport"})
	CacheServesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gameline",
		Name:      "cache_serves_total",
		Help:      "Total game sets served from cache by sport",
	}, []string{"sport"})
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gameline",
		Name:      "predictions_total",
		Help:      "Total predictions computed by path (formula or pinned)",
	}, []string{"path"})
)

// Gauge metrics
var (
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gameline",
		Name:      "cache_hit_ratio",
		Help:      "Ratio of cache hits to total cache lookups",
	})
	LiveGamesTracked = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gameline",
		Name:      "live_games_tracked",
		Help:      "Number of live games in the most recent game set per sport",
	}, []string{"sport"})
)

// Histogram metrics
var (
	PipelineRefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gameline",
		Name:      "pipeline_refresh_duration_seconds",
		Help:      "Duration of full pipeline refreshes in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	EnsembleScoreDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gameline",
		Name:      "ensemble_score_duration_seconds",
		Help:      "Duration of ensemble scoring in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// Registry returns the process-wide registry with all metrics registered.
func Registry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			FetchesTotal,
			RelayedRequestsTotal,
			FallbacksTotal,
			CacheServesTotal,
			PredictionsTotal,
			CacheHitRatio,
			LiveGamesTracked,
			PipelineRefreshDuration,
			EnsembleScoreDuration,
		)
	})
	return registry
}

// Handler returns an HTTP handler serving the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}
