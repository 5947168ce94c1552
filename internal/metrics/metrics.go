package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   prometheus.CounterVec
	HTTPRequestDuration prometheus.HistogramVec

	// Cache metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Ranking metrics
	RankingComputations   prometheus.CounterVec
	RankingDuration       prometheus.HistogramVec
	ViewsSuppressedTotal  prometheus.Counter
	InteractionsTotal     prometheus.CounterVec
	SearchFallbacksTotal  prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			CacheHitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_hits_total",
					Help: "Total cache hits",
				},
				[]string{"cache"},
			),
			CacheMissesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_misses_total",
					Help: "Total cache misses",
				},
				[]string{"cache"},
			),
			RankingComputations: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "ranking_computations_total",
					Help: "Ranking computations by kind (feed, trending)",
				},
				[]string{"kind"},
			),
			RankingDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "ranking_duration_seconds",
					Help:    "Time spent computing rankings",
					Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
				},
				[]string{"kind"},
			),
			ViewsSuppressedTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "views_suppressed_total",
					Help: "View events suppressed by the debounce window",
				},
			),
			InteractionsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "interactions_total",
					Help: "Like/favorite/follow interactions by kind and action",
				},
				[]string{"kind", "action"},
			),
			SearchFallbacksTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "search_fallbacks_total",
					Help: "Searches served by the database fallback instead of Elasticsearch",
				},
				[]string{"entity"},
			),
		}
	})
	return instance
}

// Get returns the metrics instance, initializing it if needed
func Get() *Metrics {
	return Initialize()
}
