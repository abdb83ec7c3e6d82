// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tandabase_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tandabase_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tandabase_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Search metrics
var (
	// SearchesTotal counts searches by entity and outcome. Outcome is
	// "results", "empty" or the short-circuit reason.
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tandabase_searches_total",
			Help: "Total number of catalog searches by outcome",
		},
		[]string{"entity", "outcome"},
	)

	SearchResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tandabase_search_results",
			Help:    "Number of rows returned per search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"entity"},
	)
)

// Workflow metrics
var (
	WorkflowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tandabase_workflows_total",
			Help: "Total number of multi-step mutations by outcome",
		},
		[]string{"workflow", "outcome"},
	)
)

// Cache metrics
var (
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tandabase_query_cache_lookups_total",
			Help: "Query cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss", "stale"
	)

	CacheInvalidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tandabase_query_cache_invalidations_total",
			Help: "Total number of cache entries dropped by mutations",
		},
	)
)

// Spotify metrics
var (
	SpotifyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tandabase_spotify_requests_total",
			Help: "Spotify API calls by operation and status",
		},
		[]string{"operation", "status"},
	)
)

// Outcome returns the label for a finished operation.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
