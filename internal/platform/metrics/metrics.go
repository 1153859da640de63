// Package metrics holds the process wide prometheus collectors
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tomotrip"

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the per client rate limiter",
		},
	)

	GuideSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guide_searches_total",
			Help:      "Guide searches by outcome (match, empty)",
		},
		[]string{"outcome"},
	)

	GuideSearchMatched = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "guide_search_matched",
			Help:      "Number of guides matched per search",
			Buckets:   []float64{0, 1, 3, 6, 12, 24, 48, 96, 192},
		},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "guide_catalog_size",
			Help:      "Guides in the currently served catalog snapshot",
		},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guide_catalog_reloads_total",
			Help:      "Catalog reload attempts by result (ok, error)",
		},
		[]string{"result"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guide_catalog_cache_lookups_total",
			Help:      "Catalog snapshot cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	PGQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pg_query_duration_seconds",
			Help:      "Postgres statement latency as seen by the pool tracer",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	EventSinkErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guide_search_event_errors_total",
			Help:      "Search analytics events that failed to write",
		},
	)
)

// Handler serves the default registry in the text exposition format
func Handler() http.Handler { return promhttp.Handler() }
