package cache

import (
	"github.com/Sternrassler/unpage/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// factory registers on the shared unpage registry.
var factory = promauto.With(metrics.Registry)

var (
	// CacheHits tracks lookups that found a live entry.
	CacheHits = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "unpage_cache_hits_total",
			Help: "Total number of page cache hits",
		},
	)

	// CacheMisses tracks lookups without a live entry.
	CacheMisses = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "unpage_cache_misses_total",
			Help: "Total number of page cache misses",
		},
	)

	// NotModifiedResponses tracks 304 answers served from the cache.
	NotModifiedResponses = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "unpage_304_responses_total",
			Help: "Total number of 304 Not Modified responses served from cache",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unpage_cache_errors_total",
			Help: "Total number of page cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
