package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by namespace
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "museum_cache_hits_total",
			Help: "Total number of content cache hits",
		},
		[]string{"namespace"},
	)

	// CacheMisses tracks cache misses by namespace
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "museum_cache_misses_total",
			Help: "Total number of content cache misses",
		},
		[]string{"namespace"},
	)

	// CacheErrors tracks backend operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "museum_cache_errors_total",
			Help: "Total number of cache backend operation errors",
		},
		[]string{"namespace", "operation"}, // "get", "set", "delete", "invalidate"
	)

	// CacheInvalidations tracks scoped invalidation runs
	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "museum_cache_invalidations_total",
			Help: "Total number of cache invalidation runs",
		},
		[]string{"namespace"},
	)
)
