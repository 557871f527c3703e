// Package metrics provides the centralized Prometheus metrics registry for
// the museum content client. All metrics are defined in their respective
// packages (cache, content) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the content client.
// All metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - museum_cache_hits_total{namespace} (Counter): Cache hits by namespace
//   - museum_cache_misses_total{namespace} (Counter): Cache misses by namespace, including expired entries
//   - museum_cache_errors_total{namespace, operation} (Counter): Backend errors by operation
//   - museum_cache_invalidations_total{namespace} (Counter): Keys dropped by scoped invalidation
//
// Request Metrics (pkg/content):
//   - museum_api_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - museum_api_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - museum_api_errors_total{class} (Counter): Errors by class (client, server, network)
//
// Retry Metrics (pkg/content):
//   - museum_api_retries_total{error_class} (Counter): Retry attempts by error class
//   - museum_api_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - museum_api_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate per Namespace
//   sum by (namespace) (rate(museum_cache_hits_total[5m])) /
//   (sum by (namespace) (rate(museum_cache_hits_total[5m])) + sum by (namespace) (rate(museum_cache_misses_total[5m])))
//
//   # Upstream Error Rate
//   rate(museum_api_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(museum_api_request_duration_seconds_bucket[5m]))
//
//   # Invalidation Volume by Namespace
//   sum by (namespace) (rate(museum_cache_invalidations_total[5m]))
