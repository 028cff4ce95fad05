// Package metrics provides centralized Prometheus metrics registry for the
// Partner Center client.
// Metrics are defined in their respective packages (client, enumerator,
// cache, ratelimit) and registered with Registry through promauto.With.
//
// This package provides documentation and the HTTP handler exposing them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer every client metric is created with.
var Registry = prometheus.DefaultRegisterer

// Gatherer reads the metrics registered with Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler returns the HTTP handler serving all registered metrics in the
// Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - partnercenter_requests_total{operation, status} (Counter): Requests by operation and HTTP status
//   - partnercenter_request_duration_seconds{operation} (Histogram): Request duration including retries
//   - partnercenter_errors_total{class} (Counter): Errors by class (client, not_found, throttled, server, network)
//
// Retry Metrics (pkg/client):
//   - partnercenter_retries_total{error_class} (Counter): Retry attempts by error class
//   - partnercenter_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - partnercenter_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Throttle Metrics (pkg/ratelimit):
//   - partnercenter_throttles_total (Counter): 429 responses recorded
//   - partnercenter_throttle_waits_total (Counter): Requests delayed by an active throttle window
//   - partnercenter_throttle_wait_seconds (Histogram): Time spent waiting for throttle windows
//
// Cache Metrics (pkg/cache):
//   - partnercenter_cache_hits_total (Counter): Cache hits
//   - partnercenter_cache_misses_total (Counter): Cache misses
//   - partnercenter_cache_not_modified_total (Counter): 304 Not Modified responses
//   - partnercenter_cache_conditional_requests_total (Counter): Conditional requests sent with If-None-Match
//   - partnercenter_cache_errors_total{operation} (Counter): Cache operation errors
//
// Enumeration Metrics (pkg/enumerator):
//   - partnercenter_enumerator_pages_total{strategy} (Counter): Pages fetched by enumerators
//   - partnercenter_enumerator_fetch_errors_total{strategy} (Counter): Failed page fetches
//   - partnercenter_enumerator_empty_page_stops_total{strategy} (Counter): Enumerations ended by an empty page
//
// Example Prometheus Queries:
//
//   # Throttle Rate
//   rate(partnercenter_throttles_total[5m])
//
//   # Request Error Rate by class
//   sum by (class) (rate(partnercenter_errors_total[5m]))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(partnercenter_request_duration_seconds_bucket[5m]))
//
//   # 304 Response Rate
//   rate(partnercenter_cache_not_modified_total[5m]) / rate(partnercenter_requests_total[5m])
