// Package metrics provides the central Prometheus registry reference for the
// paged API client. All metrics are defined in their respective packages
// (paginator, client, cache, ratelimit) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Paginator Metrics (pkg/paginator):
//   - listapi_pages_fetched_total{method, mode} (Counter): Pages fetched by list method and paging mode
//   - listapi_records_fetched_total{method} (Counter): Records fetched by list method
//
// Rate Limit Metrics (pkg/ratelimit):
//   - listapi_rate_limit_remaining (Gauge): Requests remaining in the current upstream window
//   - listapi_rate_limit_blocks_total (Counter): Requests blocked due to critical quota
//   - listapi_rate_limit_throttles_total (Counter): Requests throttled due to low quota
//
// Cache Metrics (pkg/cache):
//   - listapi_cache_hits_total (Counter): Cache hits
//   - listapi_cache_misses_total (Counter): Cache misses
//   - listapi_304_responses_total (Counter): 304 Not Modified responses
//   - listapi_conditional_requests_total (Counter): Conditional requests sent with If-None-Match
//   - listapi_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - listapi_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - listapi_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - listapi_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/client):
//   - listapi_retries_total{error_class} (Counter): Retry attempts by error class
//   - listapi_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - listapi_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(listapi_cache_hits_total[5m])) /
//   (sum(rate(listapi_cache_hits_total[5m])) + sum(rate(listapi_cache_misses_total[5m])))
//
//   # Quota Status
//   listapi_rate_limit_remaining < 20
//
//   # Request Error Rate
//   rate(listapi_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(listapi_request_duration_seconds_bucket[5m]))
//
//   # Records per Page by Method
//   rate(listapi_records_fetched_total[5m]) / rate(listapi_pages_fetched_total[5m])
