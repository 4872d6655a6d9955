// Package metrics provides the centralized Prometheus metrics registry for
// the course generation service. All metrics are defined in their respective
// packages (aicache, gateway, ratelimit) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the service.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/aicache):
//   - coursegen_cache_hits_total{operation} (Counter): Cache hits by generation operation
//   - coursegen_cache_misses_total{operation} (Counter): Cache misses by generation operation
//   - coursegen_cache_bypasses_total{operation} (Counter): Reads skipped via the bypass flag
//   - coursegen_cache_errors_total{operation_type} (Counter): Store errors by operation type (get, put, touch)
//
// Gateway Request Metrics (pkg/gateway):
//   - coursegen_gateway_requests_total{model, status} (Counter): Total gateway requests by model and HTTP status
//   - coursegen_gateway_request_duration_seconds{model} (Histogram): Request duration by model
//   - coursegen_gateway_errors_total{class} (Counter): Errors by class (client, server, rate_limit, credits, network)
//
// Gateway Retry Metrics (pkg/gateway):
//   - coursegen_gateway_retries_total{error_class} (Counter): Retry attempts by error class
//   - coursegen_gateway_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - coursegen_gateway_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Availability Gate Metrics (pkg/ratelimit):
//   - coursegen_gateway_cooldown_seconds (Gauge): Seconds remaining in the current cooldown (0 when healthy)
//   - coursegen_gateway_gate_blocks_total (Counter): Requests blocked by the availability gate
//   - coursegen_gateway_cooldowns_total{reason} (Counter): Cooldowns recorded by rejection reason
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(coursegen_cache_hits_total[5m])) /
//   (sum(rate(coursegen_cache_hits_total[5m])) + sum(rate(coursegen_cache_misses_total[5m])))
//
//   # Gateway Error Rate
//   rate(coursegen_gateway_errors_total[5m])
//
//   # P95 Gateway Latency
//   histogram_quantile(0.95, rate(coursegen_gateway_request_duration_seconds_bucket[5m]))
//
//   # Active Cooldown
//   coursegen_gateway_cooldown_seconds > 0
