package aicache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks reads served from the cache, by operation.
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursegen_cache_hits_total",
			Help: "Total number of AI response cache hits",
		},
		[]string{"operation"},
	)

	// cacheMisses tracks reads that fell through to the gateway, by operation.
	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursegen_cache_misses_total",
			Help: "Total number of AI response cache misses",
		},
		[]string{"operation"},
	)

	// cacheBypasses tracks reads that skipped the cache on request.
	cacheBypasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursegen_cache_bypasses_total",
			Help: "Total number of cache reads skipped via the bypass flag",
		},
		[]string{"operation"},
	)

	// cacheErrors tracks store operation failures. These are swallowed by
	// the orchestrator, so the counter is the main signal that the store is
	// unhealthy.
	cacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursegen_cache_errors_total",
			Help: "Total number of cache store operation errors",
		},
		[]string{"operation_type"}, // "get", "put", "touch"
	)
)
