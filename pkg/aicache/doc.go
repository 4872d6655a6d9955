// Package aicache implements a cache-aside layer for AI gateway responses.
//
// The cache exists for one reason: identical generation requests within a
// TTL window should not pay for a second gateway call. It wraps an expensive
// call with "check cache, on miss call and store", keyed by a SHA-256 digest
// of the operation name and its parameters.
//
// # Basic Usage
//
//	store := aicache.NewMemoryStore()
//	c := aicache.New(store, logger)
//
//	result, err := c.Fetch(ctx, "generate-outline", params, 24*time.Hour, false,
//		func(ctx context.Context) (json.RawMessage, error) {
//			return callGateway(ctx, params)
//		})
//	if err != nil {
//		return err
//	}
//	// result.FromCache reports whether the gateway was skipped.
//
// # Stores
//
// Three Store implementations are provided:
//
//   - SQLStore: durable table via sqlx (Postgres or SQLite), lazy expiry
//   - RedisStore: Redis-native TTL, INCR-based hit counting
//   - MemoryStore: process-local map, for tests and small deployments
//
// # Failure Semantics
//
// The cache is strictly best-effort. Store failures on read degrade to a
// miss; store failures on write are logged and the freshly fetched payload
// is returned anyway. The only error Fetch propagates is the fetch
// function's own failure, which is never cached.
//
// Hit counting is fire-and-forget: the increment runs on its own goroutine
// with a bounded timeout and its failure never affects the read.
//
// # Concurrency
//
// Two concurrent requests that miss on the same key both invoke the fetch
// function; the second write overwrites the first with an equivalent
// payload. This costs a redundant gateway call, not correctness, and the
// package deliberately carries no single-flight machinery.
//
// # Metrics
//
// The package exports Prometheus counters:
//
//   - coursegen_cache_hits_total{operation}
//   - coursegen_cache_misses_total{operation}
//   - coursegen_cache_bypasses_total{operation}
//   - coursegen_cache_errors_total{operation_type}
package aicache
