package aicache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTTL is the fallback TTL when the caller passes a non-positive one.
const DefaultTTL = 24 * time.Hour

// touchTimeout bounds the fire-and-forget hit-count update so a stalled
// store cannot leak goroutines indefinitely.
const touchTimeout = 5 * time.Second

// FetchFunc produces the payload on a cache miss. It is only invoked when
// the cache cannot satisfy the read.
type FetchFunc func(ctx context.Context) (json.RawMessage, error)

// Result is the outcome of a cache-aside fetch.
type Result struct {
	// Payload is the response, either from the cache or freshly fetched.
	Payload json.RawMessage

	// FromCache reports whether the payload was served from the cache.
	FromCache bool

	// CacheKey is the computed key for this (operation, params) pair.
	CacheKey string
}

// Cache wraps an expensive external call with transparent cache-aside
// semantics. Store failures degrade to "always fetch" and are never
// surfaced; only the fetch function's own errors propagate.
//
// Two concurrent misses for the same key both invoke the fetch function and
// the second write overwrites the first with an equivalent payload. There is
// no single-flight de-duplication.
type Cache struct {
	store  Store
	logger zerolog.Logger
}

// New creates a cache-aside orchestrator over the given store.
func New(store Store, logger zerolog.Logger) *Cache {
	if store == nil {
		panic("aicache: store cannot be nil")
	}
	return &Cache{
		store:  store,
		logger: logger.With().Str("component", "aicache").Logger(),
	}
}

// Fetch returns the cached payload for (operation, params) when a fresh
// entry exists, and otherwise invokes fetch and stores its result under the
// computed key with the given TTL.
//
// When skipCache is true the fetch function always runs, but its result is
// still written back so subsequent non-bypassed reads see fresh data.
// Failed fetches are never cached.
func (c *Cache) Fetch(ctx context.Context, operation string, params any, ttl time.Duration, skipCache bool, fetch FetchFunc) (Result, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	cacheKey := Key(operation, params)
	logger := c.logger.With().Str("operation", operation).Str("cache_key", cacheKey).Logger()

	if skipCache {
		cacheBypasses.WithLabelValues(operation).Inc()
		logger.Debug().Msg("Cache bypass requested")
		return c.fetchAndStore(ctx, logger, operation, cacheKey, ttl, fetch)
	}

	entry, err := c.store.Get(ctx, cacheKey)
	switch {
	case err == nil:
		cacheHits.WithLabelValues(operation).Inc()
		logger.Debug().Dur("ttl_remaining", entry.TTL()).Msg("Cache hit")
		c.touchAsync(cacheKey, operation)
		return Result{Payload: entry.Response, FromCache: true, CacheKey: cacheKey}, nil

	case err == ErrCacheMiss:
		cacheMisses.WithLabelValues(operation).Inc()
		logger.Debug().Msg("Cache miss")

	default:
		// Store unavailable: treat as a miss and fall through to the fetch.
		cacheErrors.WithLabelValues("get").Inc()
		logger.Warn().Err(err).Msg("Cache get failed, falling through to fetch")
	}

	return c.fetchAndStore(ctx, logger, operation, cacheKey, ttl, fetch)
}

// fetchAndStore runs the expensive call and best-effort writes the result.
func (c *Cache) fetchAndStore(ctx context.Context, logger zerolog.Logger, operation, cacheKey string, ttl time.Duration, fetch FetchFunc) (Result, error) {
	payload, err := fetch(ctx)
	if err != nil {
		// Propagate untouched; failures are not cached.
		return Result{}, err
	}

	now := time.Now()
	entry := &Entry{
		CacheKey:    cacheKey,
		Operation:   operation,
		RequestHash: cacheKey,
		Response:    payload,
		ExpiresAt:   now.Add(ttl),
		HitCount:    0,
		CreatedAt:   now,
	}

	if err := c.store.Put(ctx, entry); err != nil {
		// Best-effort: the payload is already in hand, return it anyway.
		cacheErrors.WithLabelValues("put").Inc()
		logger.Warn().Err(err).Msg("Failed to cache response")
	} else {
		logger.Debug().Dur("ttl", ttl).Msg("Cached response")
	}

	return Result{Payload: payload, FromCache: false, CacheKey: cacheKey}, nil
}

// touchAsync increments the hit counter without blocking the read path.
// Failures are logged and discarded.
func (c *Cache) touchAsync(cacheKey, operation string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), touchTimeout)
		defer cancel()

		if err := c.store.Touch(ctx, cacheKey); err != nil {
			cacheErrors.WithLabelValues("touch").Inc()
			c.logger.Warn().Err(err).
				Str("operation", operation).
				Str("cache_key", cacheKey).
				Msg("Failed to update hit count")
		}
	}()
}
