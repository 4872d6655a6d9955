package aicache

import (
	"context"
	"errors"
)

var (
	// ErrCacheMiss indicates the requested key was not found, or the stored
	// entry has expired.
	ErrCacheMiss = errors.New("cache miss")
)

// Store is the durable backing for cached AI responses.
//
// Get must treat expired entries as absent. Put is an upsert: inserting when
// the key is new, replacing payload and expiry (and resetting HitCount to 0)
// when it exists. Touch increments the hit counter for a key and is called
// fire-and-forget by the orchestrator; implementations can ignore missing
// keys.
type Store interface {
	Get(ctx context.Context, cacheKey string) (*Entry, error)
	Put(ctx context.Context, entry *Entry) error
	Touch(ctx context.Context, cacheKey string) error
}
