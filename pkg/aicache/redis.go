package aicache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	redisEntryPrefix = "aicache:entry:"
	redisHitsPrefix  = "aicache:hits:"
)

// RedisStore is a Store backed by Redis. Unlike the SQL store, expiry is
// enforced by Redis itself: entries are written with their remaining TTL and
// vanish when it elapses, so expired rows never linger.
//
// The hit counter lives in a sibling key so it can be incremented with INCR
// instead of rewriting the entry blob. Both keys share the entry's TTL.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a store over an existing Redis client.
func NewRedisStore(redisClient *redis.Client) *RedisStore {
	if redisClient == nil {
		panic("aicache: redis client cannot be nil")
	}
	return &RedisStore{redis: redisClient}
}

// Get retrieves the entry for cacheKey. Returns ErrCacheMiss when the key is
// absent or when the stored entry reports itself expired.
func (s *RedisStore) Get(ctx context.Context, cacheKey string) (*Entry, error) {
	data, err := s.redis.Get(ctx, redisEntryPrefix+cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}

	// Redis TTL should have removed the key already; guard anyway in case
	// the entry was written without one.
	if entry.IsExpired() {
		return nil, ErrCacheMiss
	}

	if hits, err := s.redis.Get(ctx, redisHitsPrefix+cacheKey).Int64(); err == nil {
		entry.HitCount = hits
	}

	return &entry, nil
}

// Put stores the entry with its remaining TTL and resets the hit counter.
// Entries that are already expired are silently dropped.
func (s *RedisStore) Put(ctx context.Context, entry *Entry) error {
	ttl := entry.TTL()
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	pipe := s.redis.Pipeline()
	pipe.Set(ctx, redisEntryPrefix+entry.CacheKey, data, ttl)
	pipe.Set(ctx, redisHitsPrefix+entry.CacheKey, 0, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Touch increments the hit counter for cacheKey.
func (s *RedisStore) Touch(ctx context.Context, cacheKey string) error {
	if err := s.redis.Incr(ctx, redisHitsPrefix+cacheKey).Err(); err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	return nil
}
