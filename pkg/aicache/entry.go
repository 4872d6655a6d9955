// Package aicache provides cache-aside storage for AI gateway responses,
// keyed by a digest of the operation name and its parameters.
package aicache

import (
	"encoding/json"
	"time"
)

// Entry represents one cached AI response.
type Entry struct {
	// CacheKey is the SHA-256 hex digest identifying one (operation, params)
	// pair. Primary key in durable stores.
	CacheKey string `json:"cache_key" db:"cache_key"`

	// Operation is the logical name of the cached operation
	// (e.g., "generate-outline"). Used for diagnostics, not for lookup.
	Operation string `json:"function_name" db:"function_name"`

	// RequestHash is a redundant copy of the key material, kept for audit.
	RequestHash string `json:"request_hash" db:"request_hash"`

	// Response is the cached payload. Its internal schema is not validated
	// here; callers are trusted to store what they expect to read back.
	Response json.RawMessage `json:"response" db:"response"`

	// ExpiresAt is when the entry becomes ineligible for reads. Expiry is
	// lazy: rows may outlive this timestamp until overwritten or purged.
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`

	// HitCount counts reads served from this entry. Best-effort; lost
	// updates under concurrent hits are acceptable.
	HitCount int64 `json:"hit_count" db:"hit_count"`

	// CreatedAt is when the entry was written.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsExpired returns true once the entry has passed its expiry time.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// TTL returns the time until expiration, or 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.ExpiresAt)
	if ttl < 0 {
		return 0
	}
	return ttl
}
