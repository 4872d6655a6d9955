package aicache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// keyMaterial is the canonical shape hashed into a cache key. Field order is
// fixed so the serialized form is stable across calls.
type keyMaterial struct {
	Operation string `json:"operation"`
	Params    any    `json:"params"`
}

// Key computes the cache key for an operation and its parameters.
// The key is the lowercase hex SHA-256 digest of the canonical JSON
// serialization of {operation, params}.
//
// encoding/json sorts map keys, so map-typed params with identical content
// always produce the same key regardless of insertion order. Struct params
// serialize in declared field order, which is stable per type. Callers that
// want two requests to share a cache entry must pass params of the same
// concrete shape.
func Key(operation string, params any) string {
	payload, err := json.Marshal(keyMaterial{Operation: operation, Params: params})
	if err != nil {
		// Non-serializable params (channels, funcs). Fall back to the fmt
		// rendering so the call still gets a stable-enough key instead of
		// failing; such params should not normally reach the cache.
		payload = []byte(fmt.Sprintf("%s:%+v", operation, params))
	}

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
