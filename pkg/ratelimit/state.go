// Package ratelimit implements shared availability gating for the AI
// gateway. When the gateway rejects a request with 429 or 402, every
// cooperating process should stop sending until the cooldown passes instead
// of burning further requests; the state lives in Redis so all instances
// back off together.
package ratelimit

import (
	"time"
)

// Redis keys for cooldown state storage.
const (
	RedisKeyCooldownUntil = "gateway:cooldown:until"
	RedisKeyReason        = "gateway:cooldown:reason"
)

// State represents the shared gateway availability state.
type State struct {
	// CooldownUntil is when requests may resume. Zero when healthy.
	CooldownUntil time.Time `json:"cooldown_until"`

	// Reason is the rejection class that triggered the cooldown
	// ("rate_limit" or "credits"). Empty when healthy.
	Reason string `json:"reason"`
}

// Active returns true while the cooldown is in effect.
func (s *State) Active() bool {
	return time.Now().Before(s.CooldownUntil)
}

// Remaining returns the time until requests may resume, or 0 when healthy.
func (s *State) Remaining() time.Duration {
	d := time.Until(s.CooldownUntil)
	if d < 0 {
		return 0
	}
	return d
}
