package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for availability gating.
var (
	gatewayCooldownSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coursegen_gateway_cooldown_seconds",
		Help: "Seconds remaining in the current gateway cooldown (0 when healthy)",
	})

	gatewayGateBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coursegen_gateway_gate_blocks_total",
		Help: "Total number of requests blocked by the availability gate",
	})

	gatewayCooldownsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursegen_gateway_cooldowns_total",
		Help: "Total number of cooldowns recorded by rejection reason",
	}, []string{"reason"})
)

// Guard gates gateway requests on shared cooldown state in Redis.
// It satisfies the gateway.RequestGate interface.
type Guard struct {
	redis  *redis.Client
	logger zerolog.Logger
}

// NewGuard creates an availability guard.
func NewGuard(redisClient *redis.Client, logger zerolog.Logger) *Guard {
	return &Guard{
		redis:  redisClient,
		logger: logger.With().Str("component", "gateway-guard").Logger(),
	}
}

// GetState retrieves the current cooldown state. Returns a healthy state
// when no cooldown is recorded.
func (g *Guard) GetState(ctx context.Context) (*State, error) {
	untilUnix, err := g.redis.Get(ctx, RedisKeyCooldownUntil).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("get cooldown state: %w", err)
	}

	reason, err := g.redis.Get(ctx, RedisKeyReason).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get cooldown reason: %w", err)
	}

	return &State{
		CooldownUntil: time.Unix(untilUnix, 0),
		Reason:        reason,
	}, nil
}

// ShouldAllowRequest reports whether a gateway request may proceed.
func (g *Guard) ShouldAllowRequest(ctx context.Context) (bool, error) {
	state, err := g.GetState(ctx)
	if err != nil {
		return false, err
	}

	if state.Active() {
		gatewayGateBlocksTotal.Inc()
		gatewayCooldownSeconds.Set(state.Remaining().Seconds())
		g.logger.Warn().
			Str("reason", state.Reason).
			Dur("remaining", state.Remaining()).
			Msg("Request blocked by gateway cooldown")
		return false, nil
	}

	gatewayCooldownSeconds.Set(0)
	return true, nil
}

// RecordCooldown stores a cooldown window after a gateway rejection. The
// keys carry the cooldown as their TTL, so stale state expires on its own.
func (g *Guard) RecordCooldown(ctx context.Context, reason string, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	until := time.Now().Add(d)

	pipe := g.redis.Pipeline()
	pipe.Set(ctx, RedisKeyCooldownUntil, until.Unix(), d)
	pipe.Set(ctx, RedisKeyReason, reason, d)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store cooldown state: %w", err)
	}

	gatewayCooldownsTotal.WithLabelValues(reason).Inc()
	gatewayCooldownSeconds.Set(d.Seconds())

	g.logger.Warn().
		Str("reason", reason).
		Time("until", until).
		Msg("Gateway cooldown recorded")

	return nil
}
