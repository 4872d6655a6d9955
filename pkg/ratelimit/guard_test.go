package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func setupGuard(t *testing.T) (*Guard, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewGuard(client, zerolog.Nop()), mr
}

func TestGuard_AllowsWhenHealthy(t *testing.T) {
	guard, _ := setupGuard(t)

	allowed, err := guard.ShouldAllowRequest(context.Background())
	if err != nil {
		t.Fatalf("ShouldAllowRequest failed: %v", err)
	}
	if !allowed {
		t.Error("fresh guard blocked a request")
	}
}

func TestGuard_BlocksDuringCooldown(t *testing.T) {
	guard, _ := setupGuard(t)
	ctx := context.Background()

	if err := guard.RecordCooldown(ctx, "rate_limit", 60*time.Second); err != nil {
		t.Fatalf("RecordCooldown failed: %v", err)
	}

	allowed, err := guard.ShouldAllowRequest(ctx)
	if err != nil {
		t.Fatalf("ShouldAllowRequest failed: %v", err)
	}
	if allowed {
		t.Error("request allowed during active cooldown")
	}

	state, err := guard.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if state.Reason != "rate_limit" {
		t.Errorf("reason = %s, want rate_limit", state.Reason)
	}
	if !state.Active() {
		t.Error("state not active during cooldown")
	}
}

func TestGuard_CooldownExpires(t *testing.T) {
	guard, mr := setupGuard(t)
	ctx := context.Background()

	if err := guard.RecordCooldown(ctx, "credits", 30*time.Second); err != nil {
		t.Fatalf("RecordCooldown failed: %v", err)
	}

	// Redis TTL removes the keys once the cooldown passes.
	mr.FastForward(31 * time.Second)

	allowed, err := guard.ShouldAllowRequest(ctx)
	if err != nil {
		t.Fatalf("ShouldAllowRequest failed: %v", err)
	}
	if !allowed {
		t.Error("request still blocked after cooldown expired")
	}
}

func TestGuard_ZeroCooldownIgnored(t *testing.T) {
	guard, _ := setupGuard(t)
	ctx := context.Background()

	if err := guard.RecordCooldown(ctx, "rate_limit", 0); err != nil {
		t.Fatalf("RecordCooldown failed: %v", err)
	}

	allowed, err := guard.ShouldAllowRequest(ctx)
	if err != nil {
		t.Fatalf("ShouldAllowRequest failed: %v", err)
	}
	if !allowed {
		t.Error("zero-duration cooldown blocked requests")
	}
}

func TestState_Remaining(t *testing.T) {
	healthy := &State{}
	if healthy.Active() {
		t.Error("zero state reported active")
	}
	if healthy.Remaining() != 0 {
		t.Errorf("healthy Remaining = %v, want 0", healthy.Remaining())
	}

	active := &State{CooldownUntil: time.Now().Add(time.Minute), Reason: "rate_limit"}
	if !active.Active() {
		t.Error("future cooldown reported inactive")
	}
	if active.Remaining() <= 0 {
		t.Error("active cooldown reports no remaining time")
	}
}
