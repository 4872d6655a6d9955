package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    1 * time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryWithBackoff_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), zerolog.Nop(), fastRetryConfig(),
		func() error {
			calls++
			return nil
		},
		func() ErrorClass { return "" })

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryWithBackoff_RetriesServerErrors(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), zerolog.Nop(), fastRetryConfig(),
		func() error {
			calls++
			if calls < 3 {
				return errors.New("temporary")
			}
			return nil
		},
		func() ErrorClass { return ErrorClassServer })

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryWithBackoff_NoRetryForRateLimit(t *testing.T) {
	calls := 0
	wantErr := errors.New("rate limited")
	err := retryWithBackoff(context.Background(), zerolog.Nop(), fastRetryConfig(),
		func() error {
			calls++
			return wantErr
		},
		func() ErrorClass { return ErrorClassRateLimit })

	if !errors.Is(err, wantErr) {
		t.Fatalf("expected original error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (rate limit must not retry)", calls)
	}
}

func TestRetryWithBackoff_Exhaustion(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), zerolog.Nop(), fastRetryConfig(),
		func() error {
			calls++
			return errors.New("still broken")
		},
		func() ErrorClass { return ErrorClassServer })

	if !errors.Is(err, ErrRetryExhausted) {
		t.Fatalf("expected ErrRetryExhausted, got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryWithBackoff_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	config := RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    10 * time.Second, // long enough that cancel wins
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	}

	done := make(chan error, 1)
	go func() {
		done <- retryWithBackoff(ctx, zerolog.Nop(), config,
			func() error { return errors.New("failing") },
			func() ErrorClass { return ErrorClassNetwork })
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, ErrContextCancelled) {
			t.Errorf("expected ErrContextCancelled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("retry did not abort on context cancellation")
	}
}
