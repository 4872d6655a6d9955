package aicache

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func testEntry(key string, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		CacheKey:    key,
		Operation:   "generate-outline",
		RequestHash: key,
		Response:    json.RawMessage(`{"modules":[],"total_duration":0}`),
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	}
}

func TestMemoryStore_PutAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	entry := testEntry("key-1", 5*time.Minute)
	if err := store.Put(ctx, entry); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "key-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Response) != string(entry.Response) {
		t.Errorf("Response mismatch: got %s, want %s", got.Response, entry.Response)
	}
	if got.Operation != entry.Operation {
		t.Errorf("Operation mismatch: got %s, want %s", got.Operation, entry.Operation)
	}
}

func TestMemoryStore_Get_Miss(t *testing.T) {
	store := NewMemoryStore()

	if _, err := store.Get(context.Background(), "absent"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryStore_Get_Expired(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, testEntry("stale", -1*time.Minute)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if _, err := store.Get(ctx, "stale"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss for expired entry, got %v", err)
	}

	// Lazy expiry: the row itself is still present.
	if store.Len() != 1 {
		t.Errorf("expected expired row to linger, store has %d entries", store.Len())
	}
}

func TestMemoryStore_Put_Replaces(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, testEntry("key-1", 5*time.Minute)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := store.Touch(ctx, "key-1"); err != nil {
			t.Fatalf("Touch failed: %v", err)
		}
	}

	replacement := testEntry("key-1", 10*time.Minute)
	replacement.Response = json.RawMessage(`{"modules":[{"id":"module-1"}]}`)
	if err := store.Put(ctx, replacement); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "key-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Response) != string(replacement.Response) {
		t.Errorf("Response not replaced: got %s", got.Response)
	}
	if got.HitCount != 0 {
		t.Errorf("hit count not reset on replace: got %d", got.HitCount)
	}
}

func TestMemoryStore_Touch(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, testEntry("key-1", 5*time.Minute)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := store.Touch(ctx, "key-1"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}
	if err := store.Touch(ctx, "key-1"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	got, err := store.Get(ctx, "key-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.HitCount != 2 {
		t.Errorf("HitCount = %d, want 2", got.HitCount)
	}

	// Touching a missing key is not an error.
	if err := store.Touch(ctx, "absent"); err != nil {
		t.Errorf("Touch on missing key returned error: %v", err)
	}
}
