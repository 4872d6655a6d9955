package aicache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// setupRedisStore creates a store over an in-process miniredis instance.
func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client), mr
}

func TestRedisStore_PutAndGet(t *testing.T) {
	store, _ := setupRedisStore(t)
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
	if got.HitCount != 0 {
		t.Errorf("fresh entry HitCount = %d, want 0", got.HitCount)
	}
}

func TestRedisStore_Get_Miss(t *testing.T) {
	store, _ := setupRedisStore(t)

	if _, err := store.Get(context.Background(), "absent"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisStore_Put_DropsExpiredEntry(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, testEntry("stale", -1*time.Minute)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if _, err := store.Get(ctx, "stale"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisStore_TTLEviction(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, testEntry("key-1", 2*time.Second)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// miniredis advances TTLs manually.
	mr.FastForward(3 * time.Second)

	if _, err := store.Get(ctx, "key-1"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss after TTL, got %v", err)
	}
}

func TestRedisStore_Touch(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, testEntry("key-1", 5*time.Minute)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := store.Touch(ctx, "key-1"); err != nil {
			t.Fatalf("Touch failed: %v", err)
		}
	}

	got, err := store.Get(ctx, "key-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.HitCount != 2 {
		t.Errorf("HitCount = %d, want 2", got.HitCount)
	}
}

func TestRedisStore_Put_ResetsHitCount(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, testEntry("key-1", 5*time.Minute)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Touch(ctx, "key-1"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	if err := store.Put(ctx, testEntry("key-1", 5*time.Minute)); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, err := store.Get(ctx, "key-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.HitCount != 0 {
		t.Errorf("hit count not reset on replace: got %d", got.HitCount)
	}
}
