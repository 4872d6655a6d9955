package aicache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// setupSQLStore creates a store over an in-memory SQLite database.
// The same SQL paths run against Postgres in the integration tests.
func setupSQLStore(t *testing.T) *SQLStore {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := NewSQLStore(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	return store
}

func TestSQLStore_PutAndGet(t *testing.T) {
	store := setupSQLStore(t)
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
	if got.Operation != "generate-outline" {
		t.Errorf("Operation mismatch: got %s", got.Operation)
	}
	if got.RequestHash != "key-1" {
		t.Errorf("RequestHash mismatch: got %s", got.RequestHash)
	}
	if got.HitCount != 0 {
		t.Errorf("fresh entry HitCount = %d, want 0", got.HitCount)
	}
}

func TestSQLStore_Get_Miss(t *testing.T) {
	store := setupSQLStore(t)

	if _, err := store.Get(context.Background(), "absent"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestSQLStore_Get_Expired(t *testing.T) {
	store := setupSQLStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, testEntry("stale", -1*time.Minute)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// The read filters on expires_at, so the row behaves as absent.
	if _, err := store.Get(ctx, "stale"); err != ErrCacheMiss {
		t.Errorf("expected ErrCacheMiss for expired row, got %v", err)
	}
}

func TestSQLStore_Put_UpsertResetsHitCount(t *testing.T) {
	store := setupSQLStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, testEntry("key-1", 5*time.Minute)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := store.Touch(ctx, "key-1"); err != nil {
			t.Fatalf("Touch failed: %v", err)
		}
	}

	replacement := testEntry("key-1", 10*time.Minute)
	replacement.Response = json.RawMessage(`{"modules":[{"id":"module-1"}],"total_duration":15}`)
	if err := store.Put(ctx, replacement); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, err := store.Get(ctx, "key-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Response) != string(replacement.Response) {
		t.Errorf("Response not replaced: got %s", got.Response)
	}
	if got.HitCount != 0 {
		t.Errorf("hit count not reset on upsert: got %d", got.HitCount)
	}
}

func TestSQLStore_Touch(t *testing.T) {
	store := setupSQLStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, testEntry("key-1", 5*time.Minute)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := store.Touch(ctx, "key-1"); err != nil {
			t.Fatalf("Touch failed: %v", err)
		}
	}

	got, err := store.Get(ctx, "key-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.HitCount != 3 {
		t.Errorf("HitCount = %d, want 3", got.HitCount)
	}

	// No row: not an error.
	if err := store.Touch(ctx, "absent"); err != nil {
		t.Errorf("Touch on missing key returned error: %v", err)
	}
}

func TestSQLStore_DistinctKeysAreIndependent(t *testing.T) {
	store := setupSQLStore(t)
	ctx := context.Background()

	a := testEntry("key-a", 5*time.Minute)
	b := testEntry("key-b", 5*time.Minute)
	b.Response = json.RawMessage(`{"other":true}`)

	if err := store.Put(ctx, a); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(ctx, b); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	gotA, err := store.Get(ctx, "key-a")
	if err != nil {
		t.Fatalf("Get key-a failed: %v", err)
	}
	if string(gotA.Response) != string(a.Response) {
		t.Errorf("key-a payload clobbered: got %s", gotA.Response)
	}
}
