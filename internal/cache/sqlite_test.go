package cache

import (
	"context"
	"testing"
	"time"

	"github.com/expozr/navigator/pkg/types"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	if err := s.Set(ctx, "k", []int{1, 2, 3}, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	decoded, err := types.DecodeValue[[]int](got)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if len(*decoded) != 3 || (*decoded)[2] != 3 {
		t.Fatalf("decoded = %v", *decoded)
	}
}

func TestSQLiteUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	s.Set(ctx, "k", "old", 0)
	if err := s.Set(ctx, "k", "new", 0); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	v, err := types.DecodeValue[string](got)
	if err != nil || *v != "new" {
		t.Fatalf("decoded = %v, %v; want new", v, err)
	}
	if n, _ := s.Size(ctx); n != 1 {
		t.Fatalf("Size = %d after upsert; want 1", n)
	}
}

func TestSQLiteExpiry(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	current := time.Unix(1000, 0)
	s.now = func() time.Time { return current }

	s.Set(ctx, "short", "v", time.Second)
	s.Set(ctx, "forever", "v", 0)

	current = current.Add(time.Minute)
	if _, ok, err := s.Get(ctx, "short"); ok || err != nil {
		t.Fatalf("expired Get = %v, %v; want miss, nil", ok, err)
	}
	// Lazy eviction deleted the row.
	if n, _ := s.Size(ctx); n != 1 {
		t.Fatalf("Size = %d after lazy eviction; want 1", n)
	}
	if _, ok, _ := s.Get(ctx, "forever"); !ok {
		t.Fatal("zero-TTL entry expired")
	}
}

func TestSQLiteCleanExpired(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	current := time.Unix(1000, 0)
	s.now = func() time.Time { return current }

	s.Set(ctx, "a", 1, time.Second)
	s.Set(ctx, "b", 2, time.Second)
	s.Set(ctx, "c", 3, time.Hour)

	current = current.Add(time.Minute)
	removed, err := s.CleanExpired(ctx)
	if err != nil {
		t.Fatalf("CleanExpired: %v", err)
	}
	if removed != 2 {
		t.Fatalf("CleanExpired removed %d; want 2", removed)
	}
	if n, _ := s.Size(ctx); n != 1 {
		t.Fatalf("Size = %d; want 1", n)
	}
}

func TestSQLiteDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	s.Set(ctx, "a", 1, 0)
	s.Set(ctx, "b", 2, 0)

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "absent"); err != nil {
		t.Fatalf("Delete absent key: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n, _ := s.Size(ctx); n != 0 {
		t.Fatalf("Size = %d after Clear; want 0", n)
	}
}

func TestSQLiteCloseIdempotent(t *testing.T) {
	s, err := NewSQLite(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
