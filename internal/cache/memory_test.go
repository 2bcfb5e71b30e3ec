package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || got != "v" {
		t.Fatalf("Get = %v, %v; want v, true", got, ok)
	}

	has, err := m.Has(ctx, "k")
	if err != nil || !has {
		t.Fatalf("Has = %v, %v; want true, nil", has, err)
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatal("Get after Delete reported a hit")
	}
}

func TestMemoryPointerIdentity(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	type payload struct{ N int }
	p := &payload{N: 42}
	if err := m.Set(ctx, "k", p, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := m.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if got.(*payload) != p {
		t.Fatal("Get returned a different pointer than Set stored")
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	current := time.Unix(1000, 0)
	m.now = func() time.Time { return current }

	if err := m.Set(ctx, "short", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Set(ctx, "forever", "v", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, ok, _ := m.Get(ctx, "short"); !ok {
		t.Fatal("entry expired before its TTL elapsed")
	}

	current = current.Add(time.Minute)
	if _, ok, _ := m.Get(ctx, "short"); ok {
		t.Fatal("entry still live at its expiry instant")
	}
	// The expired entry was evicted by the read.
	if n, _ := m.Size(ctx); n != 1 {
		t.Fatalf("Size = %d after lazy eviction; want 1", n)
	}

	current = current.Add(100 * 365 * 24 * time.Hour)
	if _, ok, _ := m.Get(ctx, "forever"); !ok {
		t.Fatal("zero-TTL entry expired")
	}
}

func TestMemoryCleanExpired(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	current := time.Unix(1000, 0)
	m.now = func() time.Time { return current }

	m.Set(ctx, "a", 1, time.Second)
	m.Set(ctx, "b", 2, time.Hour)
	m.Set(ctx, "c", 3, 0)

	current = current.Add(time.Minute)
	removed, err := m.CleanExpired(ctx)
	if err != nil {
		t.Fatalf("CleanExpired: %v", err)
	}
	if removed != 1 {
		t.Fatalf("CleanExpired removed %d; want 1", removed)
	}
	if n, _ := m.Size(ctx); n != 2 {
		t.Fatalf("Size = %d; want 2", n)
	}
}

func TestMemoryClear(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.Set(ctx, "a", 1, 0)
	m.Set(ctx, "b", 2, 0)
	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n, _ := m.Size(ctx); n != 0 {
		t.Fatalf("Size = %d after Clear; want 0", n)
	}
}
