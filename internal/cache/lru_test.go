package cache

import (
	"context"
	"testing"
	"time"
)

func TestLRUCache_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(8, time.Minute)

	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("Get on empty cache = ok %v err %v", ok, err)
	}

	if err := c.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	b, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(b) != "v" {
		t.Fatalf("Get = %q ok %v err %v", b, ok, err)
	}

	if err := c.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("Invalidate error: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("entry survived invalidate")
	}
}

func TestLRUCache_InvalidateMissingKeyIsNoop(t *testing.T) {
	c := NewLRUCache(8, time.Minute)
	if err := c.Invalidate(context.Background(), "missing"); err != nil {
		t.Fatalf("Invalidate error: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("Len = %d, want 0", c.Len())
	}
}

func TestLRUCache_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(2, time.Minute)

	_ = c.Set(ctx, "a", []byte("1"))
	_ = c.Set(ctx, "b", []byte("2"))
	_ = c.Set(ctx, "c", []byte("3"))

	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Fatalf("oldest entry not evicted")
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
}

func TestLRUCache_DefaultSize(t *testing.T) {
	c := NewLRUCache(0, time.Minute)
	if err := c.Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
}
