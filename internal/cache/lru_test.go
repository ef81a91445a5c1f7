package cache

import (
	"testing"
	"time"
)

func TestLRUBasicGetSet(t *testing.T) {
	c := NewLRU[int](3, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}

	c.Set("a", 1)
	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Fatalf("expected hit with 1, got %v %v", v, ok)
	}

	c.Set("a", 2)
	v, _ = c.Get("a")
	if v != 2 {
		t.Fatalf("expected overwrite to 2, got %v", v)
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU[string](2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a") // a is now most recently used
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a retained")
	}
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU[int](10, -time.Second) // already expired on insert

	c.Set("a", 1)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if c.Size() != 0 {
		t.Fatalf("expected lazy removal on Get, size %d", c.Size())
	}
}

func TestLRUDeleteAndClear(t *testing.T) {
	c := NewLRU[int](10, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected a deleted")
	}

	c.Clear()
	if c.Size() != 0 {
		t.Fatalf("expected empty after clear, size %d", c.Size())
	}
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b gone after clear")
	}
}
