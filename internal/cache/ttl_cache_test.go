package cache

import (
	"testing"
	"time"

	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/clock"
)

func TestTTLCacheExpiry(t *testing.T) {
	clk := &clock.FixedClock{At: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)}
	c := NewTTLCache[string, int](clk)

	c.Set("summary", 42, 30*time.Second)
	c.Set("pinned", 7, 0)
	if got, ok := c.Get("summary"); !ok || got != 42 {
		t.Fatalf("expected cached 42, got %d (%v)", got, ok)
	}

	clk.At = clk.At.Add(30 * time.Second)
	if _, ok := c.Get("summary"); ok {
		t.Fatalf("expected entry to expire at its deadline")
	}
	if got, ok := c.Get("pinned"); !ok || got != 7 {
		t.Fatalf("expected entry without ttl to survive, got %d (%v)", got, ok)
	}

	c.Delete("pinned")
	if _, ok := c.Get("pinned"); ok {
		t.Fatalf("expected deleted entry to be gone")
	}
}

func TestNilTTLCacheMisses(t *testing.T) {
	var c *TTLCache[string, int]
	c.Set("k", 1, time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected nil cache to miss")
	}
}
