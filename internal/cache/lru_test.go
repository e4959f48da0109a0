package cache

import (
	"testing"
	"time"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[string, int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok { // a becomes most recent
		t.Fatal("expected a")
	}
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("a = %v %v", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
}

func TestLRUExpiry(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewLRU[int, string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set(1, "one")
	c.Set(2, "two")
	now = now.Add(30 * time.Second)
	c.Set(2, "two again") // refreshes the TTL

	now = now.Add(45 * time.Second)
	if _, ok := c.Get(1); ok {
		t.Fatal("1 should have expired")
	}
	if v, ok := c.Get(2); !ok || v != "two again" {
		t.Fatalf("2 = %q %v", v, ok)
	}

	now = now.Add(time.Hour)
	if n := c.CleanExpired(); n != 1 || c.Len() != 0 {
		t.Fatalf("CleanExpired removed %d, %d left", n, c.Len())
	}
}

func TestLRUDeleteAndPurge(t *testing.T) {
	c := NewLRU[string, int](5, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("a should be gone")
	}
	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", c.Len())
	}
	c.Set("c", 3)
	if v, _ := c.Get("c"); v != 3 {
		t.Fatal("cache unusable after purge")
	}
}

func TestJanitor(t *testing.T) {
	c := NewLRU[string, int](5, -time.Second) // entries expire immediately
	c.Set("a", 1)
	j := NewJanitor()
	j.Register(c)
	if n := j.Clean(); n != 1 {
		t.Fatalf("expected one removal, got %d", n)
	}
	j.Start(time.Millisecond)
	j.Start(time.Millisecond) // second start is a no-op
	j.Stop()
	j.Stop()
}
