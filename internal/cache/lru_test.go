package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLRU(size int, ttl time.Duration) (*LRU[string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRU[string](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUGetSet(t *testing.T) {
	c, _ := newTestLRU(2, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("Get on empty cache reported a hit")
	}

	c.Set("a", "1")
	c.Set("a", "2")
	if v, ok := c.Get("a"); !ok || v != "2" {
		t.Errorf("Get(a) = %q, %v; want 2, true", v, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestLRU(2, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Get("a") // b is now least recently used
	c.Set("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	for _, key := range []string{"a", "c"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("expected %s to remain", key)
		}
	}
}

func TestLRUExpiry(t *testing.T) {
	c, clock := newTestLRU(10, time.Minute)

	c.Set("ttl", "x")
	c.SetUntil("deadline", "y", clock.t.Add(10*time.Second))
	c.SetUntil("late-deadline", "z", clock.t.Add(time.Hour))

	clock.advance(30 * time.Second)
	if _, ok := c.Get("deadline"); ok {
		t.Error("entry should expire at its own deadline")
	}
	if _, ok := c.Get("ttl"); !ok {
		t.Error("entry should live for the TTL")
	}

	clock.advance(time.Minute)
	if _, ok := c.Get("late-deadline"); ok {
		t.Error("TTL should cap a later deadline")
	}

	c.Set("fresh", "w")
	if removed := c.CleanExpired(); removed != 1 {
		t.Errorf("CleanExpired() = %d, want 1", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLRUDelete(t *testing.T) {
	c, _ := newTestLRU(2, time.Minute)
	c.Set("a", "1")
	c.Delete("a")
	c.Delete("never-set")
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be deleted")
	}
}
