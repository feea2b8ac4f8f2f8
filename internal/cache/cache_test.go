package cache

import (
	"testing"
	"time"
)

func TestGetSetRoundTrip(t *testing.T) {
	c := NewLRU[string](4, time.Minute)
	c.Set(Key("u1", "2025-03"), "march")

	got, ok := c.Get("u1:2025-03")
	if !ok || got != "march" {
		t.Fatalf("got %q ok=%v, want march", got, ok)
	}
	if _, ok := c.Get("u1:2025-04"); ok {
		t.Fatal("unexpected hit for missing key")
	}
}

func TestExpiry(t *testing.T) {
	c := NewLRU[int](4, 10*time.Millisecond)
	c.Set("k", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if c.Size() != 0 {
		t.Fatalf("expired entry should be removed on read, size=%d", c.Size())
	}
}

func TestEvictionAtCapacity(t *testing.T) {
	c := NewLRU[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // now b is least recently used
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to survive")
	}
}

func TestDeletePrefixDropsOnlyMatchingUser(t *testing.T) {
	c := NewLRU[int](8, time.Minute)
	c.Set(Key("u1", "2025-01"), 1)
	c.Set(Key("u1", "2025-02"), 2)
	c.Set(Key("u2", "2025-01"), 3)

	if n := c.DeletePrefix("u1:"); n != 2 {
		t.Fatalf("DeletePrefix removed %d, want 2", n)
	}
	if _, ok := c.Get("u2:2025-01"); !ok {
		t.Fatal("other user's entry should survive")
	}
}

func TestCleanExpired(t *testing.T) {
	c := NewLRU[int](8, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("c", 3)

	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("CleanExpired removed %d, want 2", n)
	}
	if c.Size() != 1 {
		t.Fatalf("size=%d, want 1", c.Size())
	}
}
