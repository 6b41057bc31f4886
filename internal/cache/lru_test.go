package cache

import (
	"testing"
	"time"
)

func TestLRUSetGet(t *testing.T) {
	c := NewLRU[int64](4, time.Minute)
	c.Set("Food & Dining", 1)
	c.Set("Food & Dining > Groceries", 2)

	if got, ok := c.Get("Food & Dining > Groceries"); !ok || got != 2 {
		t.Fatalf("Get = %d, %v", got, ok)
	}
	if _, ok := c.Get("Transportation"); ok {
		t.Fatalf("unexpected hit for absent key")
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int64](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // refresh a
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("a should survive, it was used most recently")
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
}

func TestLRUExpiry(t *testing.T) {
	c := NewLRU[int64](4, -time.Second)
	c.Set("a", 1)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expired entry must miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be dropped on access")
	}
}

func TestLRUPurge(t *testing.T) {
	c := NewLRU[int64](4, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("Purge left %d entries", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatalf("purged entry must miss")
	}
}

func TestLRUOverwrite(t *testing.T) {
	c := NewLRU[int64](2, time.Minute)
	c.Set("a", 1)
	c.Set("a", 9)
	if got, _ := c.Get("a"); got != 9 {
		t.Fatalf("overwrite lost: got %d", got)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
}
