// Package cache provides a small in-process LRU with per-entry TTL,
// used to memoize category path lookups during imports and rendering.
package cache

import (
	"container/list"
	"sync"
	"time"
)

type entry[V any] struct {
	key      string
	value    V
	deadline time.Time
}

// LRU is a fixed-capacity cache. Entries expire after the configured TTL
// and the least recently used entry is evicted when the cache is full.
// Safe for concurrent use.
type LRU[V any] struct {
	mu      sync.Mutex
	cap     int
	ttl     time.Duration
	byKey   map[string]*list.Element
	recency *list.List
}

func NewLRU[V any](capacity int, ttl time.Duration) *LRU[V] {
	return &LRU[V]{
		cap:     capacity,
		ttl:     ttl,
		byKey:   make(map[string]*list.Element, capacity),
		recency: list.New(),
	}
}

func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.byKey[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[V])
	if time.Now().After(e.deadline) {
		c.remove(el)
		return zero, false
	}
	c.recency.MoveToFront(el)
	return e.value, true
}

func (c *LRU[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry[V]{key: key, value: value, deadline: time.Now().Add(c.ttl)}
	if el, ok := c.byKey[key]; ok {
		el.Value = e
		c.recency.MoveToFront(el)
		return
	}
	c.byKey[key] = c.recency.PushFront(e)
	if c.recency.Len() > c.cap {
		if oldest := c.recency.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
}

func (c *LRU[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.byKey[key]; ok {
		c.remove(el)
	}
}

// Purge drops every entry. Called after category mutations so stale
// paths never survive a rename or delete.
func (c *LRU[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byKey = make(map[string]*list.Element, c.cap)
	c.recency.Init()
}

func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byKey)
}

func (c *LRU[V]) remove(el *list.Element) {
	e := el.Value.(*entry[V])
	delete(c.byKey, e.key)
	c.recency.Remove(el)
}
