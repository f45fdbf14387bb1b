package cache

import (
	"container/list"
	"sync"
	"time"
)

// Clock supplies the current time. Tests inject a deterministic one.
type Clock func() time.Time

const DefaultCapacity = 1024

// Cache is an in-memory key/value store with per-entry TTL and LRU
// eviction once capacity is reached. Expiry is lazy: an expired entry is
// treated as absent on the next Get and overwritten by the next Set.
// Safe for concurrent use.
type Cache[T any] struct {
	mu       sync.Mutex
	capacity int
	clock    Clock
	entries  map[string]*list.Element
	order    *list.List // front is most recently used
}

type entry[T any] struct {
	key       string
	value     T
	expiresAt time.Time
}

// New creates a cache with the given capacity. A non-positive capacity
// falls back to DefaultCapacity, a nil clock to time.Now.
func New[T any](capacity int, clock Clock) *Cache[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if clock == nil {
		clock = time.Now
	}
	return &Cache[T]{
		capacity: capacity,
		clock:    clock,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the value stored under key if it has not expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	el, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	ent := el.Value.(*entry[T])
	if c.clock().After(ent.expiresAt) {
		c.order.Remove(el)
		delete(c.entries, key)
		return zero, false
	}

	c.order.MoveToFront(el)
	return ent.value, true
}

// Set stores value under key for the given TTL, unconditionally
// overwriting any existing entry.
func (c *Cache[T]) Set(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock().Add(ttl)

	if el, ok := c.entries[key]; ok {
		ent := el.Value.(*entry[T])
		ent.value = value
		ent.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		c.evictOldest()
	}

	c.entries[key] = c.order.PushFront(&entry[T]{
		key:       key,
		value:     value,
		expiresAt: expiresAt,
	})
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *Cache[T]) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.entries, el.Value.(*entry[T]).key)
}
