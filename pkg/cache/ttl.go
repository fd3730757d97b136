package cache

import (
	"container/list"
	"sync"
	"time"
)

type ttlEntry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// TTLCache is a thread-safe LRU cache whose entries also expire.
// Expired entries are dropped lazily on access or by Purge.
type TTLCache[K comparable, V any] struct {
	capacity int
	items    map[K]*list.Element
	eviction *list.List
	now      func() time.Time
	mu       sync.Mutex
}

// Option configures a TTLCache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// NewTTLCache creates a cache holding at most capacity live entries.
// The capacity must be positive, otherwise it panics.
func NewTTLCache[K comparable, V any](capacity int, opts ...Option) *TTLCache[K, V] {
	if capacity <= 0 {
		panic("TTL cache capacity must be positive")
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &TTLCache[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		eviction: list.New(),
		now:      o.now,
	}
}

// Get returns the value for key if present and not expired, marking it as
// recently used. An expired entry is removed.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	entry := elem.Value.(*ttlEntry[K, V])
	if !c.now().Before(entry.expiresAt) {
		c.removeElement(elem)
		return zero, false
	}

	c.eviction.MoveToFront(elem)
	return entry.value, true
}

// Put stores value for ttl, replacing any previous entry. A non-positive ttl
// removes the key. When the cache is over capacity, the least recently used
// entry is evicted.
func (c *TTLCache[K, V]) Put(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		if elem, ok := c.items[key]; ok {
			c.removeElement(elem)
		}
		return
	}

	expiresAt := c.now().Add(ttl)
	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		entry := elem.Value.(*ttlEntry[K, V])
		entry.value = value
		entry.expiresAt = expiresAt
		return
	}

	elem := c.eviction.PushFront(&ttlEntry[K, V]{key: key, value: value, expiresAt: expiresAt})
	c.items[key] = elem

	if c.eviction.Len() > c.capacity {
		c.evictOldest()
	}
}

// PutIfAbsent stores value only when key has no live entry.
// It reports whether the value was stored. Over capacity it drops expired
// entries but never evicts a live one, so the cache may grow past capacity.
func (c *TTLCache[K, V]) PutIfAbsent(key K, value V, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*ttlEntry[K, V])
		if c.now().Before(entry.expiresAt) {
			return false
		}
		c.removeElement(elem)
	}
	if ttl <= 0 {
		return false
	}

	elem := c.eviction.PushFront(&ttlEntry[K, V]{key: key, value: value, expiresAt: c.now().Add(ttl)})
	c.items[key] = elem

	if c.eviction.Len() > c.capacity {
		c.purgeExpired()
	}
	return true
}

// Remove deletes key. It reports whether a live entry was removed.
func (c *TTLCache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return false
	}
	live := c.now().Before(elem.Value.(*ttlEntry[K, V]).expiresAt)
	c.removeElement(elem)
	return live
}

// Purge drops every expired entry and returns how many were removed.
func (c *TTLCache[K, V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.purgeExpired()
}

// Must be called with lock held.
func (c *TTLCache[K, V]) purgeExpired() int {
	now := c.now()
	removed := 0
	for elem := c.eviction.Back(); elem != nil; {
		prev := elem.Prev()
		if !now.Before(elem.Value.(*ttlEntry[K, V]).expiresAt) {
			c.removeElement(elem)
			removed++
		}
		elem = prev
	}
	return removed
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eviction.Len()
}

// Clear removes all entries.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element)
	c.eviction.Init()
}

// Must be called with lock held.
func (c *TTLCache[K, V]) evictOldest() {
	if elem := c.eviction.Back(); elem != nil {
		c.removeElement(elem)
	}
}

// Must be called with lock held.
func (c *TTLCache[K, V]) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	delete(c.items, elem.Value.(*ttlEntry[K, V]).key)
}
