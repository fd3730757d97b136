package dedup

import (
	"context"
	"time"

	"github.com/dmitrymomot/stockalert/pkg/cache"
)

// DefaultTTL is how long an alert key stays suppressed after it fired.
const DefaultTTL = 24 * time.Hour

// DefaultCapacity is the key count above which Memory drops expired keys
// on Arm. Live keys are never evicted.
const DefaultCapacity = 10_000

// Memory is an in-process dedup cache. Entries are lost on restart.
type Memory struct {
	entries *cache.TTLCache[string, struct{}]
}

// MemoryOption configures Memory.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	capacity int
	now      func() time.Time
}

// WithCapacity sets the key count above which expired keys are dropped.
func WithCapacity(n int) MemoryOption {
	return func(o *memoryOptions) {
		o.capacity = n
	}
}

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(o *memoryOptions) {
		o.now = now
	}
}

// NewMemory creates an empty in-memory dedup cache.
func NewMemory(opts ...MemoryOption) *Memory {
	o := memoryOptions{capacity: DefaultCapacity, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Memory{
		entries: cache.NewTTLCache[string, struct{}](o.capacity, cache.WithClock(o.now)),
	}
}

// ShouldSuppress reports whether key fired within its TTL.
func (m *Memory) ShouldSuppress(_ context.Context, key string) (bool, error) {
	_, ok := m.entries.Get(key)
	return ok, nil
}

// Arm suppresses key for ttl. A live key keeps its original deadline.
func (m *Memory) Arm(_ context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m.entries.PutIfAbsent(key, struct{}{}, ttl)
	return nil
}

// Purge drops expired keys and returns how many were removed.
func (m *Memory) Purge() int {
	return m.entries.Purge()
}
