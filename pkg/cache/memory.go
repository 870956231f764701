package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry[V any] struct {
	expiresAt time.Time // zero value = never expires
	value     V
}

func (e *memoryEntry[V]) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// Memory is an in-memory cache with TTL-based expiration. A background
// janitor removes expired entries when a cleanup interval is configured.
type Memory[V any] struct {
	items  map[string]*memoryEntry[V]
	done   chan struct{}
	opts   memoryOptions
	mu     sync.Mutex
	closed bool
}

type memoryOptions struct {
	defaultTTL      time.Duration
	cleanupInterval time.Duration
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*memoryOptions)

// WithDefaultTTL sets the TTL applied when Set is called with a zero TTL.
// Defaults to no expiration.
func WithDefaultTTL(ttl time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.defaultTTL = ttl
	}
}

// WithCleanupInterval sets how often expired entries are purged.
// A zero interval disables the janitor; expired entries are then removed
// lazily on access.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// NewMemory creates a new in-memory cache.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	var o memoryOptions
	for _, opt := range opts {
		opt(&o)
	}

	m := &Memory[V]{
		items: make(map[string]*memoryEntry[V]),
		opts:  o,
		done:  make(chan struct{}),
	}
	if o.cleanupInterval > 0 {
		go m.janitor()
	}
	return m
}

// Get retrieves a value by key.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	e, ok := m.items[key]
	if !ok {
		return zero, ErrNotFound
	}
	if e.expired() {
		delete(m.items, key)
		return zero, ErrNotFound
	}
	return e.value, nil
}

// Set stores a value with the given TTL.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	m.items[key] = &memoryEntry[V]{value: value, expiresAt: expiresAt}
	return nil
}

// Delete removes a key from the cache.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Clear removes all entries.
func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]*memoryEntry[V])
	return nil
}

// Close stops the janitor. The cache rejects writes after Close.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	return nil
}

func (m *Memory[V]) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			for k, e := range m.items {
				if e.expired() {
					delete(m.items, k)
				}
			}
			m.mu.Unlock()
		}
	}
}
