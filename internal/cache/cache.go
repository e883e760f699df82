// Package cache stores converted scripts keyed by everything that
// determines them: provider, model and prompt. Because prompt assembly is
// deterministic, a hit is exactly what the backend would have been asked.
package cache

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Cache is a string key/value store with expiry.
type Cache interface {
	// Get returns the value and true on a hit.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

// Key derives a cache key from the inputs of a conversion.
func Key(provider, model, prompt, userText string) string {
	h := sha256.New()
	for _, part := range []string{provider, model, prompt, userText} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "devicely:script:" + hex.EncodeToString(h.Sum(nil))
}

// Noop never hits.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, bool, error)        { return "", false, nil }
func (Noop) Set(context.Context, string, string, time.Duration) error { return nil }
func (Noop) Close() error                                             { return nil }

// DefaultMaxEntries bounds a Memory cache created with a non-positive size.
const DefaultMaxEntries = 10000

type memoryEntry struct {
	key     string
	value   string
	expires time.Time
}

// Memory is an in-process Cache holding at most a fixed number of entries.
// Expired entries are dropped on read and swept when the cache is full; if it
// is still full, the oldest entry is evicted.
type Memory struct {
	mu      sync.Mutex
	max     int
	order   *list.List // oldest first
	entries map[string]*list.Element
	now     func() time.Time
}

// NewMemory creates an empty in-process cache holding up to maxEntries.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{
		max:     maxEntries,
		order:   list.New(),
		entries: make(map[string]*list.Element),
		now:     time.Now,
	}
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	e := el.Value.(*memoryEntry)
	if m.expired(e) {
		m.remove(el)
		return "", false, nil
	}
	return e.value, true, nil
}

// Set implements Cache. A non-positive ttl never expires.
func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		m.remove(el)
	}
	if len(m.entries) >= m.max {
		m.sweep()
	}
	for len(m.entries) >= m.max {
		m.remove(m.order.Front())
	}

	e := &memoryEntry{key: key, value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[key] = m.order.PushBack(e)
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Close drops all entries.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order.Init()
	m.entries = make(map[string]*list.Element)
	return nil
}

func (m *Memory) expired(e *memoryEntry) bool {
	return !e.expires.IsZero() && m.now().After(e.expires)
}

func (m *Memory) sweep() {
	for el := m.order.Front(); el != nil; {
		next := el.Next()
		if m.expired(el.Value.(*memoryEntry)) {
			m.remove(el)
		}
		el = next
	}
}

func (m *Memory) remove(el *list.Element) {
	m.order.Remove(el)
	delete(m.entries, el.Value.(*memoryEntry).key)
}
