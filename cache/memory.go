package cache

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a size-bounded in-process cache. Entries expire after the
// TTL given to Set, and never later than the configured DefaultTTL.
type MemoryCache struct {
	config *Config
	cache  *lru.LRU[string, memoryEntry]
	closed atomic.Bool
}

// NewMemoryCache creates an in-memory cache. A nil config uses DefaultConfig.
func NewMemoryCache(config *Config) *MemoryCache {
	if config == nil {
		config = DefaultConfig()
	}

	size := config.MemorySize
	if size < 1 {
		size = DefaultConfig().MemorySize
	}

	return &MemoryCache{
		config: config,
		cache:  lru.NewLRU[string, memoryEntry](size, nil, config.DefaultTTL),
	}
}

// Get retrieves a value from the cache
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrCacheClosed
	}

	entry, ok := m.cache.Get(key)
	if !ok {
		return nil, ErrKeyNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		m.cache.Remove(key)
		return nil, ErrKeyNotFound
	}

	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

// Set stores a copy of value. A zero TTL uses DefaultTTL.
func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.closed.Load() {
		return ErrCacheClosed
	}

	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.cache.Add(key, entry)
	return nil
}

// Delete removes a value from the cache
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	if m.closed.Load() {
		return ErrCacheClosed
	}
	m.cache.Remove(key)
	return nil
}

// Exists checks if a key exists in the cache
func (m *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.Get(ctx, key)
	switch err {
	case nil:
		return true, nil
	case ErrKeyNotFound:
		return false, nil
	}
	return false, err
}

// Clear removes every entry whose key starts with prefix.
func (m *MemoryCache) Clear(ctx context.Context, prefix string) (int, error) {
	if m.closed.Load() {
		return 0, ErrCacheClosed
	}
	removed := 0
	for _, key := range m.cache.Keys() {
		if strings.HasPrefix(key, prefix) && m.cache.Remove(key) {
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of entries, including ones not yet evicted.
func (m *MemoryCache) Len() int {
	return m.cache.Len()
}

// Ping reports ErrCacheClosed after Close.
func (m *MemoryCache) Ping(ctx context.Context) error {
	if m.closed.Load() {
		return ErrCacheClosed
	}
	return nil
}

// Close drops every entry.
func (m *MemoryCache) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	m.cache.Purge()
	return nil
}
