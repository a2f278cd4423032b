package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	// Prefix starts every namespaced key
	Prefix = "zoho"
	// Separator joins key components
	Separator = ":"
)

// NamespacedCache prefixes keys with an organization id so several Zoho
// organizations can share one Redis database. Keys look like
// "zoho:{organization}:{key}"; an empty organization leaves keys untouched.
type NamespacedCache struct {
	client    Cache
	namespace string
}

// NewNamespacedCache wraps client with the organization's key namespace.
func NewNamespacedCache(client Cache, organizationID string) *NamespacedCache {
	return &NamespacedCache{
		client:    client,
		namespace: strings.TrimSpace(organizationID),
	}
}

// Key returns the key stored in the underlying cache.
func (nc *NamespacedCache) Key(key string) string {
	if nc.namespace == "" {
		return key
	}
	return strings.Join([]string{Prefix, nc.namespace, key}, Separator)
}

// Namespace returns the organization id used for prefixing.
func (nc *NamespacedCache) Namespace() string {
	return nc.namespace
}

// Get retrieves a value using the namespaced key
func (nc *NamespacedCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nc.client.Get(ctx, nc.Key(key))
}

// Set stores a value under the namespaced key
func (nc *NamespacedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nc.client.Set(ctx, nc.Key(key), value, ttl)
}

// Delete removes a value using the namespaced key
func (nc *NamespacedCache) Delete(ctx context.Context, key string) error {
	return nc.client.Delete(ctx, nc.Key(key))
}

// Exists checks the namespaced key
func (nc *NamespacedCache) Exists(ctx context.Context, key string) (bool, error) {
	return nc.client.Exists(ctx, nc.Key(key))
}

// Clear removes every key in this organization's namespace. Without a
// namespace it clears the whole backend. The backend must implement Clearer.
func (nc *NamespacedCache) Clear(ctx context.Context) (int, error) {
	clearer, ok := nc.client.(Clearer)
	if !ok {
		return 0, fmt.Errorf("cache backend %T cannot clear keys", nc.client)
	}
	prefix := ""
	if nc.namespace != "" {
		prefix = nc.Key("")
	}
	return clearer.Clear(ctx, prefix)
}

// Ping checks if the cache is healthy
func (nc *NamespacedCache) Ping(ctx context.Context) error {
	return nc.client.Ping(ctx)
}

// Close closes the underlying cache
func (nc *NamespacedCache) Close() error {
	return nc.client.Close()
}
