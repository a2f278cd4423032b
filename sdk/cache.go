package sdk

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// Cache is a key/value store with per-entry TTL used for read responses.
// Get must return an error (any error) when the key is absent.
// Implementations live in the cache package (Redis, in-memory LRU).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Cache keys for read operations.
const (
	cacheKeyPlans  = "plans"
	cacheKeyAddons = "addons"
)

func planCacheKey(code string) string  { return "plan_" + code }
func addonCacheKey(code string) string { return "addon_" + code }

// cacheFacade makes the configured Cache optional. Without a backend every
// lookup misses and every write or delete succeeds without effect. Backend
// failures are logged and never fail the calling operation.
type cacheFacade struct {
	backend  Cache
	ttl      time.Duration
	observer Observer
	logger   logrus.FieldLogger
}

func newCacheFacade(config *Config) *cacheFacade {
	return &cacheFacade{
		backend:  config.Cache,
		ttl:      config.CacheTTL,
		observer: config.Observer,
		logger:   config.Logger,
	}
}

// get decodes the cached blob for key into dest and reports whether it was found.
func (c *cacheFacade) get(ctx context.Context, key string, dest any) bool {
	if c.backend == nil {
		c.observer.OnCacheMiss(key)
		return false
	}
	data, err := c.backend.Get(ctx, key)
	if err != nil {
		c.observer.OnCacheMiss(key)
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Discarding undecodable cache entry")
		if err := c.backend.Delete(ctx, key); err != nil {
			c.logger.WithError(err).WithField("key", key).Warn("Cache delete failed")
		}
		c.observer.OnCacheMiss(key)
		return false
	}
	c.observer.OnCacheHit(key)
	return true
}

// put stores value under key with the configured TTL.
func (c *cacheFacade) put(ctx context.Context, key string, value any) bool {
	if c.backend == nil {
		return true
	}
	if key == "" {
		c.logger.Error("Refusing to cache a value without a key")
		return false
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Failed to encode cache entry")
		return false
	}
	if err := c.backend.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Failed to write cache entry")
		return false
	}
	return true
}

// delete removes key. Absent keys are not an error.
func (c *cacheFacade) delete(ctx context.Context, key string) bool {
	if c.backend == nil {
		return true
	}
	if err := c.backend.Delete(ctx, key); err != nil {
		c.logger.WithError(err).WithField("key", key).Debug("Cache delete reported an error")
	}
	return true
}
