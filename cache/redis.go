package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint used when walking keys for Clear.
const scanBatch = 200

// RedisCache stores cached API responses in Redis so that several processes
// talking to the same organization share one copy of the plan catalogue.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(config *Config) (*RedisCache, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	client := redis.NewClient(&redis.Options{
		Addr:            config.Address(),
		Password:        config.Password,
		DB:              config.DB,
		MaxRetries:      config.MaxRetries,
		DialTimeout:     config.DialTimeout,
		ReadTimeout:     config.ReadTimeout,
		WriteTimeout:    config.WriteTimeout,
		PoolSize:        config.PoolSize,
		MinIdleConns:    config.MinIdleConns,
		ConnMaxIdleTime: config.MaxIdleTime,
	})

	ctx, cancel := context.WithTimeout(context.Background(), config.DialTimeout+time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", config.Address(), err)
	}

	return &RedisCache{client: client, ttl: config.DefaultTTL}, nil
}

// redisError maps go-redis failures onto the package's error values.
// Connection-level failures are retryable; a closed client is not.
func redisError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil):
		return ErrKeyNotFound
	case errors.Is(err, redis.ErrClosed):
		return ErrCacheClosed
	}
	return NewCacheError("redis "+op, true).WithError(err)
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, redisError("get", err)
	}
	return val, nil
}

// Set stores value with the given TTL, or the configured default for zero.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = r.ttl
	}
	return redisError("set", r.client.Set(ctx, key, value, ttl).Err())
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return redisError("del", r.client.Del(ctx, key).Err())
}

func (r *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, redisError("exists", err)
	}
	return n > 0, nil
}

// Clear deletes every key starting with prefix and reports how many were
// removed. Keys are walked with SCAN so large databases are not blocked.
func (r *RedisCache) Clear(ctx context.Context, prefix string) (int, error) {
	iter := r.client.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()

	var batch []string
	removed := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := r.client.Unlink(ctx, batch...).Result()
		if err != nil {
			return redisError("unlink", err)
		}
		removed += int(n)
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= scanBatch {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, redisError("scan", err)
	}
	return removed, flush()
}

func (r *RedisCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		if errors.Is(err, redis.ErrClosed) {
			return ErrCacheClosed
		}
		return NewCacheError("redis ping", false).WithError(err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

// TTL returns the remaining lifetime of key; zero means it never expires.
func (r *RedisCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, redisError("ttl", err)
	}
	switch ttl {
	case -2:
		return 0, ErrKeyNotFound
	case -1:
		return 0, nil
	}
	return ttl, nil
}
