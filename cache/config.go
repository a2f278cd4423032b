package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultTTL matches the lifetime Zoho plan catalogues are usually cached for.
const DefaultTTL = 7200 * time.Second

// Config holds cache configuration
type Config struct {
	// Redis connection settings
	Host     string
	Port     int
	Password string
	DB       int

	// Connection pool settings
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	MaxIdleTime  time.Duration

	// DefaultTTL applies when Set is called with a zero TTL
	DefaultTTL time.Duration

	// MemorySize bounds the number of entries of the in-memory cache
	MemorySize int
}

// DefaultConfig returns a configuration for a local Redis.
func DefaultConfig() *Config {
	return &Config{
		Host:         "localhost",
		Port:         6379,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxIdleTime:  5 * time.Minute,
		DefaultTTL:   DefaultTTL,
		MemorySize:   1024,
	}
}

// NewConfigFromEnv creates a new Config from environment variables
func NewConfigFromEnv() (*Config, error) {
	cfg := DefaultConfig()

	port, err := strconv.Atoi(getEnvOrDefault("REDIS_PORT", "6379"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}

	db, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	poolSize, err := strconv.Atoi(getEnvOrDefault("REDIS_POOL_SIZE", strconv.Itoa(cfg.PoolSize)))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_POOL_SIZE: %w", err)
	}

	defaultTTL, err := ParseDuration(getEnvOrDefault("CACHE_DEFAULT_TTL", "7200"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_DEFAULT_TTL: %w", err)
	}

	memorySize, err := strconv.Atoi(getEnvOrDefault("CACHE_MEMORY_SIZE", strconv.Itoa(cfg.MemorySize)))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_MEMORY_SIZE: %w", err)
	}

	cfg.Host = getEnvOrDefault("REDIS_HOST", cfg.Host)
	cfg.Port = port
	cfg.Password = os.Getenv("REDIS_PASSWORD")
	cfg.DB = db
	cfg.PoolSize = poolSize
	cfg.DefaultTTL = defaultTTL
	cfg.MemorySize = memorySize
	return cfg, nil
}

// Address returns the Redis server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ParseDuration accepts Go durations ("2h") and plain seconds ("7200").
func ParseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	if seconds, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}

	return 0, fmt.Errorf("invalid duration format: %s", s)
}
