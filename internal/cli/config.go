package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dmitriy-luch/zoho-subscription-api/cache"
	"github.com/dmitriy-luch/zoho-subscription-api/sdk"
)

// Cache backends selectable with --cache / ZOHO_CACHE.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the resolved CLI configuration. Flags win over ZOHO_*
// environment variables, which win over the .env file.
type Config struct {
	AuthToken      string
	OrganizationID string
	BaseURL        string
	Cache          string
	CacheTTL       time.Duration
	LogLevel       string
	Metrics        bool
}

// bindConfig wires the persistent flags to v under ZOHO_* names.
func bindConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	v.SetEnvPrefix("ZOHO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("base_url", sdk.DefaultBaseURL)
	v.SetDefault("cache", CacheNone)
	v.SetDefault("cache_ttl", "7200")
	v.SetDefault("log_level", "warn")

	bindings := map[string]string{
		"auth_token":      "token",
		"organization_id": "organization",
		"base_url":        "base-url",
		"cache":           "cache",
		"cache_ttl":       "cache-ttl",
		"log_level":       "log-level",
		"metrics":         "metrics",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %q: %w", flag, err)
		}
	}
	return nil
}

// loadEnvFile exports the variables of path that are not already set. A
// missing file is only an error when it was asked for explicitly.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func loadConfig(v *viper.Viper) (*Config, error) {
	ttl, err := cache.ParseDuration(v.GetString("cache_ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid cache TTL: %w", err)
	}

	cfg := &Config{
		AuthToken:      v.GetString("auth_token"),
		OrganizationID: v.GetString("organization_id"),
		BaseURL:        v.GetString("base_url"),
		Cache:          strings.ToLower(v.GetString("cache")),
		CacheTTL:       ttl,
		LogLevel:       v.GetString("log_level"),
		Metrics:        v.GetBool("metrics"),
	}

	switch cfg.Cache {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return nil, fmt.Errorf("unknown cache backend %q (want none, memory or redis)", cfg.Cache)
	}
	return cfg, nil
}
