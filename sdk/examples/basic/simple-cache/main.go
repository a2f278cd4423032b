// Simple Cache Example
// This example shows plan and addon lookups served from Redis, with keys
// namespaced per organization.

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dmitriy-luch/zoho-subscription-api/cache"
	"github.com/dmitriy-luch/zoho-subscription-api/sdk"
)

func main() {
	organizationID := os.Getenv("ZOHO_ORGANIZATION_ID")

	cacheConfig, err := cache.NewConfigFromEnv()
	if err != nil {
		log.Fatalf("Invalid cache configuration: %v", err)
	}

	redisCache, err := cache.NewRedisCache(cacheConfig)
	if err != nil {
		log.Printf("Redis unavailable (%v), falling back to memory", err)
	}

	var backend cache.Cache = redisCache
	if redisCache == nil {
		backend = cache.NewMemoryCache(cacheConfig)
	}
	defer backend.Close()

	metrics := sdk.NewMetricsCollector()
	client, err := sdk.NewClient(sdk.DefaultConfig(os.Getenv("ZOHO_AUTH_TOKEN"), organizationID).
		WithCache(cache.NewNamespacedCache(backend, organizationID)).
		WithCacheTTL(30 * time.Minute).
		WithObserver(metrics))
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()

	fmt.Println("=== Plan lookups ===")
	for i := 1; i <= 3; i++ {
		start := time.Now()
		plans, err := client.ListPlans(ctx, nil, false, "")
		if err != nil {
			log.Fatalf("Failed to list plans: %v", err)
		}
		fmt.Printf("Round %d: %d plans in %v\n", i, len(plans), time.Since(start))
	}

	fmt.Println("\n=== Invalidation ===")
	client.InvalidatePlans(ctx)
	if _, err := client.ListPlans(ctx, nil, false, ""); err != nil {
		log.Fatalf("Failed to list plans: %v", err)
	}

	s := metrics.Snapshot()
	fmt.Printf("API requests: %d, cache hits: %d, misses: %d (hit rate %.0f%%)\n",
		metrics.TotalRequests(), s.CacheHits, s.CacheMisses, s.CacheHitRate*100)
}
