// Monitoring Example
// This example exposes SDK request and cache metrics for Prometheus with a
// custom Observer.

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitriy-luch/zoho-subscription-api/cache"
	"github.com/dmitriy-luch/zoho-subscription-api/sdk"
)

// promObserver counts requests by method and outcome, and cache lookups.
type promObserver struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

func newPromObserver(reg prometheus.Registerer) *promObserver {
	o := &promObserver{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "example_zoho_requests_total",
			Help: "Zoho API requests by method and outcome",
		}, []string{"method", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "example_zoho_request_seconds",
			Help:    "Zoho API request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "example_zoho_cache_lookups_total",
			Help: "Cache lookups by result",
		}, []string{"result"}),
	}
	reg.MustRegister(o.requests, o.latency, o.cache)
	return o
}

func (o *promObserver) OnRequestStart(method, path string) {}

func (o *promObserver) OnRequestEnd(method, path string, duration time.Duration, err error) {
	o.requests.WithLabelValues(method, outcome(err)).Inc()
	o.latency.WithLabelValues(method).Observe(duration.Seconds())
}

func (o *promObserver) OnCacheHit(key string) { o.cache.WithLabelValues("hit").Inc() }

func (o *promObserver) OnCacheMiss(key string) { o.cache.WithLabelValues("miss").Inc() }

func outcome(err error) string {
	var apiErr *sdk.Error
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &apiErr):
		return strings.ReplaceAll(apiErr.Type.String(), " ", "_")
	}
	return "error"
}

func main() {
	registry := prometheus.NewRegistry()

	client, err := sdk.NewClient(sdk.DefaultConfig(os.Getenv("ZOHO_AUTH_TOKEN"), os.Getenv("ZOHO_ORGANIZATION_ID")).
		WithCache(cache.NewMemoryCache(nil)).
		WithObserver(newPromObserver(registry)))
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	go func() {
		ctx := context.Background()
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for ; ; <-ticker.C {
			if _, err := client.ListPlans(ctx, map[string]any{"status": "active"}, true, ""); err != nil {
				log.Printf("Plan refresh failed: %v", err)
			}
		}
	}()

	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	log.Println("Serving metrics on :2112/metrics")
	log.Fatal(http.ListenAndServe(":2112", nil))
}
