package telemetry

import (
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitriy-luch/zoho-subscription-api/sdk"
)

// PrometheusObserver records SDK requests and cache lookups as Prometheus
// metrics. It implements sdk.Observer.
type PrometheusObserver struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
}

var _ sdk.Observer = (*PrometheusObserver)(nil)

// NewPrometheusObserver registers the zoho_* metrics with reg. A nil reg
// uses the default registerer.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusObserver{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zoho_requests_total",
				Help: "Total number of Zoho Subscriptions API requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "zoho_request_duration_seconds",
				Help:    "Zoho Subscriptions API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		inFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "zoho_requests_in_flight",
				Help: "Number of Zoho Subscriptions API requests in flight",
			},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zoho_cache_hits_total",
				Help: "Total number of response cache hits",
			},
			[]string{"kind"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "zoho_cache_misses_total",
				Help: "Total number of response cache misses",
			},
			[]string{"kind"},
		),
	}
}

// OnRequestStart implements sdk.Observer
func (o *PrometheusObserver) OnRequestStart(method, path string) {
	o.inFlight.Inc()
}

// OnRequestEnd implements sdk.Observer
func (o *PrometheusObserver) OnRequestEnd(method, path string, duration time.Duration, err error) {
	o.inFlight.Dec()

	endpoint := Endpoint(path)
	o.requestsTotal.WithLabelValues(method, endpoint, RequestStatus(err)).Inc()
	o.requestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// OnCacheHit implements sdk.Observer
func (o *PrometheusObserver) OnCacheHit(key string) {
	o.cacheHits.WithLabelValues(CacheKind(key)).Inc()
}

// OnCacheMiss implements sdk.Observer
func (o *PrometheusObserver) OnCacheMiss(key string) {
	o.cacheMisses.WithLabelValues(CacheKind(key)).Inc()
}

// Endpoint reduces a request path to a low-cardinality label:
// "subscriptions/903/cancel?cancel_at_end=true" becomes
// "subscriptions/:id/cancel".
func Endpoint(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) > 1 {
		parts[1] = ":id"
	}
	if len(parts) > 3 {
		parts[3] = ":id"
	}
	return strings.Join(parts, "/")
}

// RequestStatus labels a request outcome: "ok" or the SDK error type.
func RequestStatus(err error) string {
	if err == nil {
		return "ok"
	}
	var sdkErr *sdk.Error
	if errors.As(err, &sdkErr) {
		return strings.ReplaceAll(sdkErr.Type.String(), " ", "_")
	}
	return "unknown"
}

// CacheKind strips the code from a cache key: "plan_basic" becomes "plan".
func CacheKind(key string) string {
	if i := strings.IndexByte(key, '_'); i > 0 {
		return key[:i]
	}
	return key
}
