package sdk

import (
	"sync"
	"time"
)

// Observer provides hooks for monitoring SDK operations.
// Implement this interface to track request latencies, error rates and
// cache effectiveness, or to integrate with your observability stack.
//
// Observer methods should be fast and non-blocking.
//
// Example implementation:
//
//	type LogObserver struct {
//	    logger *log.Logger
//	}
//
//	func (o *LogObserver) OnRequestEnd(method, path string, duration time.Duration, err error) {
//	    o.logger.Printf("%s %s took %v (err=%v)", method, path, duration, err)
//	}
type Observer interface {
	// OnRequestStart is called when an HTTP request starts.
	OnRequestStart(method, path string)

	// OnRequestEnd is called when an HTTP request completes.
	// err is nil only when the response was a success envelope.
	OnRequestEnd(method, path string, duration time.Duration, err error)

	// OnCacheHit is called when a cache key is found.
	OnCacheHit(key string)

	// OnCacheMiss is called when a cache key is not found.
	OnCacheMiss(key string)
}

// NoopObserver is the default Observer and does nothing.
type NoopObserver struct{}

// OnRequestStart does nothing
func (n *NoopObserver) OnRequestStart(method, path string) {}

// OnRequestEnd does nothing
func (n *NoopObserver) OnRequestEnd(method, path string, duration time.Duration, err error) {}

// OnCacheHit does nothing
func (n *NoopObserver) OnCacheHit(key string) {}

// OnCacheMiss does nothing
func (n *NoopObserver) OnCacheMiss(key string) {}

// MetricsCollector is a simple in-memory Observer.
// It is primarily intended for debugging and tests; export to a real
// monitoring system by implementing Observer.
//
// Example:
//
//	metrics := sdk.NewMetricsCollector()
//	client, _ := sdk.NewClient(sdk.DefaultConfig(token, org).WithObserver(metrics))
//	// Use client...
//	fmt.Printf("cache hit rate: %.2f\n", metrics.Snapshot().CacheHitRate)
type MetricsCollector struct {
	mu             sync.RWMutex
	requestCount   map[string]int64
	latencies      map[string][]time.Duration
	errorCount     map[string]int64
	cacheHitCount  int64
	cacheMissCount int64
}

// MetricsSnapshot is a copy of the collected metrics.
type MetricsSnapshot struct {
	Requests     map[string]int64
	Latencies    map[string][]time.Duration
	Errors       map[string]int64
	CacheHits    int64
	CacheMisses  int64
	CacheHitRate float64
}

// NewMetricsCollector creates a new metrics collector.
// The collector is safe for concurrent use.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		requestCount: make(map[string]int64),
		latencies:    make(map[string][]time.Duration),
		errorCount:   make(map[string]int64),
	}
}

// OnRequestStart increments request count
func (m *MetricsCollector) OnRequestStart(method, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[method+" "+path]++
}

// OnRequestEnd records request duration and errors
func (m *MetricsCollector) OnRequestEnd(method, path string, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := method + " " + path
	m.latencies[key] = append(m.latencies[key], duration)
	if err != nil {
		m.errorCount[key]++
	}
}

// OnCacheHit increments cache hit count
func (m *MetricsCollector) OnCacheHit(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHitCount++
}

// OnCacheMiss increments cache miss count
func (m *MetricsCollector) OnCacheMiss(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheMissCount++
}

// TotalRequests returns the number of requests started.
func (m *MetricsCollector) TotalRequests() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, n := range m.requestCount {
		total += n
	}
	return total
}

// Snapshot returns a copy of the current metrics.
func (m *MetricsCollector) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := MetricsSnapshot{
		Requests:    make(map[string]int64, len(m.requestCount)),
		Latencies:   make(map[string][]time.Duration, len(m.latencies)),
		Errors:      make(map[string]int64, len(m.errorCount)),
		CacheHits:   m.cacheHitCount,
		CacheMisses: m.cacheMissCount,
	}
	for k, v := range m.requestCount {
		s.Requests[k] = v
	}
	for k, v := range m.latencies {
		s.Latencies[k] = append([]time.Duration(nil), v...)
	}
	for k, v := range m.errorCount {
		s.Errors[k] = v
	}
	if total := m.cacheHitCount + m.cacheMissCount; total > 0 {
		s.CacheHitRate = float64(m.cacheHitCount) / float64(total)
	}
	return s
}

// Reset clears all metrics
func (m *MetricsCollector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = make(map[string]int64)
	m.latencies = make(map[string][]time.Duration)
	m.errorCount = make(map[string]int64)
	m.cacheHitCount = 0
	m.cacheMissCount = 0
}
