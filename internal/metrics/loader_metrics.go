package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// LoaderMetrics tracks evolution loader performance.
type LoaderMetrics struct {
	FetchLatency *Histogram // Per-request latency against the data source
	LoadLatency  *Histogram // Full LoadDetails latency on a cache miss

	Requests    atomic.Uint64
	Failures    atomic.Uint64
	Degraded    atomic.Uint64
	CacheHits   atomic.Uint64
	CacheMisses atomic.Uint64

	mu        sync.RWMutex
	startTime time.Time
}

// NewLoaderMetrics creates a new metrics collector.
func NewLoaderMetrics() *LoaderMetrics {
	return &LoaderMetrics{
		FetchLatency: NewHistogram(0),
		LoadLatency:  NewHistogram(0),
		startTime:    time.Now(),
	}
}

// RecordFetch records one data-source request.
func (m *LoaderMetrics) RecordFetch(d time.Duration, err error) {
	m.FetchLatency.Record(d)
	m.Requests.Add(1)
	if err != nil {
		m.Failures.Add(1)
	}
}

// RecordLoad records a completed load; degraded marks a fallback result.
func (m *LoaderMetrics) RecordLoad(d time.Duration, degraded bool) {
	m.LoadLatency.Record(d)
	if degraded {
		m.Degraded.Add(1)
	}
}

// RecordCache records a cache lookup.
func (m *LoaderMetrics) RecordCache(hit bool) {
	if hit {
		m.CacheHits.Add(1)
		return
	}
	m.CacheMisses.Add(1)
}

// LoaderStats is a point-in-time view of LoaderMetrics.
type LoaderStats struct {
	FetchLatency LatencyStats `json:"fetch_latency"`
	LoadLatency  LatencyStats `json:"load_latency"`

	Requests       uint64  `json:"requests"`
	Failures       uint64  `json:"failures"`
	Degraded       uint64  `json:"degraded"`
	CacheHits      uint64  `json:"cache_hits"`
	CacheMisses    uint64  `json:"cache_misses"`
	CacheHitRate   float64 `json:"cache_hit_rate"`   // percentage
	APISuccessRate float64 `json:"api_success_rate"` // percentage

	Uptime string `json:"uptime"`
}

// LatencyStats summarizes a latency histogram in milliseconds.
type LatencyStats struct {
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// GetStats returns a snapshot of the current statistics.
func (m *LoaderMetrics) GetStats() *LoaderStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	requests := m.Requests.Load()
	failures := m.Failures.Load()
	hits := m.CacheHits.Load()
	misses := m.CacheMisses.Load()

	hitRate := 0.0
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses) * 100
	}
	successRate := 0.0
	if requests > 0 {
		successRate = float64(requests-failures) / float64(requests) * 100
	}

	return &LoaderStats{
		FetchLatency:   m.FetchLatency.Snapshot(),
		LoadLatency:    m.LoadLatency.Snapshot(),
		Requests:       requests,
		Failures:       failures,
		Degraded:       m.Degraded.Load(),
		CacheHits:      hits,
		CacheMisses:    misses,
		CacheHitRate:   hitRate,
		APISuccessRate: successRate,
		Uptime:         time.Since(m.startTime).Round(time.Second).String(),
	}
}

// Reset clears all metrics.
func (m *LoaderMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FetchLatency.Reset()
	m.LoadLatency.Reset()
	m.Requests.Store(0)
	m.Failures.Store(0)
	m.Degraded.Store(0)
	m.CacheHits.Store(0)
	m.CacheMisses.Store(0)
	m.startTime = time.Now()
}
