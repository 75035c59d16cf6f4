package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/learnhub-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	storeDuration   *prometheus.HistogramVec
	storeCorrupt    *prometheus.CounterVec
	enrollments     prometheus.Counter
	completions     prometheus.Counter

	cacheHitCount      uint64
	cacheMissCount     uint64
	requestCount       uint64
	requestNanos       uint64
	storeOpCount       uint64
	storeOpNanos       uint64
	corruptCount       uint64
	enrollmentCount    uint64
	videoCompleteCount uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	storeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_operation_duration_seconds",
		Help:    "Duration of record store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op", "collection"})

	storeCorrupt := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_corrupt_total",
		Help: "Stored collections that failed to decode or validate and were served as empty",
	}, []string{"collection"})

	enrollments := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enrollments_created_total",
		Help: "Total enrollments created",
	})

	completions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "video_completions_total",
		Help: "Total videos newly marked complete",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		storeDuration, storeCorrupt, enrollments, completions, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		storeDuration:   storeDuration,
		storeCorrupt:    storeCorrupt,
		enrollments:     enrollments,
		completions:     completions,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestNanos, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveStoreOperation records record store latency per collection.
func (m *MetricsService) ObserveStoreOperation(op, collection string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeDuration.WithLabelValues(op, collection).Observe(duration.Seconds())
	atomic.AddUint64(&m.storeOpCount, 1)
	atomic.AddUint64(&m.storeOpNanos, uint64(duration.Nanoseconds()))
}

// RecordStorageCorrupt counts a collection that was served as empty because it could not be read.
func (m *MetricsService) RecordStorageCorrupt(collection string) {
	if m == nil {
		return
	}
	m.storeCorrupt.WithLabelValues(collection).Inc()
	atomic.AddUint64(&m.corruptCount, 1)
}

// RecordEnrollment counts a newly created enrollment.
func (m *MetricsService) RecordEnrollment() {
	if m == nil {
		return
	}
	m.enrollments.Inc()
	atomic.AddUint64(&m.enrollmentCount, 1)
}

// RecordVideoCompletion counts a video added to an enrollment's completed set.
func (m *MetricsService) RecordVideoCompletion() {
	if m == nil {
		return
	}
	m.completions.Inc()
	atomic.AddUint64(&m.videoCompleteCount, 1)
}

// Snapshot returns aggregated metrics for the JSON summary endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	storeOps := atomic.LoadUint64(&m.storeOpCount)

	var cacheRatio float64
	if total := hits + misses; total > 0 {
		cacheRatio = float64(hits) / float64(total)
	}

	return models.SystemMetrics{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: averageMillis(atomic.LoadUint64(&m.requestNanos), requests),
		StoreOperations:          storeOps,
		AverageStoreDurationMs:   averageMillis(atomic.LoadUint64(&m.storeOpNanos), storeOps),
		CorruptCollections:       atomic.LoadUint64(&m.corruptCount),
		Enrollments:              atomic.LoadUint64(&m.enrollmentCount),
		VideoCompletions:         atomic.LoadUint64(&m.videoCompleteCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}

func averageMillis(totalNanos, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return float64(totalNanos) / float64(count) / float64(time.Millisecond)
}
