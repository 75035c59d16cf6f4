package models

import "time"

// SystemMetrics is a lightweight JSON view over the Prometheus collectors.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	StoreOperations          uint64    `json:"store_operations"`
	AverageStoreDurationMs   float64   `json:"average_store_duration_ms"`
	CorruptCollections       uint64    `json:"corrupt_collections"`
	Enrollments              uint64    `json:"enrollments"`
	VideoCompletions         uint64    `json:"video_completions"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
