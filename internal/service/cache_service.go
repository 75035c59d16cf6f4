package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
)

// CatalogCachePrefix namespaces every cached catalog read. Course writes drop the whole namespace.
const CatalogCachePrefix = "catalog:"

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService orchestrates cache operations and related metrics.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool

	// generation advances on every invalidation. Guarded writes hold genMu for reading so an
	// invalidation cannot slip between their generation check and the write.
	genMu      sync.RWMutex
	generation uint64
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// CatalogKey builds a cache key under CatalogCachePrefix. Parts are escaped so user input cannot
// collide with the separator.
func CatalogKey(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, part := range parts {
		escaped[i] = url.QueryEscape(strings.ToLower(part))
	}
	return CatalogCachePrefix + strings.Join(escaped, ":")
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get attempts to retrieve a cached entry. It returns true when the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordCacheOperation(false, duration)
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	s.metrics.RecordCacheOperation(true, duration)
	return true, nil
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Generation returns the current invalidation generation. Pair it with SetIfCurrent when the
// cached value is derived from a read that started before the call.
func (s *CacheService) Generation() uint64 {
	if !s.Enabled() {
		return 0
	}
	s.genMu.RLock()
	defer s.genMu.RUnlock()
	return s.generation
}

// SetIfCurrent stores the value only when no invalidation happened since generation was taken.
// It reports whether the value was written.
func (s *CacheService) SetIfCurrent(ctx context.Context, generation uint64, key string, value interface{}, ttl time.Duration) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	s.genMu.RLock()
	defer s.genMu.RUnlock()
	if s.generation != generation {
		return false, nil
	}
	if err := s.Set(ctx, key, value, ttl); err != nil {
		return false, err
	}
	return true, nil
}

// Invalidate removes cached values for the provided pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	s.genMu.Lock()
	s.generation++
	s.genMu.Unlock()
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}

// InvalidateCatalog drops every cached catalog read.
func (s *CacheService) InvalidateCatalog(ctx context.Context) error {
	return s.Invalidate(ctx, CatalogCachePrefix+"*")
}
