package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCacheRepo struct{ err error }

func (f failingCacheRepo) Get(context.Context, string, interface{}) error { return f.err }
func (f failingCacheRepo) Set(context.Context, string, interface{}, time.Duration) error {
	return f.err
}
func (f failingCacheRepo) DeleteByPattern(context.Context, string) error { return f.err }

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, nil, 0, nil, false)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "catalog:x", []string{"a"}, 0))
	hit, err := cache.Get(ctx, "catalog:x", &[]string{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, repo.entries)
}

func TestCacheServiceNilIsNoop(t *testing.T) {
	var cache *CacheService

	hit, err := cache.Get(context.Background(), "k", &[]string{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, cache.InvalidateCatalog(context.Background()))
}

func TestCacheServiceRoundTripRecordsMetrics(t *testing.T) {
	metrics := NewMetricsService()
	cache := NewCacheService(newMemoryCacheRepo(), metrics, time.Minute, nil, true)
	ctx := context.Background()

	var out []string
	hit, err := cache.Get(ctx, "catalog:k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, "catalog:k", []string{"a", "b"}, 0))
	hit, err = cache.Get(ctx, "catalog:k", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a", "b"}, out)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(1), snapshot.CacheMisses)
}

func TestCacheServiceSurfacesBackendErrors(t *testing.T) {
	cache := NewCacheService(failingCacheRepo{err: errors.New("connection refused")}, nil, 0, nil, true)
	ctx := context.Background()

	_, err := cache.Get(ctx, "k", &[]string{})
	assert.Error(t, err)
	assert.Error(t, cache.Set(ctx, "k", "v", 0))
	assert.Error(t, cache.InvalidateCatalog(ctx))
}

func TestCatalogKeyEscapesParts(t *testing.T) {
	assert.Equal(t, "catalog:search:web+dev:all", CatalogKey("search", "Web Dev", "All"))
	assert.Equal(t, "catalog:search:a%3Ab", CatalogKey("search", "a:b"))
}

func TestNextRecordIDSkipsTakenIDs(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	taken := map[string]bool{"1700000000000": true, "1700000000001": true}

	assert.Equal(t, "1700000000002", nextRecordID(now, func(id string) bool { return taken[id] }))
	assert.Equal(t, "1700000000000", nextRecordID(now, nil))
}

func TestCacheServiceSetIfCurrentSkipsAfterInvalidation(t *testing.T) {
	repo := newMemoryCacheRepo()
	cache := NewCacheService(repo, NewMetricsService(), time.Minute, nil, true)
	ctx := context.Background()

	stale := cache.Generation()
	require.NoError(t, cache.InvalidateCatalog(ctx))

	written, err := cache.SetIfCurrent(ctx, stale, "catalog:popular:2", []string{"old"}, 0)
	require.NoError(t, err)
	assert.False(t, written)
	assert.Empty(t, repo.entries)

	written, err = cache.SetIfCurrent(ctx, cache.Generation(), "catalog:popular:2", []string{"new"}, 0)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Contains(t, repo.entries, "catalog:popular:2")
}
