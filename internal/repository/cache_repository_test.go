package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
)

type scanPage struct {
	keys   []string
	cursor uint64
}

type fakeCacheClient struct {
	values  map[string]string
	pages   map[uint64]scanPage
	deleted []string
	getErr  error
}

func (f *fakeCacheClient) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeCacheClient) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCacheClient) Scan(_ context.Context, cursor uint64, _ string, _ int64) *redis.ScanCmd {
	page := f.pages[cursor]
	return redis.NewScanCmdResult(page.keys, page.cursor, nil)
}

func (f *fakeCacheClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.deleted = append(f.deleted, keys...)
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestCacheRepositoryRoundTrip(t *testing.T) {
	client := &fakeCacheClient{values: map[string]string{}}
	repo := NewCacheRepository(client, nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "catalog:popular:6", []string{"2", "1"}, time.Minute))

	var got []string
	require.NoError(t, repo.Get(ctx, "catalog:popular:6", &got))
	assert.Equal(t, []string{"2", "1"}, got)
}

func TestCacheRepositoryMissAndGarbage(t *testing.T) {
	client := &fakeCacheClient{values: map[string]string{"bad": "{not json"}}
	repo := NewCacheRepository(client, nil)
	var dest []string

	assert.True(t, appErrors.Is(repo.Get(context.Background(), "absent", &dest), appErrors.ErrCacheMiss))
	assert.True(t, appErrors.Is(repo.Get(context.Background(), "bad", &dest), appErrors.ErrCacheMiss))

	client.getErr = errors.New("connection refused")
	err := repo.Get(context.Background(), "absent", &dest)
	require.Error(t, err)
	assert.False(t, appErrors.Is(err, appErrors.ErrCacheMiss))
}

func TestCacheRepositoryDeleteByPatternWalksAllPages(t *testing.T) {
	client := &fakeCacheClient{pages: map[uint64]scanPage{
		0:  {keys: []string{"catalog:a", "catalog:b"}, cursor: 17},
		17: {keys: nil, cursor: 42},
		42: {keys: []string{"catalog:c"}, cursor: 0},
	}}
	repo := NewCacheRepository(client, nil)

	require.NoError(t, repo.DeleteByPattern(context.Background(), "catalog:*"))
	assert.Equal(t, []string{"catalog:a", "catalog:b", "catalog:c"}, client.deleted)
}
