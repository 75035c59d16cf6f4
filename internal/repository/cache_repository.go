package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
)

const scanBatchSize = 200

// cacheClient is the slice of the Redis API used for catalog caching.
type cacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CacheRepository stores JSON-encoded catalog reads in Redis.
type CacheRepository struct {
	client cacheClient
	logger *zap.Logger
}

// NewCacheRepository constructs a cache repository over a shared client.
func NewCacheRepository(client cacheClient, logger *zap.Logger) *CacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheRepository{client: client, logger: logger}
}

// Get decodes the cached value into dest. A missing key yields ErrCacheMiss.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		r.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return appErrors.ErrCacheMiss
	}
	return nil
}

// Set stores value under key for ttl.
func (r *CacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// DeleteByPattern walks the keyspace with SCAN and deletes matches one page at a time.
func (r *CacheRepository) DeleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan pattern %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete %d keys for %s: %w", len(keys), pattern, err)
			}
			deleted += len(keys)
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	r.logger.Debug("cache entries invalidated", zap.String("pattern", pattern), zap.Int("deleted", deleted))
	return nil
}
