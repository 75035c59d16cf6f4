package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each collection as a plain string key.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend constructs a backend over an existing client. The client stays owned by the caller.
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

// Read fetches the raw collection payload.
func (b *RedisBackend) Read(ctx context.Context, key string) ([]byte, error) {
	raw, err := b.client.Get(ctx, b.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Write sets every key inside MULTI/EXEC.
func (b *RedisBackend) Write(ctx context.Context, entries map[string][]byte) error {
	keys := sortedKeys(entries)
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Set(ctx, b.key(key), entries[key], 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis write %v: %w", keys, err)
	}
	return nil
}

// Delete removes the key.
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, b.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Close does not close the shared client.
func (b *RedisBackend) Close() error {
	return nil
}

func (b *RedisBackend) key(key string) string {
	return b.prefix + key
}
