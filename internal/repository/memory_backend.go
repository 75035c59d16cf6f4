package repository

import (
	"context"
	"sync"
)

// MemoryBackend keeps collections in process memory. Used for local runs and tests.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBackend constructs an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// Read returns a copy of the stored value.
func (b *MemoryBackend) Read(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	value, ok := b.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), value...), nil
}

// Write stores all entries under a single lock.
func (b *MemoryBackend) Write(ctx context.Context, entries map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for key, value := range entries {
		b.data[key] = append([]byte(nil), value...)
	}
	return nil
}

// Delete removes the key if present.
func (b *MemoryBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

// Close is a no-op.
func (b *MemoryBackend) Close() error {
	return nil
}
