package repository

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by a Backend when a key has never been written.
var ErrKeyNotFound = errors.New("record store key not found")

// Backend is the byte-level key/value contract the record store persists through.
// Write must apply every entry or none of them.
type Backend interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
