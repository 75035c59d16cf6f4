package repository

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

var collectionsBucket = []byte("Collections")

// BoltBackend persists collections in a single bbolt bucket on local disk.
type BoltBackend struct {
	db *bbolt.DB
}

// NewBoltBackend prepares the collections bucket on an opened bbolt database.
func NewBoltBackend(db *bbolt.DB) (*BoltBackend, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(collectionsBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create collections bucket: %w", err)
	}
	return &BoltBackend{db: db}, nil
}

// Read copies the value out of the read transaction.
func (b *BoltBackend) Read(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(collectionsBucket)
		if bucket == nil {
			return fmt.Errorf("bucket %s not found", collectionsBucket)
		}
		v := bucket.Get([]byte(key))
		if v == nil {
			return ErrKeyNotFound
		}
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Write puts every entry inside one read-write transaction.
func (b *BoltBackend) Write(ctx context.Context, entries map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(collectionsBucket)
		if bucket == nil {
			return fmt.Errorf("bucket %s not found", collectionsBucket)
		}
		for key, value := range entries {
			if err := bucket.Put([]byte(key), value); err != nil {
				return fmt.Errorf("put %s: %w", key, err)
			}
		}
		return nil
	})
}

// Delete removes the key inside a read-write transaction.
func (b *BoltBackend) Delete(ctx context.Context, key string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(collectionsBucket)
		if bucket == nil {
			return fmt.Errorf("bucket %s not found", collectionsBucket)
		}
		return bucket.Delete([]byte(key))
	})
}

// Close closes the underlying database file.
func (b *BoltBackend) Close() error {
	return b.db.Close()
}
