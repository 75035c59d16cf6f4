package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func newBoltBackend(t *testing.T) *BoltBackend {
	t.Helper()
	db, err := bbolt.Open(filepath.Join(t.TempDir(), "store.db"), 0o600, nil)
	require.NoError(t, err)
	backend, err := NewBoltBackend(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

func TestBoltBackendReadMissingKey(t *testing.T) {
	backend := newBoltBackend(t)

	_, err := backend.Read(context.Background(), "courses")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestBoltBackendWriteReadDelete(t *testing.T) {
	backend := newBoltBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Write(ctx, map[string][]byte{
		"courses":     []byte(`[{"id":"1"}]`),
		"enrollments": []byte(`[]`),
	}))

	raw, err := backend.Read(ctx, "courses")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(raw))

	require.NoError(t, backend.Delete(ctx, "courses"))
	_, err = backend.Read(ctx, "courses")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	raw, err = backend.Read(ctx, "enrollments")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestBoltBackendBacksRecordStore(t *testing.T) {
	store := NewRecordStore(newBoltBackend(t), nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, store.SaveCourses(ctx, nil))
	courses, err := store.Courses(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)
}
