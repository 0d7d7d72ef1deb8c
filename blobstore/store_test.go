package blobstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract exercises the behavior every Store must share.
func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "a/one", []byte("payload-1")))
	require.NoError(t, store.Put(ctx, "a/two", []byte("payload-2")))
	require.NoError(t, store.Put(ctx, "b/three", []byte("payload-3")))

	blob, err := store.Open(ctx, "a/one")
	require.NoError(t, err)
	assert.Equal(t, int64(9), blob.Size())
	data, err := ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload-1"), data)
	require.NoError(t, blob.Close())

	// Puts replace atomically.
	require.NoError(t, store.Put(ctx, "a/one", []byte("v2")))
	blob, err = store.Open(ctx, "a/one")
	require.NoError(t, err)
	data, err = ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "a/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a/one", "a/two"}, names)

	require.NoError(t, store.Delete(ctx, "a/one"))
	require.NoError(t, store.Delete(ctx, "a/one"), "double delete must be fine")
	_, err = store.Open(ctx, "a/one")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	storeContract(t, store)
}

func TestLocalStoreMmapRead(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	payload := make([]byte, 1<<16)
	for i := range payload {
		payload[i] = byte(i)
	}
	require.NoError(t, store.Put(ctx, "big", payload))

	blob, err := store.Open(ctx, "big")
	require.NoError(t, err)
	defer blob.Close()

	m, ok := blob.(Mappable)
	require.True(t, ok, "local blobs must expose their mapping")
	data, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	chunk := make([]byte, 16)
	_, err = blob.ReadAt(chunk, 256)
	require.NoError(t, err)
	assert.Equal(t, payload[256:272], chunk)
}

func TestThrottledStore(t *testing.T) {
	inner := NewMemoryStore()
	// 64 KiB/s budget; the contract's few small payloads fit the burst
	// without blocking the test.
	store := NewThrottledStore(inner, 64<<10)
	storeContract(t, store)
}

func TestThrottledStoreHonorsCancellation(t *testing.T) {
	inner := NewMemoryStore()
	store := NewThrottledStore(inner, 16)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Far over the per-second budget: the limiter cannot grant the bytes
	// before the deadline, so the Put fails and nothing is written.
	err := store.Put(ctx, "big", make([]byte, 1<<20))
	assert.Error(t, err)
	_, openErr := inner.Open(context.Background(), "big")
	assert.ErrorIs(t, openErr, ErrNotFound)
}
