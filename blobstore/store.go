package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a snapshot object does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for persisting immutable snapshot objects.
type Store interface {
	// Open opens an object for reading.
	Open(ctx context.Context, name string) (Blob, error)

	// Put writes an object atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all objects with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a snapshot object.
type Blob interface {
	io.ReaderAt
	io.Closer
	// Size returns the size of the object in bytes.
	Size() int64
}

// Mappable is an optional interface for Blobs that expose their content as
// a byte slice without copying. The slice is valid until the Blob is
// closed.
type Mappable interface {
	Bytes() ([]byte, error)
}

// ReadAll reads the full content of a blob, taking it from Mappable.Bytes
// when the implementation supports it. The returned slice is always a
// fresh copy owned by the caller.
func ReadAll(b Blob) ([]byte, error) {
	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err == nil {
			out := make([]byte, len(data))
			copy(out, data)
			return out, nil
		}
	}
	out := make([]byte, b.Size())
	if _, err := b.ReadAt(out, 0); err != nil && err != io.EOF {
		return nil, err
	}
	return out, nil
}
