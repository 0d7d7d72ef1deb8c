// Package codec centralizes payload compression for persisted bitmaps.
//
// Codec selection is a breaking-change boundary: snapshots record the codec
// name in their header and are opened by resolving that name, so bytes
// written by a codec this package no longer knows cannot be decoded.
package codec

import "fmt"

// Codec compresses and decompresses snapshot payloads.
// Implementations must be safe for concurrent use.
type Codec interface {
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
	Name() string
}

// ByName returns a built-in codec by its stable name.
//
// Self-describing persistence formats store the codec name in their header
// and resolve it here on load.
func ByName(name string) (Codec, bool) {
	switch name {
	case "none":
		return None{}, true
	case "zstd":
		return Zstd{}, true
	case "lz4":
		return LZ4{}, true
	default:
		return nil, false
	}
}

// Default is the codec used when none is configured. Persisted data always
// records the codec name, so changing the default never breaks old files.
var Default Codec = Zstd{}

// MustCompress is a helper for internal tests and benchmarks.
func MustCompress(c Codec, src []byte) []byte {
	if c == nil {
		c = Default
	}
	out, err := c.Compress(src)
	if err != nil {
		panic(fmt.Errorf("codec %s compress failed: %w", c.Name(), err))
	}
	return out
}
