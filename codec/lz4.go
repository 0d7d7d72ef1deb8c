package codec

import (
	"encoding/binary"
	"errors"

	"github.com/pierrec/lz4/v4"
)

// LZ4 compresses payloads with LZ4 block compression: lower ratio than
// ZSTD but the cheapest to decode, good for hot snapshots.
//
// Block format: [UncompressedSize uint32][CompressedSize uint32][Data...].
// CompressedSize == 0 marks an incompressible payload stored verbatim.
type LZ4 struct{}

const lz4HeaderSize = 8

// Compress encodes src as one LZ4 block with a size header.
func (LZ4) Compress(src []byte) ([]byte, error) {
	bound := lz4.CompressBlockBound(len(src))
	compressed := make([]byte, bound)
	n, err := lz4.CompressBlock(src, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 || n >= len(src) {
		// Incompressible: store verbatim.
		out := make([]byte, lz4HeaderSize+len(src))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(src)))
		binary.LittleEndian.PutUint32(out[4:], 0)
		copy(out[lz4HeaderSize:], src)
		return out, nil
	}
	out := make([]byte, lz4HeaderSize+n)
	binary.LittleEndian.PutUint32(out[0:], uint32(len(src)))
	binary.LittleEndian.PutUint32(out[4:], uint32(n))
	copy(out[lz4HeaderSize:], compressed[:n])
	return out, nil
}

// Decompress decodes one LZ4 block written by Compress.
func (LZ4) Decompress(src []byte) ([]byte, error) {
	if len(src) < lz4HeaderSize {
		return nil, errors.New("lz4 block too small for header")
	}
	uncompressedSize := binary.LittleEndian.Uint32(src[0:])
	compressedSize := binary.LittleEndian.Uint32(src[4:])
	body := src[lz4HeaderSize:]

	if compressedSize == 0 {
		if uint32(len(body)) < uncompressedSize {
			return nil, errors.New("lz4 block data too small")
		}
		out := make([]byte, uncompressedSize)
		copy(out, body[:uncompressedSize])
		return out, nil
	}

	if uint32(len(body)) < compressedSize {
		return nil, errors.New("lz4 compressed block data too small")
	}
	out := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(body[:compressedSize], out)
	if err != nil {
		return nil, err
	}
	if uint32(n) != uncompressedSize {
		return nil, errors.New("lz4 decompressed size mismatch")
	}
	return out, nil
}

// Name returns the unique name of the codec ("lz4").
func (LZ4) Name() string { return "lz4" }
