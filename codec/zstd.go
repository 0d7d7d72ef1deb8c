package codec

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Encoder/decoder pools; zstd contexts are expensive to build.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	// SpeedDefault balances ratio against speed for cold snapshot data.
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Zstd compresses payloads with ZSTD block compression. Good ratio on the
// marker-heavy compact format, still fast to decode.
type Zstd struct{}

// Compress encodes src as a single ZSTD frame.
func (Zstd) Compress(src []byte) ([]byte, error) {
	enc := getZstdEncoder()
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(src, nil), nil
}

// Decompress decodes a single ZSTD frame.
func (Zstd) Decompress(src []byte) ([]byte, error) {
	dec := getZstdDecoder()
	defer zstdDecoderPool.Put(dec)
	return dec.DecodeAll(src, nil)
}

// Name returns the unique name of the codec ("zstd").
func (Zstd) Name() string { return "zstd" }
