// Package snapshot persists sets of named bitmaps as a single
// self-describing container.
//
// The container records the codec name in its header and carries a
// CRC32-Castagnoli trailer, so a snapshot written with any built-in codec
// can be opened without out-of-band configuration and silent corruption is
// detected on load.
package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/hupe1980/ewahgo"
	"github.com/hupe1980/ewahgo/blobstore"
	"github.com/hupe1980/ewahgo/codec"
	"github.com/hupe1980/ewahgo/internal/hash"
)

// Container layout:
//
//	magic "EWSN" | version u8 | codec name (uvarint len + bytes) |
//	count uvarint | entries | crc32c u32 LE
//
// Each entry is: name (uvarint len + bytes) | payload (uvarint len +
// bytes), where the payload is the bitmap's compact form run through the
// codec. The checksum covers everything before it.
var magic = [4]byte{'E', 'W', 'S', 'N'}

const version = 1

var (
	// ErrBadMagic is returned when the stream does not start with the
	// snapshot magic.
	ErrBadMagic = errors.New("snapshot: bad magic")

	// ErrUnsupportedVersion is returned for container versions this
	// package does not know.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")

	// ErrUnknownCodec is returned when the header names a codec that is
	// not registered.
	ErrUnknownCodec = errors.New("snapshot: unknown codec")

	// ErrChecksum is returned when the trailer checksum does not match.
	ErrChecksum = errors.New("snapshot: checksum mismatch")

	// ErrTruncated is returned when the stream ends mid-structure.
	ErrTruncated = errors.New("snapshot: truncated stream")
)

// Options configures snapshot writing.
type Options struct {
	// Codec compresses the per-bitmap payloads. Defaults to codec.Default.
	Codec codec.Codec

	// Logger receives store/load events. Defaults to a discard logger.
	Logger *slog.Logger
}

func applyOptions(optFns []func(*Options)) Options {
	opts := Options{
		Codec:  codec.Default,
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return opts
}

// WithCodec selects the payload codec for newly written snapshots.
func WithCodec(c codec.Codec) func(*Options) {
	return func(o *Options) { o.Codec = c }
}

// WithLogger attaches a logger to snapshot operations.
func WithLogger(l *slog.Logger) func(*Options) {
	return func(o *Options) { o.Logger = l }
}

// Write encodes the named bitmaps into w. Entries are written in sorted
// name order so identical inputs produce identical bytes.
func Write(w io.Writer, bitmaps map[string]*ewahgo.Bitmap, optFns ...func(*Options)) error {
	opts := applyOptions(optFns)

	names := make([]string, 0, len(bitmaps))
	for name := range bitmaps {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.WriteByte(version)
	appendString(&buf, opts.Codec.Name())
	appendUvarint(&buf, uint64(len(names)))

	for _, name := range names {
		raw, err := bitmaps[name].MarshalBinary()
		if err != nil {
			return fmt.Errorf("snapshot: marshal %q: %w", name, err)
		}
		payload, err := opts.Codec.Compress(raw)
		if err != nil {
			return fmt.Errorf("snapshot: compress %q: %w", name, err)
		}
		appendString(&buf, name)
		appendUvarint(&buf, uint64(len(payload)))
		buf.Write(payload)
	}

	var trailer [4]byte
	binary.LittleEndian.PutUint32(trailer[:], hash.CRC32C(buf.Bytes()))
	buf.Write(trailer[:])

	_, err := w.Write(buf.Bytes())
	return err
}

// Read decodes a snapshot written by Write.
func Read(r io.Reader) (map[string]*ewahgo.Bitmap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func decode(data []byte) (map[string]*ewahgo.Bitmap, error) {
	if len(data) < len(magic)+1+4 {
		return nil, ErrTruncated
	}
	body, trailer := data[:len(data)-4], data[len(data)-4:]
	if hash.CRC32C(body) != binary.LittleEndian.Uint32(trailer) {
		return nil, ErrChecksum
	}
	if !bytes.Equal(body[:len(magic)], magic[:]) {
		return nil, ErrBadMagic
	}
	if body[len(magic)] != version {
		return nil, ErrUnsupportedVersion
	}
	rest := body[len(magic)+1:]

	codecName, rest, err := readString(rest)
	if err != nil {
		return nil, err
	}
	c, ok := codec.ByName(codecName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, codecName)
	}

	count, rest, err := readUvarint(rest)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*ewahgo.Bitmap, count)
	for range count {
		var name string
		name, rest, err = readString(rest)
		if err != nil {
			return nil, err
		}
		var plen uint64
		plen, rest, err = readUvarint(rest)
		if err != nil {
			return nil, err
		}
		if uint64(len(rest)) < plen {
			return nil, ErrTruncated
		}
		raw, err := c.Decompress(rest[:plen])
		if err != nil {
			return nil, fmt.Errorf("snapshot: decompress %q: %w", name, err)
		}
		rest = rest[plen:]

		b, err := ewahgo.FromCompactBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("snapshot: decode %q: %w", name, err)
		}
		out[name] = b
	}
	return out, nil
}

// Save writes a snapshot of the bitmaps into the store under name.
func Save(ctx context.Context, store blobstore.Store, name string, bitmaps map[string]*ewahgo.Bitmap, optFns ...func(*Options)) error {
	opts := applyOptions(optFns)

	var buf bytes.Buffer
	if err := Write(&buf, bitmaps, optFns...); err != nil {
		opts.Logger.ErrorContext(ctx, "snapshot save failed",
			"name", name,
			"error", err,
		)
		return err
	}
	if err := store.Put(ctx, name, buf.Bytes()); err != nil {
		opts.Logger.ErrorContext(ctx, "snapshot save failed",
			"name", name,
			"error", err,
		)
		return err
	}
	opts.Logger.InfoContext(ctx, "snapshot saved",
		"name", name,
		"bitmaps", len(bitmaps),
		"bytes", buf.Len(),
		"codec", opts.Codec.Name(),
	)
	return nil
}

// Load reads a snapshot from the store.
func Load(ctx context.Context, store blobstore.Store, name string, optFns ...func(*Options)) (map[string]*ewahgo.Bitmap, error) {
	opts := applyOptions(optFns)

	blob, err := store.Open(ctx, name)
	if err != nil {
		opts.Logger.ErrorContext(ctx, "snapshot load failed",
			"name", name,
			"error", err,
		)
		return nil, err
	}
	defer blob.Close()

	data, err := blobstore.ReadAll(blob)
	if err != nil {
		return nil, err
	}
	out, err := decode(data)
	if err != nil {
		opts.Logger.ErrorContext(ctx, "snapshot load failed",
			"name", name,
			"error", err,
		)
		return nil, err
	}
	opts.Logger.DebugContext(ctx, "snapshot loaded",
		"name", name,
		"bitmaps", len(out),
	)
	return out, nil
}

func appendUvarint(buf *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	buf.Write(tmp[:n])
}

func appendString(buf *bytes.Buffer, s string) {
	appendUvarint(buf, uint64(len(s)))
	buf.WriteString(s)
}

func readUvarint(data []byte) (uint64, []byte, error) {
	v, n := binary.Uvarint(data)
	if n <= 0 {
		return 0, nil, ErrTruncated
	}
	return v, data[n:], nil
}

func readString(data []byte) (string, []byte, error) {
	l, rest, err := readUvarint(data)
	if err != nil {
		return "", nil, err
	}
	if uint64(len(rest)) < l {
		return "", nil, ErrTruncated
	}
	return string(rest[:l]), rest[l:], nil
}
