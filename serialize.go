package ewahgo

import (
	"encoding/binary"
	"io"
	"math"
)

// Compact serialization: a 12-byte little-endian header (length in bits,
// word count, active marker position, each as int32) followed by the raw
// buffer words as int64. The byte order is little-endian on every host.
// There is no magic number, version tag or checksum; the reader validates
// the header fields, that the buffer parses into marker blocks, that the
// active marker is the last block and that the blocks cover the length.
const compactHeaderSize = 12

// MarshalBinary encodes the bitmap in the compact format.
func (b *Bitmap) MarshalBinary() ([]byte, error) {
	if b.sizeInBits > math.MaxInt32 ||
		len(b.buffer) > math.MaxInt32 ||
		b.active > math.MaxInt32 {
		return nil, ErrTooLarge
	}
	out := make([]byte, compactHeaderSize+8*len(b.buffer))
	binary.LittleEndian.PutUint32(out[0:], uint32(b.sizeInBits))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(b.buffer)))
	binary.LittleEndian.PutUint32(out[8:], uint32(b.active))
	for i, w := range b.buffer {
		binary.LittleEndian.PutUint64(out[compactHeaderSize+8*i:], w)
	}
	return out, nil
}

// UnmarshalBinary decodes a compact stream into b, replacing its content.
// It fails with ErrTruncated on a short stream and ErrCorrupt when the
// decoded buffer is not a well-formed marker sequence.
func (b *Bitmap) UnmarshalBinary(data []byte) error {
	if len(data) < compactHeaderSize {
		return ErrTruncated
	}
	sizeInBits := int32(binary.LittleEndian.Uint32(data[0:]))
	words := int32(binary.LittleEndian.Uint32(data[4:]))
	active := int32(binary.LittleEndian.Uint32(data[8:]))
	if sizeInBits < 0 || words < 1 || active < 0 || int64(active) >= int64(words) {
		return ErrCorrupt
	}
	if len(data) < compactHeaderSize+8*int(words) {
		return ErrTruncated
	}
	buffer := make([]uint64, words)
	for i := range buffer {
		buffer[i] = binary.LittleEndian.Uint64(data[compactHeaderSize+8*i:])
	}
	if err := validate(buffer, uint64(sizeInBits), int(active)); err != nil {
		return err
	}
	b.buffer = buffer
	b.sizeInBits = uint64(sizeInBits)
	b.active = int(active)
	return nil
}

// FromCompactBytes builds a bitmap from a compact stream.
func FromCompactBytes(data []byte) (*Bitmap, error) {
	b := &Bitmap{}
	if err := b.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return b, nil
}

// WriteTo writes the compact form to w. It implements io.WriterTo.
func (b *Bitmap) WriteTo(w io.Writer) (int64, error) {
	data, err := b.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// ReadFrom replaces b with a compact stream read from r. It implements
// io.ReaderFrom.
func (b *Bitmap) ReadFrom(r io.Reader) (int64, error) {
	var hdr [compactHeaderSize]byte
	n, err := io.ReadFull(r, hdr[:])
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = ErrTruncated
		}
		return int64(n), err
	}
	words := int32(binary.LittleEndian.Uint32(hdr[4:]))
	if words < 1 {
		return int64(n), ErrCorrupt
	}
	body := make([]byte, 8*int(words))
	m, err := io.ReadFull(r, body)
	total := int64(n) + int64(m)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = ErrTruncated
		}
		return total, err
	}
	return total, b.UnmarshalBinary(append(hdr[:], body...))
}

// validate checks that buffer partitions into marker blocks, that active is
// the last block's start, and that the blocks cover at least sizeInBits.
func validate(buffer []uint64, sizeInBits uint64, active int) error {
	pos, last := 0, 0
	var implied uint64
	for pos < len(buffer) {
		last = pos
		m := buffer[pos]
		implied += runningLength(m) + literalCount(m)
		next := pos + 1 + int(literalCount(m))
		if next <= pos || next > len(buffer) {
			return ErrCorrupt
		}
		pos = next
	}
	if last != active {
		return ErrCorrupt
	}
	if implied*wordSizeInBits < sizeInBits {
		return ErrCorrupt
	}
	return nil
}
