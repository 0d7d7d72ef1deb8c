package ewahgo

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		build func() *Bitmap
	}{
		{"empty", New},
		{"sparse", func() *Bitmap { return FromSortedPositions(0, 70, 64000) }},
		{"dense", func() *Bitmap {
			b := New()
			b.SetLength(777, true)
			return b
		}},
		{"partial literal tail", func() *Bitmap { return FromSortedPositions(1, 2, 65) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.build()
			b.Shrink()

			data, err := b.MarshalBinary()
			require.NoError(t, err)

			got, err := FromCompactBytes(data)
			require.NoError(t, err)
			checkInvariants(t, got)
			assert.True(t, b.Equals(got), "round trip must be structural identity")
			assert.Equal(t, b.Hash(), got.Hash())
		})
	}
}

func TestCompactLayout(t *testing.T) {
	b := FromSortedPositions(0)
	data, err := b.MarshalBinary()
	require.NoError(t, err)

	require.Len(t, data, compactHeaderSize+8*b.SizeInWords())
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[0:]), "length in bits")
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[4:]), "word count")
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[8:]), "active marker position")
	assert.Equal(t, uint64(1), binary.LittleEndian.Uint64(data[compactHeaderSize+8:]), "literal word")
}

func TestWriteToReadFrom(t *testing.T) {
	b := FromSortedPositions(9, 1000, 123456)
	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)

	var got Bitmap
	m, err := got.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, n, m)
	assert.True(t, b.Equals(&got))
}

func TestUnmarshalTruncated(t *testing.T) {
	b := FromSortedPositions(5, 900)
	data, err := b.MarshalBinary()
	require.NoError(t, err)

	var got Bitmap
	assert.ErrorIs(t, got.UnmarshalBinary(data[:8]), ErrTruncated)
	assert.ErrorIs(t, got.UnmarshalBinary(data[:len(data)-1]), ErrTruncated)
}

func TestUnmarshalCorruptHeader(t *testing.T) {
	b := FromSortedPositions(5)
	data, err := b.MarshalBinary()
	require.NoError(t, err)

	// Active marker beyond the word count.
	bad := append([]byte(nil), data...)
	binary.LittleEndian.PutUint32(bad[8:], 7)
	var got Bitmap
	assert.ErrorIs(t, got.UnmarshalBinary(bad), ErrCorrupt)

	// Zero word count cannot hold the mandatory first marker.
	bad = append([]byte(nil), data...)
	binary.LittleEndian.PutUint32(bad[4:], 0)
	assert.ErrorIs(t, got.UnmarshalBinary(bad), ErrCorrupt)
}

func TestUnmarshalCorruptMarkerChain(t *testing.T) {
	// A marker announcing more literals than the buffer holds.
	data := make([]byte, compactHeaderSize+8)
	binary.LittleEndian.PutUint32(data[0:], 64)
	binary.LittleEndian.PutUint32(data[4:], 1)
	binary.LittleEndian.PutUint32(data[8:], 0)
	binary.LittleEndian.PutUint64(data[compactHeaderSize:], withLiteralCount(0, 3))

	var got Bitmap
	assert.ErrorIs(t, got.UnmarshalBinary(data), ErrCorrupt)
}

func TestRoundTripSurvivesFurtherAppends(t *testing.T) {
	b := FromSortedPositions(1, 128)
	data, err := b.MarshalBinary()
	require.NoError(t, err)
	got, err := FromCompactBytes(data)
	require.NoError(t, err)

	require.True(t, got.Set(4096))
	checkInvariants(t, got)
	assert.Equal(t, []uint64{1, 128, 4096}, got.Positions())
}
