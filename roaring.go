package ewahgo

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// ToRoaring converts the bitmap into a 32-bit roaring bitmap, bridging to
// the roaring ecosystem. Positions beyond the 32-bit range cannot be
// represented and fail with ErrPositionOverflow.
func (b *Bitmap) ToRoaring() (*roaring.Bitmap, error) {
	rb := roaring.New()
	for it := b.Iterator(); it.HasNext(); {
		p := it.Next()
		if p > math.MaxUint32 {
			return nil, ErrPositionOverflow
		}
		rb.Add(uint32(p))
	}
	return rb, nil
}

// FromRoaring builds an EWAH bitmap from a roaring bitmap. The length is
// one past the highest set position, or zero for an empty input.
func FromRoaring(rb *roaring.Bitmap) *Bitmap {
	b := New()
	it := rb.Iterator()
	for it.HasNext() {
		b.Set(uint64(it.Next()))
	}
	return b
}
