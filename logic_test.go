package ewahgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairwiseCombinators(t *testing.T) {
	a := FromSortedPositions(0, 2, 64, 1<<30)
	b := FromSortedPositions(1, 3, 64, 1<<30)

	and := a.And(b)
	checkInvariants(t, and)
	assert.Equal(t, []uint64{64, 1 << 30}, and.Positions())

	or := a.Or(b)
	checkInvariants(t, or)
	assert.Equal(t, []uint64{0, 1, 2, 3, 64, 1 << 30}, or.Positions())

	xor := a.Xor(b)
	checkInvariants(t, xor)
	assert.Equal(t, []uint64{0, 1, 2, 3}, xor.Positions())

	andNot := a.AndNot(b)
	checkInvariants(t, andNot)
	assert.Equal(t, []uint64{0, 2}, andNot.Positions())

	// Operands stay untouched.
	assert.Equal(t, []uint64{0, 2, 64, 1 << 30}, a.Positions())
	assert.Equal(t, []uint64{1, 3, 64, 1 << 30}, b.Positions())
}

func TestCombinatorLength(t *testing.T) {
	a := FromSortedPositions(3)
	b := FromSortedPositions(500)

	for _, out := range []*Bitmap{a.And(b), a.Or(b), a.Xor(b), a.AndNot(b)} {
		checkInvariants(t, out)
		assert.Equal(t, uint64(501), out.LengthInBits())
	}
}

func TestCombinatorsWithEmptyOperand(t *testing.T) {
	a := FromSortedPositions(1, 100, 5000)
	empty := New()

	assert.Empty(t, a.And(empty).Positions())
	assert.Empty(t, empty.And(a).Positions())
	assert.Equal(t, a.Positions(), a.Or(empty).Positions())
	assert.Equal(t, a.Positions(), empty.Or(a).Positions())
	assert.Equal(t, a.Positions(), a.Xor(empty).Positions())
	assert.Equal(t, a.Positions(), a.AndNot(empty).Positions())
	assert.Empty(t, empty.AndNot(a).Positions())
	assert.False(t, a.Intersects(empty))
	assert.False(t, empty.Intersects(a))
}

func TestIdempotenceAndSelfInverse(t *testing.T) {
	x := FromSortedPositions(0, 63, 64, 127, 128, 1000, 70000)

	assert.True(t, x.And(x).EqualsLogical(x))
	assert.True(t, x.Or(x).EqualsLogical(x))

	xorSelf := x.Xor(x)
	checkInvariants(t, xorSelf)
	assert.Equal(t, x.LengthInBits(), xorSelf.LengthInBits())
	assert.Equal(t, uint64(0), xorSelf.Cardinality())

	diffSelf := x.AndNot(x)
	checkInvariants(t, diffSelf)
	assert.Equal(t, uint64(0), diffSelf.Cardinality())
}

func TestCommutativity(t *testing.T) {
	a := FromSortedPositions(2, 66, 130, 1<<20)
	b := FromSortedPositions(3, 66, 131, 1<<19)

	assert.True(t, a.And(b).EqualsLogical(b.And(a)))
	assert.True(t, a.Or(b).EqualsLogical(b.Or(a)))
	assert.True(t, a.Xor(b).EqualsLogical(b.Xor(a)))
}

func TestAndNotSemantics(t *testing.T) {
	a := FromSortedPositions(1, 2, 3, 100, 200, 63000)
	b := FromSortedPositions(2, 100, 500)

	got := a.AndNot(b)
	checkInvariants(t, got)
	assert.Equal(t, []uint64{1, 3, 200, 63000}, got.Positions())

	// The longer second operand must drain to zeros, not pass through.
	c := FromSortedPositions(5)
	d := FromSortedPositions(5, 900000)
	assert.Empty(t, c.AndNot(d).Positions())
	assert.Equal(t, uint64(900001), c.AndNot(d).LengthInBits())
}

func TestAndNotAgainstRuns(t *testing.T) {
	// a carries a long ones run; removing a slice of it must keep the rest.
	a := New()
	require.True(t, a.SetLength(512, true))
	b := New()
	require.True(t, b.SetLength(128, true))

	got := a.AndNot(b)
	checkInvariants(t, got)
	assert.Equal(t, uint64(512-128), got.Cardinality())
	assert.False(t, got.GetBit(0))
	assert.False(t, got.GetBit(127))
	assert.True(t, got.GetBit(128))
	assert.True(t, got.GetBit(511))
}

func TestRunHeavyCombinations(t *testing.T) {
	// Ones run meets literals, zero run meets ones run, tails differ.
	a := New()
	require.True(t, a.SetLength(1024, true))
	b := FromSortedPositions(0, 100, 1023, 5000)

	and := a.And(b)
	checkInvariants(t, and)
	assert.Equal(t, []uint64{0, 100, 1023}, and.Positions())

	or := a.Or(b)
	checkInvariants(t, or)
	assert.Equal(t, uint64(1024+1), or.Cardinality())

	xor := a.Xor(b)
	checkInvariants(t, xor)
	assert.Equal(t, uint64(1024-3+1), xor.Cardinality())
	assert.True(t, xor.GetBit(5000))
	assert.False(t, xor.GetBit(100))
}

func TestIntersects(t *testing.T) {
	a := New()
	for i := uint64(39935); i <= 40100; i++ {
		require.True(t, a.Set(i))
	}
	b := New()
	for i := uint64(39935); i <= 39999; i++ {
		require.True(t, b.Set(i))
	}
	require.True(t, b.Set(270000))

	require.True(t, a.Intersects(b))
	require.True(t, b.Intersects(a))

	and := a.And(b)
	checkInvariants(t, and)
	assert.Equal(t, uint64(65), and.Cardinality())
	ps := and.Positions()
	assert.Equal(t, uint64(39935), ps[0])
	assert.Equal(t, uint64(39999), ps[len(ps)-1])
}

func TestIntersectsMatchesAndCardinality(t *testing.T) {
	cases := []struct {
		a, b *Bitmap
	}{
		{FromSortedPositions(1, 2, 3), FromSortedPositions(4, 5, 6)},
		{FromSortedPositions(1, 2, 3), FromSortedPositions(3, 4)},
		{FromSortedPositions(100000), FromSortedPositions(100000)},
		{FromSortedPositions(100000), FromSortedPositions(100001)},
		{New(), FromSortedPositions(7)},
	}
	for _, tc := range cases {
		want := tc.a.And(tc.b).Cardinality() > 0
		assert.Equal(t, want, tc.a.Intersects(tc.b))
		assert.Equal(t, want, tc.b.Intersects(tc.a))
	}
}

func TestManyWayAndIsEmpty(t *testing.T) {
	// 1024 bitmaps; bit k lands in bitmap (k + 2k^2) mod 1024. No position
	// is shared by all of them, so the global intersection is empty.
	bitmaps := make([]*Bitmap, 1024)
	for i := range bitmaps {
		bitmaps[i] = New()
	}
	for k := uint64(0); k < 30000; k++ {
		bitmaps[(k+2*k*k)%1024].Set(k)
	}

	acc := bitmaps[0]
	for _, b := range bitmaps[1:] {
		acc = acc.And(b)
	}
	checkInvariants(t, acc)
	assert.True(t, acc.IsEmpty())
	assert.Equal(t, uint64(0), acc.Cardinality())
}

func TestFastAggregates(t *testing.T) {
	a := FromSortedPositions(1, 5, 900)
	b := FromSortedPositions(5, 900, 1200)
	c := FromSortedPositions(5, 1200)

	and := FastAnd(a, b, c)
	assert.Equal(t, []uint64{5}, and.Positions())

	or := FastOr(a, b, c)
	assert.Equal(t, []uint64{1, 5, 900, 1200}, or.Positions())

	assert.Empty(t, FastAnd().Positions())
	assert.Equal(t, a.Positions(), FastOr(a).Positions())

	xor := FastXor(a, b, c)
	assert.Equal(t, []uint64{1, 5}, xor.Positions())
}
