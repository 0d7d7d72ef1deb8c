package ewahgo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// FastAnd intersects any number of bitmaps left to right. With no operands
// it returns an empty bitmap; a single operand is cloned.
func FastAnd(bitmaps ...*Bitmap) *Bitmap {
	return fold(func(a, b *Bitmap) *Bitmap { return a.And(b) }, bitmaps)
}

// FastOr unions any number of bitmaps left to right.
func FastOr(bitmaps ...*Bitmap) *Bitmap {
	return fold(func(a, b *Bitmap) *Bitmap { return a.Or(b) }, bitmaps)
}

// FastXor combines any number of bitmaps by symmetric difference, left to
// right.
func FastXor(bitmaps ...*Bitmap) *Bitmap {
	return fold(func(a, b *Bitmap) *Bitmap { return a.Xor(b) }, bitmaps)
}

func fold(op func(a, b *Bitmap) *Bitmap, bitmaps []*Bitmap) *Bitmap {
	switch len(bitmaps) {
	case 0:
		return New()
	case 1:
		return bitmaps[0].Clone()
	}
	acc := bitmaps[0]
	for _, b := range bitmaps[1:] {
		acc = op(acc, b)
	}
	return acc
}

// ParallelOr unions the bitmaps with a tree reduction, evaluating pairs
// concurrently. The combinators are pure with respect to their inputs, so
// the rounds are safe to run in parallel. Cancellation of ctx aborts the
// remaining pairs.
func ParallelOr(ctx context.Context, bitmaps ...*Bitmap) (*Bitmap, error) {
	return parallelFold(ctx, func(a, b *Bitmap) *Bitmap { return a.Or(b) }, bitmaps)
}

// ParallelAnd intersects the bitmaps with a concurrent tree reduction.
func ParallelAnd(ctx context.Context, bitmaps ...*Bitmap) (*Bitmap, error) {
	return parallelFold(ctx, func(a, b *Bitmap) *Bitmap { return a.And(b) }, bitmaps)
}

func parallelFold(ctx context.Context, op func(a, b *Bitmap) *Bitmap, bitmaps []*Bitmap) (*Bitmap, error) {
	switch len(bitmaps) {
	case 0:
		return New(), nil
	case 1:
		return bitmaps[0].Clone(), nil
	}

	layer := bitmaps
	for len(layer) > 1 {
		next := make([]*Bitmap, (len(layer)+1)/2)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i := 0; i < len(layer); i += 2 {
			if i+1 == len(layer) {
				next[i/2] = layer[i]
				continue
			}
			slot, a, b := i/2, layer[i], layer[i+1]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				next[slot] = op(a, b)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		layer = next
	}
	return layer[0], nil
}
