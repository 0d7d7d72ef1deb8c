package blobstore

import (
	"context"

	"golang.org/x/time/rate"
)

// ThrottledStore wraps a Store with a byte-rate budget. Puts wait for
// capacity before writing; Opens wait for the object's size before
// returning the blob. Use it to keep bulk snapshot traffic from saturating
// a shared backend.
type ThrottledStore struct {
	inner   Store
	limiter *rate.Limiter
}

// NewThrottledStore wraps inner with a limit of bytesPerSec. The burst is
// set to bytesPerSec as well; objects larger than the burst are charged in
// burst-sized slices.
func NewThrottledStore(inner Store, bytesPerSec int) *ThrottledStore {
	return &ThrottledStore{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec),
	}
}

func (s *ThrottledStore) wait(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	// Objects larger than the burst are budgeted in burst-sized slices.
	burst := s.limiter.Burst()
	for n > 0 {
		take := n
		if take > burst {
			take = burst
		}
		if err := s.limiter.WaitN(ctx, take); err != nil {
			return err
		}
		n -= take
	}
	return nil
}

// Open opens an object after charging its size against the budget.
func (s *ThrottledStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := s.wait(ctx, int(b.Size())); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// Put writes an object after charging its size against the budget.
func (s *ThrottledStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.wait(ctx, len(data)); err != nil {
		return err
	}
	return s.inner.Put(ctx, name, data)
}

// Delete removes an object; deletes are not throttled.
func (s *ThrottledStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

// List lists objects; listings are not throttled.
func (s *ThrottledStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}
