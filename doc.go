// Package ewahgo implements a compressed bitmap based on the Enhanced
// Word-Aligned Hybrid (EWAH) run-length encoding over 64-bit words.
//
// A Bitmap represents a set of non-negative integer positions and supports
// membership queries, cardinality, ascending iteration, in-place negation,
// and the pairwise combinators And, Or, Xor, AndNot and Intersects. The
// combinators walk both compressed streams directly, so their cost is
// proportional to the compressed sizes of the operands, not the logical
// length.
//
// # Quick Start
//
//	b := ewahgo.FromSortedPositions(0, 2, 64, 1<<30)
//	other := ewahgo.FromSortedPositions(1, 3, 64, 1<<30)
//
//	both := b.And(other) // {64, 1<<30}
//	for it := both.Iterator(); it.HasNext(); {
//	    fmt.Println(it.Next())
//	}
//
// Construction is append-only: Set only accepts positions at or beyond the
// current length, and SetLength only grows. Combinators never mutate their
// operands.
//
// # Persistence
//
// MarshalBinary and UnmarshalBinary implement the compact format: a fixed
// little-endian header followed by the raw buffer words. The snapshot
// package layers a self-describing, checksummed, optionally compressed
// container on top, and the blobstore package stores those snapshots in
// memory, on the local file system, or in S3-compatible object storage.
//
// # Concurrency
//
// A Bitmap is safe for concurrent readers. Mutation requires exclusive
// access; combinators are pure and may run in parallel over shared inputs
// (see ParallelOr and ParallelAnd).
package ewahgo
