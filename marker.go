package ewahgo

// Every block of the compressed buffer opens with a marker word. The marker
// packs three fields into 64 bits, least significant bit first:
//
//	bit  0      run value: 0 = run of zero words, 1 = run of one words
//	bits 1..32  run length: number of uniform 64-bit words in the run
//	bits 33..63 literal count: number of literal words following the marker
//
// A marker therefore describes runLength uniform words followed immediately
// by literalCount verbatim words. Extents larger than a single marker can
// express are split across consecutive markers.
const (
	wordSizeInBits = 64

	runLengthBits    = 32
	literalCountBits = wordSizeInBits - 1 - runLengthBits

	// LargestRunLength is the maximum run length a single marker can carry.
	LargestRunLength uint64 = (1 << runLengthBits) - 1

	// LargestLiteralCount is the maximum number of literal words a single
	// marker can announce.
	LargestLiteralCount uint64 = (1 << literalCountBits) - 1

	runLengthShift    = 1
	literalCountShift = 1 + runLengthBits
)

func runBit(m uint64) bool {
	return m&1 != 0
}

func runningLength(m uint64) uint64 {
	return (m >> runLengthShift) & LargestRunLength
}

func literalCount(m uint64) uint64 {
	return m >> literalCountShift
}

// The setters preserve the two untouched fields. Values exceeding the field
// width must never be passed in; the masks below keep a programming error
// from corrupting neighbouring fields.

func withRunBit(m uint64, v bool) uint64 {
	if v {
		return m | 1
	}
	return m &^ 1
}

func withRunningLength(m, n uint64) uint64 {
	return m&^(LargestRunLength<<runLengthShift) | (n&LargestRunLength)<<runLengthShift
}

func withLiteralCount(m, n uint64) uint64 {
	return m&^(LargestLiteralCount<<literalCountShift) | (n&LargestLiteralCount)<<literalCountShift
}

// runView is a working copy of a marker used by the set-algebra engine. It
// tracks how much of the block is still unconsumed without touching the
// source buffer. When negated is set, literal reads yield the complement;
// the AND-NOT engine uses this to fold NOT into a plain AND walk.
type runView struct {
	buf     []uint64
	bit     bool
	runLen  uint64
	litLen  uint64
	litBase int
	negated bool
}

// size reports the remaining uncompressed extent of the view in words.
func (rv *runView) size() uint64 {
	return rv.runLen + rv.litLen
}

// literalAt reads the k-th remaining literal word.
func (rv *runView) literalAt(k uint64) uint64 {
	w := rv.buf[rv.litBase+int(k)]
	if rv.negated {
		return ^w
	}
	return w
}

// consume removes n uncompressed words from the front of the view, draining
// the run before the literals.
func (rv *runView) consume(n uint64) {
	if rv.runLen > 0 {
		take := min(rv.runLen, n)
		rv.runLen -= take
		n -= take
	}
	if n > 0 {
		rv.litBase += int(n)
		rv.litLen -= n
	}
}

// load repositions the view on the marker the cursor just read.
func (rv *runView) load(c *cursor) {
	rv.buf = c.buf
	rv.bit = runBit(c.marker) != rv.negated
	rv.runLen = runningLength(c.marker)
	rv.litLen = uint64(c.lits)
	rv.litBase = c.literalBase()
}

// refill advances the cursor and loads the next marker. It reports false
// when the stream is exhausted.
func (rv *runView) refill(c *cursor) bool {
	if !c.hasNext() {
		return false
	}
	c.advance()
	rv.load(c)
	return true
}
