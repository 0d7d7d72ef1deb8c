package ewahgo

// All construction funnels through the appenders below. The fastAdd*
// variants append compressed words without touching sizeInBits; callers
// that extend the logical length account for it themselves.

func (b *Bitmap) push(w uint64) {
	b.buffer = append(b.buffer, w)
}

// openMarker starts a fresh, empty marker block at the buffer tail and
// makes it the active one.
func (b *Bitmap) openMarker() {
	b.active = len(b.buffer)
	b.push(0)
}

// fastAddEmptyWord appends one uniform word of value v.
func (b *Bitmap) fastAddEmptyWord(v bool) {
	m := b.buffer[b.active]
	noLiterals := literalCount(m) == 0
	if noLiterals && runningLength(m) == 0 {
		m = withRunBit(m, v)
		b.buffer[b.active] = m
	}
	if noLiterals && runBit(m) == v && runningLength(m) < LargestRunLength {
		b.buffer[b.active] = withRunningLength(m, runningLength(m)+1)
		return
	}
	b.openMarker()
	b.buffer[b.active] = withRunningLength(withRunBit(0, v), 1)
}

// fastAddStreamOfEmptyWords appends n uniform words of value v, extending
// the active run where possible and opening fresh markers for the rest.
func (b *Bitmap) fastAddStreamOfEmptyWords(v bool, n uint64) {
	if n == 0 {
		return
	}
	m := b.buffer[b.active]
	if literalCount(m) == 0 {
		if runningLength(m) == 0 {
			m = withRunBit(m, v)
			b.buffer[b.active] = m
		}
		if runBit(m) == v {
			rl := runningLength(m)
			take := min(n, LargestRunLength-rl)
			b.buffer[b.active] = withRunningLength(m, rl+take)
			n -= take
		}
	}
	for n > 0 {
		b.openMarker()
		take := min(n, LargestRunLength)
		b.buffer[b.active] = withRunningLength(withRunBit(0, v), take)
		n -= take
	}
}

// fastAddLiteralWord appends one literal word under the active marker,
// opening a new marker when the literal count field is full.
func (b *Bitmap) fastAddLiteralWord(w uint64) {
	m := b.buffer[b.active]
	lc := literalCount(m)
	if lc >= LargestLiteralCount {
		b.openMarker()
		b.buffer[b.active] = withLiteralCount(0, 1)
		b.push(w)
		return
	}
	b.buffer[b.active] = withLiteralCount(m, lc+1)
	b.push(w)
}

// fastAddStreamOfLiteralWords bulk-appends n literal words from src
// starting at off, splitting across markers as literal capacity runs out.
func (b *Bitmap) fastAddStreamOfLiteralWords(src []uint64, off int, n uint64) {
	for n > 0 {
		m := b.buffer[b.active]
		space := LargestLiteralCount - literalCount(m)
		if space == 0 {
			b.openMarker()
			continue
		}
		take := min(n, space)
		b.buffer[b.active] = withLiteralCount(m, literalCount(m)+take)
		b.buffer = append(b.buffer, src[off:off+int(take)]...)
		off += int(take)
		n -= take
	}
}

// fastAddStreamOfNegatedLiteralWords is the complementing variant of
// fastAddStreamOfLiteralWords.
func (b *Bitmap) fastAddStreamOfNegatedLiteralWords(src []uint64, off int, n uint64) {
	for n > 0 {
		m := b.buffer[b.active]
		space := LargestLiteralCount - literalCount(m)
		if space == 0 {
			b.openMarker()
			continue
		}
		take := min(n, space)
		b.buffer[b.active] = withLiteralCount(m, literalCount(m)+take)
		for k := 0; k < int(take); k++ {
			b.push(^src[off+k])
		}
		off += int(take)
		n -= take
	}
}

// fastAddWord appends one word, classifying it as a zero run, a ones run or
// a literal so the output stays compressed.
func (b *Bitmap) fastAddWord(w uint64) {
	switch w {
	case 0:
		b.fastAddEmptyWord(false)
	case ^uint64(0):
		b.fastAddEmptyWord(true)
	default:
		b.fastAddLiteralWord(w)
	}
}

// addStreamOfEmptyWords appends n uniform words and grows the length by
// 64*n bits.
func (b *Bitmap) addStreamOfEmptyWords(v bool, n uint64) {
	if n == 0 {
		return
	}
	b.sizeInBits += n * wordSizeInBits
	b.fastAddStreamOfEmptyWords(v, n)
}

// AddWord appends one 64-bit word to the logical stream, contributing
// bitCount bits (at most 64) to the length. Words are classified: all-zero
// and all-ones words extend runs, everything else is stored verbatim.
//
// This is the advanced bulk-construction entry point. A word with
// bitCount < 64 is a partial word and is only valid as the final word of the
// stream; its unused high bits must be zero.
func (b *Bitmap) AddWord(w uint64, bitCount uint) {
	if bitCount == 0 {
		return
	}
	if bitCount > wordSizeInBits {
		bitCount = wordSizeInBits
	}
	b.sizeInBits += uint64(bitCount)
	b.fastAddWord(w)
}

// AddLiteralRun appends len(words) full literal words, growing the length
// by 64 bits per word.
func (b *Bitmap) AddLiteralRun(words []uint64) {
	if len(words) == 0 {
		return
	}
	b.sizeInBits += uint64(len(words)) * wordSizeInBits
	b.fastAddStreamOfLiteralWords(words, 0, uint64(len(words)))
}
