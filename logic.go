package ewahgo

// The pairwise combinators share one two-cursor walk. Each iteration picks
// the operand with the smaller remaining extent as the prey and fully
// consumes it against the other (the predator): first the prey's run, then
// the predator's run against the prey's literals, then literals pairwise.
// The prey choice guarantees the predator always has enough words to cover
// every step, so each iteration drains exactly one marker-block remainder
// and the loop makes progress until one stream is exhausted. The survivor
// is then drained according to the operator.
//
// AND NOT is folded into the AND walk by loading the second operand through
// a negated view: its run bits arrive flipped and its literal reads are
// complemented, so the generic truth tables below apply unchanged.

type binaryOp uint8

const (
	opAnd binaryOp = iota
	opOr
	opXor
	opAndNot
)

// And returns the intersection of b and o as a fresh bitmap. Neither
// operand is mutated. The result length is the larger of the two lengths.
func (b *Bitmap) And(o *Bitmap) *Bitmap {
	return combine(b, o, opAnd)
}

// Or returns the union of b and o as a fresh bitmap.
func (b *Bitmap) Or(o *Bitmap) *Bitmap {
	return combine(b, o, opOr)
}

// Xor returns the symmetric difference of b and o as a fresh bitmap.
func (b *Bitmap) Xor(o *Bitmap) *Bitmap {
	return combine(b, o, opXor)
}

// AndNot returns the positions set in b and not in o as a fresh bitmap.
func (b *Bitmap) AndNot(o *Bitmap) *Bitmap {
	return combine(b, o, opAndNot)
}

func combine(a, o *Bitmap, op binaryOp) *Bitmap {
	var hint int
	if op == opAnd || op == opAndNot {
		hint = max(len(a.buffer), len(o.buffer))
	} else {
		hint = len(a.buffer) + len(o.buffer)
	}
	out := NewWithCapacity(hint)

	ca, co := newCursor(a), newCursor(o)
	var ra, ro runView
	ro.negated = op == opAndNot
	ca.advance()
	ra.load(&ca)
	co.advance()
	ro.load(&co)

	aDone, oDone := false, false
	for {
		prey, pred := &ra, &ro
		if ro.size() < ra.size() {
			prey, pred = &ro, &ra
		}

		// The prey's run either short-circuits the operator or lets the
		// predator's words dominate the output.
		if n := prey.runLen; n > 0 {
			switch {
			case (op == opAnd || op == opAndNot) && !prey.bit:
				out.fastAddStreamOfEmptyWords(false, n)
				pred.consume(n)
			case op == opOr && prey.bit:
				out.fastAddStreamOfEmptyWords(true, n)
				pred.consume(n)
			default:
				// AND over a ones run, OR over a zeros run, and XOR over
				// a zeros run copy the predator; XOR over a ones run
				// copies its complement.
				negate := op == opXor && prey.bit
				dischargeWords(pred, n, out, negate)
			}
			prey.runLen = 0
		}

		// Predator run against prey literals.
		if k := min(pred.runLen, prey.litLen); k > 0 {
			switch {
			case (op == opAnd || op == opAndNot) && !pred.bit,
				op == opOr && pred.bit:
				out.fastAddStreamOfEmptyWords(pred.bit, k)
			case op == opXor && pred.bit:
				for j := uint64(0); j < k; j++ {
					out.fastAddWord(^prey.literalAt(j))
				}
			default:
				for j := uint64(0); j < k; j++ {
					out.fastAddWord(prey.literalAt(j))
				}
			}
			prey.consume(k)
			pred.runLen -= k
		}

		// Both sides are down to literals; the prey's are the fewer.
		if k := prey.litLen; k > 0 {
			for j := uint64(0); j < k; j++ {
				x, y := prey.literalAt(j), pred.literalAt(j)
				switch op {
				case opOr:
					out.fastAddWord(x | y)
				case opXor:
					out.fastAddWord(x ^ y)
				default:
					out.fastAddWord(x & y)
				}
			}
			prey.consume(k)
			pred.consume(k)
		}

		if ra.size() == 0 && !ra.refill(&ca) {
			aDone = true
		}
		if ro.size() == 0 && !ro.refill(&co) {
			oDone = true
		}
		if aDone || oDone {
			break
		}
	}

	// Drain the survivor. For AND both directions contribute zeros; for
	// AND NOT the first operand passes through and the second zeroes out;
	// OR and XOR copy the survivor verbatim (the exhausted side is zeros).
	switch {
	case aDone && !oDone:
		if op == opAnd || op == opAndNot {
			dischargeAsEmpty(&ro, &co, out)
		} else {
			discharge(&ro, &co, out)
		}
	case oDone && !aDone:
		if op == opAnd {
			dischargeAsEmpty(&ra, &ca, out)
		} else {
			discharge(&ra, &ca, out)
		}
	}

	out.sizeInBits = max(a.sizeInBits, o.sizeInBits)
	return out
}

// dischargeWords copies the next n uncompressed words of rv into out,
// complemented when negate is set. The caller guarantees rv holds at least
// n words.
func dischargeWords(rv *runView, n uint64, out *Bitmap, negate bool) {
	for n > 0 {
		if rv.runLen > 0 {
			take := min(rv.runLen, n)
			out.fastAddStreamOfEmptyWords(rv.bit != negate, take)
			rv.runLen -= take
			n -= take
			continue
		}
		take := min(rv.litLen, n)
		if rv.negated != negate {
			out.fastAddStreamOfNegatedLiteralWords(rv.buf, rv.litBase, take)
		} else {
			out.fastAddStreamOfLiteralWords(rv.buf, rv.litBase, take)
		}
		rv.litBase += int(take)
		rv.litLen -= take
		n -= take
	}
}

// discharge copies the remainder of a stream into out verbatim.
func discharge(rv *runView, c *cursor, out *Bitmap) {
	for {
		if rv.runLen > 0 {
			out.fastAddStreamOfEmptyWords(rv.bit, rv.runLen)
		}
		if rv.litLen > 0 {
			out.fastAddStreamOfLiteralWords(rv.buf, rv.litBase, rv.litLen)
		}
		if !rv.refill(c) {
			return
		}
	}
}

// dischargeAsEmpty emits zeros covering the remainder of a stream.
func dischargeAsEmpty(rv *runView, c *cursor, out *Bitmap) {
	for {
		if n := rv.size(); n > 0 {
			out.fastAddStreamOfEmptyWords(false, n)
		}
		if !rv.refill(c) {
			return
		}
	}
}

// Intersects reports whether b and o share at least one set position. It
// walks the same skeleton as And but stops at the first position the
// intersection would set, and allocates nothing.
func (b *Bitmap) Intersects(o *Bitmap) bool {
	ca, co := newCursor(b), newCursor(o)
	var ra, ro runView
	ca.advance()
	ra.load(&ca)
	co.advance()
	ro.load(&co)

	for {
		prey, pred := &ra, &ro
		if ro.size() < ra.size() {
			prey, pred = &ro, &ra
		}

		if n := prey.runLen; n > 0 {
			if prey.bit && predHasOnes(pred, n) {
				return true
			}
			pred.consume(n)
			prey.runLen = 0
		}

		if k := min(pred.runLen, prey.litLen); k > 0 {
			if pred.bit {
				for j := uint64(0); j < k; j++ {
					if prey.literalAt(j) != 0 {
						return true
					}
				}
			}
			prey.consume(k)
			pred.runLen -= k
		}

		if k := prey.litLen; k > 0 {
			for j := uint64(0); j < k; j++ {
				if prey.literalAt(j)&pred.literalAt(j) != 0 {
					return true
				}
			}
			prey.consume(k)
			pred.consume(k)
		}

		if ra.size() == 0 && !ra.refill(&ca) {
			return false
		}
		if ro.size() == 0 && !ro.refill(&co) {
			return false
		}
	}
}

// predHasOnes reports whether any of the next n words of rv contains a set
// bit, without consuming them.
func predHasOnes(rv *runView, n uint64) bool {
	if rv.runLen > 0 {
		if rv.bit {
			return true
		}
		n -= min(rv.runLen, n)
	}
	for j := uint64(0); j < min(rv.litLen, n); j++ {
		if rv.literalAt(j) != 0 {
			return true
		}
	}
	return false
}
