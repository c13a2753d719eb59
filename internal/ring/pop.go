package ring

// Readiness classifies the current read line for consumption. It is returned
// by a ReadyFunc to tell Pop what to do with the line.
type Readiness int

const (
	// Truncate discards the line without copying it out.
	Truncate Readiness = -1
	// NotReady leaves the ring untouched.
	NotReady Readiness = 0
	// Ready copies the line out and consumes it.
	Ready Readiness = 1
)

// ReadyFunc inspects the valid bytes of the current read line and decides
// whether it can be consumed. The ring knows nothing about frame validity;
// terminators, checksums, and length rules all live in the predicate. The
// slice aliases the backing store and must not be retained or modified.
type ReadyFunc func(line []byte) Readiness

// Discarded is returned by Pop when the predicate asked for truncation.
const Discarded = -1

// IsReady runs the predicate against the current read line without mutating
// the ring, and hands its verdict back to the caller.
func (r *Ring) IsReady(ready ReadyFunc) Readiness {
	return ready(r.PeekRead())
}

// Pop consults the predicate and consumes the current read line accordingly.
// It returns 0 when the line is not ready (no state change), Discarded when
// the predicate asked for truncation, or the number of bytes copied into dst.
// dst should have room for at least the line length.
func (r *Ring) Pop(dst []byte, ready ReadyFunc) int {
	switch ready(r.PeekRead()) {
	case Truncate:
		r.consume()
		return Discarded
	case Ready:
		n := copy(dst, r.PeekRead())
		r.consume()
		return n
	}
	return 0
}

// Seek retires the current read line and advances the read cursor. When the
// advance would cross into the write cursor's line, Refuse and DropOldest
// rings report failure without mutating anything; an OverwriteNewest ring
// first pushes the write cursor past its in-progress line, letting the ring
// drain completely, the line under construction included.
func (r *Ring) Seek() bool {
	if r.readWillPointToWrite() {
		if r.policy != OverwriteNewest {
			return false
		}
		r.resetReadLine()
		r.advanceWrite()
		r.read = r.nextLine(r.read)
		r.noteEmpty()
		r.check()
		return true
	}

	r.advanceRead()
	r.noteEmpty()
	r.check()
	return true
}

// consume retires the current read line after a pop. Unlike Seek, the ledger
// entry is always reset: a popped line is spent even when the cursor is
// parked at the boundary and cannot advance.
func (r *Ring) consume() {
	r.resetReadLine()
	if r.readWillPointToWrite() {
		if r.policy == OverwriteNewest {
			r.advanceWrite()
			r.read = r.nextLine(r.read)
		}
	} else {
		r.read = r.nextLine(r.read)
	}
	r.noteEmpty()
	r.check()
}
