package ring

// Push appends one byte to the current write line. When the line is at
// capacity the admission policy resolves first: DropOldest and
// OverwriteNewest always admit the byte, Refuse returns false and leaves the
// ring untouched once the ring is full.
func (r *Ring) Push(b byte) bool {
	return r.push(b)
}

// pushDropOldest admits the byte unconditionally. A collision discards the
// oldest unread line before the write cursor moves onto it.
func (r *Ring) pushDropOldest(b byte) bool {
	full := r.writeLineFull()
	overwrite := full && r.writeWillPointToRead()

	if overwrite {
		r.advanceRead()
		r.flags |= FlagOverwrite
	} else if full {
		r.flags |= FlagLineWrapped
	}
	if full {
		r.advanceWrite()
	}

	r.writeByte(b)
	r.noteFull()
	r.check()
	return true
}

// pushOverwriteNewest admits the byte unconditionally. A collision restarts
// the in-flight write line from its beginning, discarding what was buffered
// on it so far.
func (r *Ring) pushOverwriteNewest(b byte) bool {
	full := r.writeLineFull()
	overwrite := full && r.writeWillPointToRead()

	switch {
	case overwrite:
		r.resetWriteLine()
		r.flags |= FlagOverwrite
	case full:
		r.advanceWrite()
		r.flags |= FlagLineWrapped
	}

	r.writeByte(b)
	r.noteFull()
	r.check()
	return true
}

// pushRefuse admits the byte unless the ring is full, in which case nothing
// is mutated and false is returned.
func (r *Ring) pushRefuse(b byte) bool {
	full := r.writeLineFull()
	if full && r.writeWillPointToRead() {
		return false
	}
	if full {
		r.advanceWrite()
		r.flags |= FlagLineWrapped
	}

	r.writeByte(b)
	r.noteFull()
	r.check()
	return true
}

// writeByte appends b at the write line's current ledger offset. Callers
// have already guaranteed room on the line.
func (r *Ring) writeByte(b byte) {
	n := r.ledger[r.write]
	r.line(r.write)[n] = b
	r.ledger[r.write] = n + 1
}

// Finalize marks the current write line complete and moves the write cursor
// to a fresh line, so later pushes start a new frame. Unlike Push, the policy
// branch applies on any collision with the read cursor, full line or not;
// otherwise a partial finalize could park both cursors on the same line.
// DropOldest discards the oldest unread line and advances, OverwriteNewest
// restarts the current line in place, Refuse fails without mutation. On
// success the data-ready flag is raised regardless of which branch ran.
func (r *Ring) Finalize() bool {
	if r.writeWillPointToRead() {
		switch r.policy {
		case DropOldest:
			r.advanceRead()
			r.advanceWrite()
			r.flags |= FlagOverwrite
		case OverwriteNewest:
			r.resetWriteLine()
			r.flags |= FlagOverwrite
		case Refuse:
			return false
		}
	} else {
		r.advanceWrite()
	}

	r.flags |= FlagDataReady
	r.noteFull()
	r.check()
	return true
}

// Cinch pads the unwritten remainder of the current write line with fill,
// then pushes one final fill byte through the admission policy. The padding
// is raw line content only; the ledger keeps counting just the pushed bytes,
// so fixed-width consumers see a fully stamped line while the logical frame
// stays its actual size. When the line is already full the padding is
// skipped and the push alone resolves the policy.
func (r *Ring) Cinch(fill byte) bool {
	n := r.ledger[r.write]
	if n < r.lineLen-1 {
		line := r.line(r.write)
		for i := n; i < r.lineLen-1; i++ {
			line[i] = fill
		}
	}
	return r.push(fill)
}
