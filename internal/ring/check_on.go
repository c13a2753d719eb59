//go:build ringdebug

package ring

import "fmt"

// check panics when a structural invariant is broken. It runs after every
// mutating operation in builds tagged ringdebug and is absent otherwise; it
// never alters control flow, it only aborts on contract violations.
func (r *Ring) check() {
	if r.backing == nil || r.ledger == nil {
		panic("ring: operation on released ring")
	}
	if r.read == r.write {
		panic("ring: read and write cursors coincide")
	}
	if r.write < 0 || r.write >= r.nLines || r.read < 0 || r.read >= r.nLines {
		panic(fmt.Sprintf("ring: cursor out of range (write=%d read=%d lines=%d)", r.write, r.read, r.nLines))
	}
	for i, n := range r.ledger {
		if n < 0 || n > r.lineLen {
			panic(fmt.Sprintf("ring: ledger[%d]=%d outside [0,%d]", i, n, r.lineLen))
		}
	}
}
