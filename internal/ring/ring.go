// Package ring implements a fixed-capacity byte buffer organized into
// fixed-length lines. A line holds one logical frame, which may be shorter
// than the line's capacity; a parallel ledger records how many bytes of each
// line are valid. One write cursor and one read cursor share the backing
// store, and an admission policy chosen at construction decides what happens
// when a push would collide with unread data: drop the oldest line, overwrite
// the newest in place, or refuse the byte.
//
// The ring is not safe for concurrent use. It assumes a single producer and a
// single consumer; callers sharing a ring across goroutines must serialize
// every operation themselves.
package ring

import "errors"

// Policy selects the admission behavior applied when the ring is full and a
// push or finalize would collide with the read cursor.
type Policy uint8

const (
	// DropOldest discards the oldest unread line to admit new data.
	DropOldest Policy = iota
	// OverwriteNewest restarts the line currently being written.
	OverwriteNewest
	// Refuse rejects new data until the consumer frees a line.
	Refuse
)

func (p Policy) String() string {
	switch p {
	case DropOldest:
		return "drop-oldest"
	case OverwriteNewest:
		return "overwrite-newest"
	case Refuse:
		return "refuse"
	}
	return "unknown"
}

// ParsePolicy converts a policy name to a Policy. It accepts the short
// spellings used by the CLI ("oldest", "newest", "refuse") as well as the
// full String forms.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "oldest", "drop-oldest":
		return DropOldest, nil
	case "newest", "overwrite-newest":
		return OverwriteNewest, nil
	case "refuse":
		return Refuse, nil
	}
	return 0, ErrPolicy
}

// Ownership records which storage a ring allocated for itself and therefore
// releases on teardown.
type Ownership uint8

const (
	// OwnAll marks a ring that allocated its backing store and ledger.
	OwnAll Ownership = iota
	// BorrowedBacking marks a ring using a caller-supplied backing store.
	BorrowedBacking
	// CallerManaged marks a ring whose aggregate and backing store are both
	// caller-supplied; only the ledger is ring-allocated.
	CallerManaged
)

func (o Ownership) String() string {
	switch o {
	case OwnAll:
		return "owned"
	case BorrowedBacking:
		return "borrowed-backing"
	case CallerManaged:
		return "caller-managed"
	}
	return "unknown"
}

// Construction errors.
var (
	ErrLineCount   = errors.New("ring: at least two lines required")
	ErrLineLength  = errors.New("ring: line length must be positive")
	ErrBackingSize = errors.New("ring: backing store length must equal lines*lineLength")
	ErrNilRing     = errors.New("ring: nil ring")
	ErrPolicy      = errors.New("ring: unknown admission policy")
)

// Ring is a segmented byte ring buffer. The zero value is not usable; build
// one with New, NewWithBacking, or Init.
type Ring struct {
	policy    Policy
	push      func(b byte) bool // admission strategy bound at construction
	ownership Ownership
	shred     bool

	nLines  int
	lineLen int
	backing []byte
	ledger  []int // valid byte count per line

	write int // line index currently receiving bytes
	read  int // line index currently draining

	flags Flag
}

// Option configures a ring at construction time.
type Option func(*Ring)

// WithShred scrubs the bytes of consumed lines before the line is reused,
// so stale frame content never lingers in the backing store.
func WithShred() Option {
	return func(r *Ring) { r.shred = true }
}

// New returns a ring that owns its backing store and ledger.
func New(nLines, lineLen int, policy Policy, opts ...Option) (*Ring, error) {
	if nLines < 2 {
		return nil, ErrLineCount
	}
	if lineLen < 1 {
		return nil, ErrLineLength
	}
	r := &Ring{}
	if err := r.setup(nLines, lineLen, policy, make([]byte, nLines*lineLen), OwnAll, opts); err != nil {
		return nil, err
	}
	return r, nil
}

// NewWithBacking returns a ring that stores lines in the caller-supplied
// backing slice, which must be exactly nLines*lineLen bytes and must stay
// alive for the ring's lifetime. The ring never releases it.
func NewWithBacking(nLines, lineLen int, policy Policy, backing []byte, opts ...Option) (*Ring, error) {
	r := &Ring{}
	if err := r.setup(nLines, lineLen, policy, backing, BorrowedBacking, opts); err != nil {
		return nil, err
	}
	return r, nil
}

// Init initializes a caller-supplied Ring value with a caller-supplied
// backing store. Only the ledger is allocated by the ring. A Ring may be
// reinitialized with Init after ReleaseInternals.
func Init(r *Ring, nLines, lineLen int, policy Policy, backing []byte, opts ...Option) error {
	if r == nil {
		return ErrNilRing
	}
	return r.setup(nLines, lineLen, policy, backing, CallerManaged, opts)
}

func (r *Ring) setup(nLines, lineLen int, policy Policy, backing []byte, own Ownership, opts []Option) error {
	if nLines < 2 {
		return ErrLineCount
	}
	if lineLen < 1 {
		return ErrLineLength
	}
	if len(backing) != nLines*lineLen {
		return ErrBackingSize
	}

	switch policy {
	case DropOldest:
		r.push = r.pushDropOldest
	case OverwriteNewest:
		r.push = r.pushOverwriteNewest
	case Refuse:
		r.push = r.pushRefuse
	default:
		return ErrPolicy
	}

	r.policy = policy
	r.ownership = own
	r.shred = false
	r.nLines = nLines
	r.lineLen = lineLen
	r.backing = backing
	r.ledger = make([]int, nLines)

	for _, opt := range opts {
		opt(r)
	}

	r.Clear()
	return nil
}

// Clear invalidates all data in the ring: the backing store and ledger are
// zeroed, the write cursor returns to the first line, the read cursor to the
// last, and all advisory flags are dropped. Policy and ownership survive.
func (r *Ring) Clear() {
	for i := range r.backing {
		r.backing[i] = 0
	}
	for i := range r.ledger {
		r.ledger[i] = 0
	}
	r.write = 0
	r.read = r.lastLine()
	r.flags = 0
	r.check()
}

// ReleaseInternals drops the sub-resources the ring owns: the ledger always,
// the backing store only when the ring allocated it. A released ring panics
// on use, which surfaces lifetime bugs instead of hiding them; a
// caller-managed Ring value may be reinitialized with Init.
func (r *Ring) ReleaseInternals() {
	if r.ownership == OwnAll {
		r.backing = nil
	}
	r.ledger = nil
}

// Destroy tears the ring down. Owned sub-resources are released; the
// aggregate itself is reclaimed by the garbage collector once the caller
// drops its reference.
func (r *Ring) Destroy() {
	r.ReleaseInternals()
}

// --- line addressing -------------------------------------------------------
// Pure index arithmetic over the contiguous backing store. The cursors are
// line indices; byte offsets are always index*lineLen.

func (r *Ring) lastLine() int { return r.nLines - 1 }

func (r *Ring) line(i int) []byte {
	off := i * r.lineLen
	return r.backing[off : off+r.lineLen]
}

func (r *Ring) nextLine(i int) int {
	if i == r.lastLine() {
		return 0
	}
	return i + 1
}

// writeWillPointToRead reports whether advancing the write cursor would land
// on the read cursor's line; when true the ring is full.
func (r *Ring) writeWillPointToRead() bool { return r.nextLine(r.write) == r.read }

// readWillPointToWrite reports whether advancing the read cursor would land
// on the write cursor's line; when true the ring is empty.
func (r *Ring) readWillPointToWrite() bool { return r.nextLine(r.read) == r.write }

func (r *Ring) writeLineFull() bool { return r.ledger[r.write] >= r.lineLen }

// --- cursor movement -------------------------------------------------------

func (r *Ring) resetWriteLine() { r.ledger[r.write] = 0 }

func (r *Ring) resetReadLine() {
	r.ledger[r.read] = 0
	if r.shred {
		scrub(r.line(r.read))
	}
}

// advanceRead retires the current read line and moves to the next one.
func (r *Ring) advanceRead() {
	r.resetReadLine()
	r.read = r.nextLine(r.read)
}

// advanceWrite moves the write cursor to the next line and opens it fresh.
func (r *Ring) advanceWrite() {
	r.write = r.nextLine(r.write)
	r.resetWriteLine()
}

func scrub(line []byte) {
	// Three passes with alternating patterns, in case the backing store sits
	// in memory that outlives the process.
	for _, pat := range [3]byte{0xA5, 0x5A, 0x00} {
		for i := range line {
			line[i] = pat
		}
	}
}

// --- introspection ---------------------------------------------------------

// LineCount returns the number of lines in the ring.
func (r *Ring) LineCount() int { return r.nLines }

// LineLength returns the capacity of a single line in bytes.
func (r *Ring) LineLength() int { return r.lineLen }

// Capacity returns the total size of the backing store in bytes.
func (r *Ring) Capacity() int { return r.nLines * r.lineLen }

// Policy returns the immutable admission policy.
func (r *Ring) Policy() Policy { return r.policy }

// Ownership returns the immutable ownership descriptor.
func (r *Ring) Ownership() Ownership { return r.ownership }

// WriteLine returns the index of the line currently receiving bytes.
func (r *Ring) WriteLine() int { return r.write }

// ReadLine returns the index of the line currently draining.
func (r *Ring) ReadLine() int { return r.read }

// LineSize returns the number of valid bytes on line i.
func (r *Ring) LineSize(i int) int { return r.ledger[i] }

// LineBytes returns the raw contents of line i, valid and unwritten bytes
// alike. The slice aliases the backing store and must not be modified.
func (r *Ring) LineBytes(i int) []byte { return r.line(i) }

// Empty reports whether no unread bytes remain outside the line currently
// being written: the read cursor is parked next to the write cursor and its
// line holds nothing.
func (r *Ring) Empty() bool {
	return r.readWillPointToWrite() && r.ledger[r.read] == 0
}

// Full reports whether the next push must invoke the admission policy's
// collision branch: the write line is at capacity and the following line
// belongs to the read cursor.
func (r *Ring) Full() bool {
	return r.writeWillPointToRead() && r.writeLineFull()
}

// PeekRead returns the valid bytes of the current read line without
// consuming anything. The slice aliases the backing store.
func (r *Ring) PeekRead() []byte { return r.line(r.read)[:r.ledger[r.read]] }

// PeekReadSize returns the valid byte count of the current read line.
func (r *Ring) PeekReadSize() int { return r.ledger[r.read] }

// PeekWrite returns the bytes written so far to the current write line.
// The slice aliases the backing store.
func (r *Ring) PeekWrite() []byte { return r.line(r.write)[:r.ledger[r.write]] }

// PeekWriteSize returns the byte count of the current write line.
func (r *Ring) PeekWriteSize() int { return r.ledger[r.write] }
