package ring

import (
	"bytes"
	"testing"
)

func pushAll(t *testing.T, r *Ring, data string) {
	t.Helper()
	for i := 0; i < len(data); i++ {
		if !r.Push(data[i]) {
			t.Fatalf("Push(%q) refused at byte %d", data, i)
		}
	}
}

func TestPushFillsCurrentLine(t *testing.T) {
	r := mustRing(t, 3, 4, Refuse)
	pushAll(t, r, "abc")

	if r.PeekWriteSize() != 3 {
		t.Errorf("PeekWriteSize() = %d, want 3", r.PeekWriteSize())
	}
	if got := string(r.PeekWrite()); got != "abc" {
		t.Errorf("PeekWrite() = %q, want %q", got, "abc")
	}
	if r.WriteLine() != 0 {
		t.Errorf("WriteLine() = %d, want 0 (no advance before the line is full)", r.WriteLine())
	}
}

func TestPushAdvancesWhenLineFull(t *testing.T) {
	// Filling a line does not advance; the next push does.
	r := mustRing(t, 3, 2, Refuse)
	pushAll(t, r, "ab")
	if r.WriteLine() != 0 {
		t.Fatalf("WriteLine() = %d after exactly one full line, want 0", r.WriteLine())
	}

	pushAll(t, r, "c")
	if r.WriteLine() != 1 {
		t.Errorf("WriteLine() = %d, want 1", r.WriteLine())
	}
	if r.LineSize(0) != 2 || r.LineSize(1) != 1 {
		t.Errorf("sizes = (%d, %d), want (2, 1)", r.LineSize(0), r.LineSize(1))
	}
	if !r.FlagSet(FlagLineWrapped) {
		t.Error("FlagLineWrapped should be set after a full line forced an advance")
	}
	if r.FlagSet(FlagOverwrite) {
		t.Error("FlagOverwrite must not be set by a plain line wrap")
	}
}

func TestPushRefuseAtCapacity(t *testing.T) {
	r := mustRing(t, 3, 2, Refuse)
	pushAll(t, r, "abcd") // fills lines 0 and 1; line 2 is the read parking line

	before := r.Snapshot()
	if !r.Full() {
		t.Fatal("ring should be full")
	}

	for i := 0; i < 3; i++ {
		if r.Push('x') {
			t.Fatal("Push succeeded on a full refuse ring")
		}
	}

	// Byte-for-byte unchanged: backing store, ledger, cursors.
	after := r.Snapshot()
	if before.WriteLine != after.WriteLine || before.ReadLine != after.ReadLine {
		t.Errorf("cursors moved on refusal: %+v vs %+v", before, after)
	}
	for i := range before.Lines {
		if before.Lines[i] != after.Lines[i] {
			t.Errorf("line %d mutated on refusal: %+v vs %+v", i, before.Lines[i], after.Lines[i])
		}
	}
	if r.FlagSet(FlagOverwrite) {
		t.Error("FlagOverwrite must never be set under the refuse policy")
	}
}

func TestPushDropOldestEvictsReadLine(t *testing.T) {
	r := mustRing(t, 3, 2, DropOldest)
	// Step the read cursor onto line 0 so it holds real data when the
	// collision happens.
	pushAll(t, r, "ab")
	r.Finalize()
	if !r.Seek() {
		t.Fatal("seek over parking line failed")
	}
	if r.ReadLine() != 0 {
		t.Fatalf("ReadLine() = %d, want 0", r.ReadLine())
	}

	pushAll(t, r, "cdef") // fills lines 1 and 2; next push collides with read
	if !r.Push('g') {
		t.Fatal("drop-oldest push must always succeed")
	}

	// Line 0's frame was discarded to make room.
	if r.LineSize(0) != 1 {
		t.Errorf("LineSize(0) = %d, want 1 (old frame gone, new byte in)", r.LineSize(0))
	}
	if got := string(r.PeekWrite()); got != "g" {
		t.Errorf("PeekWrite() = %q, want %q", got, "g")
	}
	if r.ReadLine() != 1 {
		t.Errorf("ReadLine() = %d, want 1 (oldest line dropped)", r.ReadLine())
	}
	if !r.FlagSet(FlagOverwrite) {
		t.Error("FlagOverwrite should be set after an eviction")
	}
}

func TestPushDropOldestFullWrap(t *testing.T) {
	// From the testable-properties list: a 2x2 drop-oldest ring wrapped all
	// the way around makes the oldest line's bytes unrecoverable.
	r := mustRing(t, 2, 2, DropOldest)
	pushAll(t, r, "ab") // line 0
	pushAll(t, r, "cd") // collision on first byte: parking line dropped, line 1 used
	pushAll(t, r, "ef") // collision again: line 0's "ab" dropped

	if r.LineSize(0) != 2 || string(r.LineBytes(0)) != "ef" {
		t.Errorf("line 0 = %q (size %d), want %q", r.LineBytes(0), r.LineSize(0), "ef")
	}
	// "ab" is gone for good; the read cursor now sees line 1.
	if r.ReadLine() != 1 {
		t.Errorf("ReadLine() = %d, want 1", r.ReadLine())
	}
	if got := string(r.PeekRead()); got != "cd" {
		t.Errorf("PeekRead() = %q, want %q", got, "cd")
	}
}

func TestPushOverwriteNewestRestartsLine(t *testing.T) {
	r := mustRing(t, 3, 2, OverwriteNewest)
	pushAll(t, r, "abcd") // lines 0 and 1 full, write on line 1, read parked on 2

	// Collision: the in-flight line restarts from scratch on the same line.
	if !r.Push('x') {
		t.Fatal("overwrite-newest push must always succeed")
	}
	if r.WriteLine() != 1 {
		t.Errorf("WriteLine() = %d, want 1 (same line reused)", r.WriteLine())
	}
	if got := string(r.PeekWrite()); got != "x" {
		t.Errorf("PeekWrite() = %q, want %q (previous bytes discarded)", got, "x")
	}
	if r.LineSize(0) != 2 {
		t.Errorf("LineSize(0) = %d, want 2 (older line untouched)", r.LineSize(0))
	}
	if !r.FlagSet(FlagOverwrite) {
		t.Error("FlagOverwrite should be set after an in-place overwrite")
	}
}

func TestFinalizeAdvancesAndFlagsDataReady(t *testing.T) {
	r := mustRing(t, 3, 4, Refuse)
	pushAll(t, r, "hi")

	if !r.Finalize() {
		t.Fatal("Finalize failed with free lines available")
	}
	if r.WriteLine() != 1 {
		t.Errorf("WriteLine() = %d, want 1", r.WriteLine())
	}
	if r.LineSize(0) != 2 {
		t.Errorf("LineSize(0) = %d, want 2 (frame length preserved)", r.LineSize(0))
	}
	if r.PeekWriteSize() != 0 {
		t.Errorf("PeekWriteSize() = %d, want 0 (fresh line)", r.PeekWriteSize())
	}
	if !r.FlagSet(FlagDataReady) {
		t.Error("FlagDataReady should be set after a successful Finalize")
	}
}

// TestFinalizeRefuseScenario walks the capacity scenario from the design
// notes: a 3x4 refuse ring whose consumer has stepped onto line 0. Once
// every line carries data, Finalize must fail until a pop frees a line.
func TestFinalizeRefuseScenario(t *testing.T) {
	r := mustRing(t, 3, 4, Refuse)

	pushAll(t, r, "AB")
	if !r.Finalize() {
		t.Fatal("first Finalize failed")
	}
	// Consumer steps off the empty parking line onto the first frame.
	if !r.Seek() {
		t.Fatal("seek onto line 0 failed")
	}
	if r.ReadLine() != 0 {
		t.Fatalf("ReadLine() = %d, want 0", r.ReadLine())
	}

	pushAll(t, r, "CDEF")
	if !r.Finalize() {
		t.Fatal("second Finalize failed")
	}
	if r.WriteLine() != 2 {
		t.Fatalf("WriteLine() = %d, want 2", r.WriteLine())
	}

	pushAll(t, r, "GHIJ")
	// Line 2 is full and line 0 still holds the unread "AB" frame.
	before := r.Snapshot()
	if r.Finalize() {
		t.Fatal("Finalize succeeded into the read cursor's line")
	}
	after := r.Snapshot()
	for i := range before.Lines {
		if before.Lines[i] != after.Lines[i] {
			t.Errorf("line %d mutated on refused Finalize", i)
		}
	}

	// A pop frees line 0; Finalize can proceed.
	dst := make([]byte, 4)
	if n := r.Pop(dst, func(line []byte) Readiness { return Ready }); n != 2 {
		t.Fatalf("Pop = %d, want 2", n)
	}
	if got := string(dst[:2]); got != "AB" {
		t.Errorf("popped %q, want %q", got, "AB")
	}
	if !r.Finalize() {
		t.Error("Finalize still failing after a pop freed a line")
	}
}

func TestFinalizeDropOldestCollision(t *testing.T) {
	r := mustRing(t, 2, 2, DropOldest)
	pushAll(t, r, "ab")

	// Line 0 full, parking line adjacent: finalize drops the oldest line and
	// moves on.
	if !r.Finalize() {
		t.Fatal("drop-oldest Finalize must always succeed")
	}
	if r.WriteLine() != 1 {
		t.Errorf("WriteLine() = %d, want 1", r.WriteLine())
	}
	if r.ReadLine() != 0 {
		t.Errorf("ReadLine() = %d, want 0", r.ReadLine())
	}
	if !r.FlagSet(FlagOverwrite) {
		t.Error("FlagOverwrite should be set")
	}
	if !r.FlagSet(FlagDataReady) {
		t.Error("FlagDataReady should be set")
	}
}

func TestFinalizeOverwriteNewestCollision(t *testing.T) {
	r := mustRing(t, 2, 2, OverwriteNewest)
	pushAll(t, r, "ab")

	if !r.Finalize() {
		t.Fatal("overwrite-newest Finalize must always succeed")
	}
	// The line restarts in place; the cursor stays put.
	if r.WriteLine() != 0 {
		t.Errorf("WriteLine() = %d, want 0", r.WriteLine())
	}
	if r.PeekWriteSize() != 0 {
		t.Errorf("PeekWriteSize() = %d, want 0", r.PeekWriteSize())
	}
	if !r.FlagSet(FlagOverwrite) {
		t.Error("FlagOverwrite should be set")
	}
}

func TestCinchPadsLine(t *testing.T) {
	r := mustRing(t, 3, 6, Refuse)
	pushAll(t, r, "ab")

	if !r.Cinch(0xFF) {
		t.Fatal("Cinch failed with room on the line")
	}

	// Logical size counts the pushed bytes only; the padding is raw content.
	if r.LineSize(0) != 3 {
		t.Errorf("LineSize(0) = %d, want 3", r.LineSize(0))
	}
	want := []byte{'a', 'b', 0xFF, 0xFF, 0xFF, 0x00}
	if !bytes.Equal(r.LineBytes(0), want) {
		t.Errorf("line 0 = %v, want %v", r.LineBytes(0), want)
	}
}

func TestCinchOnFullLine(t *testing.T) {
	// With the line already full, Cinch degenerates to a policy-resolved push.
	r := mustRing(t, 3, 2, Refuse)
	pushAll(t, r, "ab")

	if !r.Cinch(0x00) {
		t.Fatal("Cinch failed with a free line available")
	}
	if r.WriteLine() != 1 {
		t.Errorf("WriteLine() = %d, want 1", r.WriteLine())
	}
	if r.LineSize(1) != 1 {
		t.Errorf("LineSize(1) = %d, want 1", r.LineSize(1))
	}

	// And refuses like a push once the ring is full.
	r.Push('c')
	if r.Cinch(0x00) {
		t.Error("Cinch succeeded on a full refuse ring")
	}
}
