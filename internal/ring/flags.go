package ring

// Flag is a register of advisory event bits. The engine only ever sets them
// (Clear excepted) and never reads them to alter behavior; they exist purely
// so callers can observe what has happened to the ring. LineWrapped and
// Overwrite describe similar moments but are never raised by the same event.
type Flag uint16

const (
	// FlagOverwrite records that a line was overwritten to admit new data.
	// Never raised under the Refuse policy. A ring can be full without ever
	// having overwritten anything; FlagFull and FlagOverwrite are distinct.
	FlagOverwrite Flag = 1 << 6
	// FlagDataReady records that Finalize completed at least once, so at
	// least one finished frame has been offered to the consumer.
	FlagDataReady Flag = 1 << 7
	// FlagLineWrapped records that a line filled to capacity and the write
	// cursor moved on, so a frame may have continued onto another line.
	FlagLineWrapped Flag = 1 << 8
	// FlagEmpty records that the ring drained to empty.
	FlagEmpty Flag = 1 << 9
	// FlagFull records that the ring reached capacity.
	FlagFull Flag = 1 << 10
)

var flagNames = []struct {
	bit  Flag
	name string
}{
	{FlagOverwrite, "overwrite"},
	{FlagDataReady, "data-ready"},
	{FlagLineWrapped, "line-wrapped"},
	{FlagEmpty, "empty"},
	{FlagFull, "full"},
}

// Names returns the names of the set bits, in fixed order.
func (f Flag) Names() []string {
	var names []string
	for _, fn := range flagNames {
		if f&fn.bit != 0 {
			names = append(names, fn.name)
		}
	}
	return names
}

// SetFlag raises the given advisory bits.
func (r *Ring) SetFlag(f Flag) { r.flags |= f }

// ClearFlag drops the given advisory bits.
func (r *Ring) ClearFlag(f Flag) { r.flags &^= f }

// FlagSet reports whether any of the given bits is raised.
func (r *Ring) FlagSet(f Flag) bool { return r.flags&f != 0 }

// Flags returns the whole advisory register.
func (r *Ring) Flags() Flag { return r.flags }

// noteFull records the full condition after a producer-side mutation. The
// bit sticks once raised; only Clear drops it.
func (r *Ring) noteFull() {
	if r.Full() {
		r.flags |= FlagFull
	}
}

// noteEmpty records the drained condition after a consumer-side mutation.
// The bit sticks once raised; only Clear drops it.
func (r *Ring) noteEmpty() {
	if r.Empty() {
		r.flags |= FlagEmpty
	}
}
