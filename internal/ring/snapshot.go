package ring

import (
	"encoding/hex"
	"fmt"
	"io"
)

// LineState describes one line in a Snapshot. Data is the hex encoding of
// the whole physical line, valid and unwritten bytes alike.
type LineState struct {
	Size int    `json:"size" yaml:"size"`
	Data string `json:"data" yaml:"data"`
}

// Snapshot is a serializable view of a ring's state, taken without mutating
// anything. It backs the CLI's JSON/YAML/text output and the inspector TUI.
type Snapshot struct {
	LineCount  int         `json:"line_count" yaml:"line_count"`
	LineLength int         `json:"line_length" yaml:"line_length"`
	Capacity   int         `json:"capacity" yaml:"capacity"`
	Policy     string      `json:"policy" yaml:"policy"`
	Ownership  string      `json:"ownership" yaml:"ownership"`
	WriteLine  int         `json:"write_line" yaml:"write_line"`
	ReadLine   int         `json:"read_line" yaml:"read_line"`
	Flags      []string    `json:"flags" yaml:"flags"`
	Lines      []LineState `json:"lines" yaml:"lines"`
}

// Snapshot captures the ring's current state.
func (r *Ring) Snapshot() Snapshot {
	s := Snapshot{
		LineCount:  r.nLines,
		LineLength: r.lineLen,
		Capacity:   r.Capacity(),
		Policy:     r.policy.String(),
		Ownership:  r.ownership.String(),
		WriteLine:  r.write,
		ReadLine:   r.read,
		Flags:      r.flags.Names(),
		Lines:      make([]LineState, r.nLines),
	}
	for i := 0; i < r.nLines; i++ {
		s.Lines[i] = LineState{
			Size: r.ledger[i],
			Data: hex.EncodeToString(r.line(i)),
		}
	}
	return s
}

// Dump writes a hex dump of the backing store to w, one ring line per output
// line.
func (r *Ring) Dump(w io.Writer) {
	for i := 0; i < r.nLines; i++ {
		for _, b := range r.line(i) {
			fmt.Fprintf(w, "%02X", b)
		}
		fmt.Fprintln(w)
	}
}

// DumpConfig writes the ring's configuration and per-line occupancy to w.
func (r *Ring) DumpConfig(w io.Writer) {
	fmt.Fprintf(w, "line count: %d\n", r.nLines)
	fmt.Fprintf(w, "line length: %d\n", r.lineLen)
	fmt.Fprintf(w, "backing store size: %d\n", r.Capacity())
	fmt.Fprintf(w, "admission policy: %s\n", r.policy)
	fmt.Fprintf(w, "ownership: %s\n", r.ownership)
	fmt.Fprintf(w, "write line: %d\n", r.write)
	fmt.Fprintf(w, "read line: %d\n", r.read)
	fmt.Fprintln(w)
	for i := 0; i < r.nLines; i++ {
		fmt.Fprintf(w, "line %d: size %d\n", i, r.ledger[i])
	}
}
