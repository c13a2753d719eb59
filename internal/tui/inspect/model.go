package inspect

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bsisduck/ringline/internal/ring"
	"github.com/bsisduck/ringline/internal/ui/styles"
)

// historyCap bounds the operation log shown below the line table.
const historyCap = 6

// Model is a Bubble Tea model for driving a ring interactively. Typed
// characters push bytes, enter finalizes the frame, and control keys run the
// consumer side, so every admission and drain path can be watched line by
// line.
type Model struct {
	ring *ring.Ring

	history []string // recent operation outcomes, oldest first

	width  int
	height int
}

// New creates an inspector around a fresh ring.
func New(nLines, lineLen int, policy ring.Policy) (Model, error) {
	r, err := ring.New(nLines, lineLen, policy)
	if err != nil {
		return Model{}, err
	}
	return Model{ring: r}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// note appends an outcome to the bounded operation log.
func (m *Model) note(s string) {
	m.history = append(m.history, s)
	if len(m.history) > historyCap {
		m.history = m.history[len(m.history)-historyCap:]
	}
}

// pushBytes feeds raw bytes through the admission policy, stopping at the
// first refusal.
func (m *Model) pushBytes(data []byte) {
	for i, b := range data {
		if m.ring.Push(b) {
			continue
		}
		m.note(fmt.Sprintf("push 0x%02X refused after %d byte(s): ring full", b, i))
		return
	}
	m.note(fmt.Sprintf("pushed %d byte(s)", len(data)))
}

func (m *Model) finalize() {
	if m.ring.Finalize() {
		m.note("finalized write line")
		return
	}
	m.note("finalize refused: ring full")
}

func (m *Model) cinch() {
	if m.ring.Cinch(0x00) {
		m.note("cinched write line with 0x00")
		return
	}
	m.note("cinch refused: ring full")
}

func (m *Model) pop() {
	dst := make([]byte, m.ring.LineLength())
	n := m.ring.Pop(dst, func(line []byte) ring.Readiness {
		if len(line) == 0 {
			return ring.NotReady
		}
		return ring.Ready
	})
	switch n {
	case 0:
		m.note("pop: read line not ready (empty)")
	default:
		m.note(fmt.Sprintf("popped %d byte(s): %q", n, dst[:n]))
	}
}

func (m *Model) truncate() {
	if n := m.ring.Pop(nil, func(line []byte) ring.Readiness { return ring.Truncate }); n == ring.Discarded {
		m.note("truncated read line")
	}
}

func (m *Model) seek() {
	if m.ring.Seek() {
		m.note("seek: read cursor advanced")
		return
	}
	m.note("seek refused: would cross into write line")
}

func (m *Model) clear() {
	m.ring.Clear()
	m.note("cleared ring")
}

// Update handles key events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			m.finalize()
			return m, nil
		case "ctrl+n":
			m.cinch()
			return m, nil
		case "ctrl+p":
			m.pop()
			return m, nil
		case "ctrl+t":
			m.truncate()
			return m, nil
		case "ctrl+k":
			m.seek()
			return m, nil
		case "ctrl+l":
			m.clear()
			return m, nil
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			text := string(msg.Runes)
			if msg.Type == tea.KeySpace {
				text = " "
			}
			m.pushBytes([]byte(text))
			return m, nil
		}
	}

	return m, nil
}

// renderLine formats one ring line as hex plus ASCII with cursor markers.
func (m Model) renderLine(i int) string {
	raw := m.ring.LineBytes(i)
	size := m.ring.LineSize(i)

	var hexCol strings.Builder
	var asciiCol strings.Builder
	for j, b := range raw {
		cell := fmt.Sprintf("%02X ", b)
		ch := "."
		if b >= 0x20 && b < 0x7F {
			ch = string(rune(b))
		}
		if j < size {
			hexCol.WriteString(styles.ValidBytes.Render(cell))
			asciiCol.WriteString(styles.ValidBytes.Render(ch))
		} else {
			hexCol.WriteString(styles.SpareBytes.Render(cell))
			asciiCol.WriteString(styles.SpareBytes.Render(ch))
		}
	}

	marker := "  "
	switch i {
	case m.ring.WriteLine():
		marker = styles.WriteCursor.Render("W ")
	case m.ring.ReadLine():
		marker = styles.ReadCursor.Render("R ")
	}

	return fmt.Sprintf("%s%3d  %s %s  %d/%d",
		marker, i, hexCol.String(), asciiCol.String(), size, m.ring.LineLength())
}

// View renders the inspector.
func (m Model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Ring Inspector  %dx%d  policy: %s",
		m.ring.LineCount(), m.ring.LineLength(), m.ring.Policy())
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")

	for i := 0; i < m.ring.LineCount(); i++ {
		b.WriteString(m.renderLine(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	flags := m.ring.Flags().Names()
	if len(flags) == 0 {
		b.WriteString(styles.Label.Render("flags: ") + styles.Info.Render("none"))
	} else {
		b.WriteString(styles.Label.Render("flags: ") + styles.Warning.Render(strings.Join(flags, " ")))
	}
	b.WriteString("\n\n")

	for _, h := range m.history {
		b.WriteString(styles.Info.Render("  " + h))
		b.WriteString("\n")
	}
	if len(m.history) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(styles.Help.Render(
		"type: push bytes • enter: finalize • ctrl+n: cinch • ctrl+p: pop • " +
			"ctrl+t: truncate • ctrl+k: seek • ctrl+l: clear • esc: quit"))
	b.WriteString("\n")

	return b.String()
}
