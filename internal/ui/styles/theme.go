package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette -- single source of truth
var (
	ColorPrimary     = lipgloss.Color("69")
	ColorSuccess     = lipgloss.Color("42")
	ColorWarning     = lipgloss.Color("214")
	ColorError       = lipgloss.Color("196")
	ColorMuted       = lipgloss.Color("241")
	ColorText        = lipgloss.Color("255")
	ColorHighlight   = lipgloss.Color("62")
	ColorHighlightBg = lipgloss.Color("237")
	ColorNormal      = lipgloss.Color("252")
)

// Title styles
var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	Logo = lipgloss.NewStyle().Foreground(ColorPrimary)

	Tagline = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)
)

// Section and state styles
var (
	Section = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)

	Success = lipgloss.NewStyle().Foreground(ColorSuccess)

	Warning = lipgloss.NewStyle().Foreground(ColorWarning)

	Error = lipgloss.NewStyle().Foreground(ColorError)

	Info = lipgloss.NewStyle().Foreground(ColorMuted)
)

// Label and value styles
var (
	Label = lipgloss.NewStyle().Foreground(ColorMuted)

	Value = lipgloss.NewStyle().Foreground(ColorText)
)

// Line rendering styles for the ring inspector
var (
	// WriteCursor marks the line currently receiving bytes.
	WriteCursor = lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)

	// ReadCursor marks the line currently draining.
	ReadCursor = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)

	// ValidBytes renders the ledger-counted portion of a line.
	ValidBytes = lipgloss.NewStyle().Foreground(ColorText)

	// SpareBytes renders the unwritten remainder of a line.
	SpareBytes = lipgloss.NewStyle().Foreground(ColorMuted)

	Selected = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true).
			Padding(0, 1)

	Normal = lipgloss.NewStyle().
		Foreground(ColorNormal).
		Padding(0, 1)
)

// Help and instructional styles
var (
	Help = lipgloss.NewStyle().Foreground(ColorMuted)
)

// DisableColors forces all Lipgloss rendering to produce plain text.
// Call once at startup from cmd/root.go based on --no-color flag.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
