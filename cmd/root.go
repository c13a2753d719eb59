// Package cmd provides the CLI command structure for Ringline.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bsisduck/ringline/internal/ring"
	"github.com/bsisduck/ringline/internal/tui/inspect"
	"github.com/bsisduck/ringline/internal/ui/styles"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	// Version information
	Version   = "0.1.0"
	BuildTime = ""
	GitCommit = ""

	// Global flags
	noColor bool
)

const (
	ringlineTagline = "Stage framed bytes through a ring of lines."
	ringlineLogo    = `
      _             _ _
  _ _(_)_ _  __ _  | (_)_ _  ___
 | '_| | ' \/ _` + "`" + ` | | | | ' \/ -_)
 |_| |_|_||_\__, | |_|_|_||_\___|
            |___/
`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ringline",
	Short: "Segmented byte ring buffer workbench",
	Long: fmt.Sprintf(`%s
%s

Ringline stages variable-length frames of bytes through a fixed-capacity
ring of lines, under a configurable backpressure policy: drop the oldest
unread line, overwrite the newest one in place, or refuse new data until
the consumer frees space.

Run 'ringline' without arguments to open the interactive inspector.`, ringlineLogo, ringlineTagline),
	Run: func(cmd *cobra.Command, args []string) {
		// Open the interactive inspector when no subcommand is provided
		runInteractiveInspector()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	cobra.OnInitialize(func() {
		if noColor {
			styles.DisableColors()
		}
	})

	// Add subcommands
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

// runInteractiveInspector opens the TUI-based inspector with default geometry
func runInteractiveInspector() {
	m, err := inspect.New(8, 16, ring.Refuse)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
