package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bsisduck/ringline/internal/ring"
	"github.com/bsisduck/ringline/internal/tui/inspect"

	tea "github.com/charmbracelet/bubbletea"
)

// inspectCmd opens the interactive TUI ring inspector
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Open the interactive ring inspector",
	Long: `Open an interactive inspector on a live ring.

Typed characters are pushed into the write line, enter finalizes the
current frame, and the consumer side is driven by hand, so the cursor
movement and flag transitions of each policy can be watched as they
happen.

Examples:
  ringline inspect
  ringline inspect --lines 4 --line-length 8 --policy newest`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().IntP("lines", "n", 8, "Number of lines in the ring")
	inspectCmd.Flags().IntP("line-length", "l", 16, "Capacity of each line in bytes")
	inspectCmd.Flags().StringP("policy", "p", "refuse", "Admission policy (oldest, newest, refuse)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	nLines, _ := cmd.Flags().GetInt("lines")
	lineLen, _ := cmd.Flags().GetInt("line-length")
	policyName, _ := cmd.Flags().GetString("policy")

	policy, err := ring.ParsePolicy(policyName)
	if err != nil {
		return err
	}

	m, err := inspect.New(nLines, lineLen, policy)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
