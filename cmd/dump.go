package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bsisduck/ringline/internal/ring"
	"github.com/bsisduck/ringline/internal/ui/format"
)

// dumpCmd stages input into a ring and prints the backing store as hex
var dumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Feed input into a ring and hex-dump the backing store",
	Long: `Feed delimiter-framed input into a ring and print the resulting
state: the configuration, the cursors, and a hex dump of every line.

Nothing is drained, so the dump shows exactly what survives under the
chosen admission policy once the input outgrows the ring.

Examples:
  ringline dump frames.txt
  seq 20 | ringline dump --lines 4 --line-length 8 --policy newest`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().IntP("lines", "n", 8, "Number of lines in the ring")
	dumpCmd.Flags().IntP("line-length", "l", 16, "Capacity of each line in bytes")
	dumpCmd.Flags().StringP("policy", "p", "oldest", "Admission policy (oldest, newest, refuse)")
	dumpCmd.Flags().StringP("delimiter", "d", "\n", "Frame delimiter in the input")
	dumpCmd.Flags().Bool("shred", false, "Scrub consumed lines before they are reused")
}

func runDump(cmd *cobra.Command, args []string) error {
	r, err := ringFromFlags(cmd)
	if err != nil {
		return err
	}

	in := io.Reader(os.Stdin)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	delimiter, _ := cmd.Flags().GetString("delimiter")
	refused, err := stageFrames(r, in, []byte(delimiter))
	if err != nil {
		return err
	}

	fmt.Printf("backing store: %s\n", format.Size(uint64(r.Capacity())))
	r.DumpConfig(os.Stdout)
	fmt.Println()
	r.Dump(os.Stdout)
	if refused > 0 {
		fmt.Printf("\nrefused %d byte(s) at capacity\n", refused)
	}
	return nil
}

// stageFrames pushes every frame of the input into the ring without
// draining, and reports how many bytes the policy refused.
func stageFrames(r *ring.Ring, in io.Reader, delimiter []byte) (refused int, err error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(splitOnDelimiter(delimiter))

	for scanner.Scan() {
		for _, b := range scanner.Bytes() {
			if !r.Push(b) {
				refused++
			}
		}
		// Best effort: a refused finalize just leaves the last frame open.
		_ = r.Finalize()
	}
	if err := scanner.Err(); err != nil {
		return refused, fmt.Errorf("reading input: %w", err)
	}
	return refused, nil
}
