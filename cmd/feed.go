package cmd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bsisduck/ringline/internal/ring"
	"github.com/bsisduck/ringline/internal/ui/format"
)

// feedStats aggregates one feed run for --stats output.
type feedStats struct {
	FramesIn int `json:"frames_in" yaml:"frames_in"`
	BytesIn  int `json:"bytes_in" yaml:"bytes_in"`
	LinesOut int `json:"lines_out" yaml:"lines_out"`
	BytesOut int `json:"bytes_out" yaml:"bytes_out"`
	Refusals int `json:"refusals" yaml:"refusals"`
	Drops    int `json:"drops" yaml:"drops"`
}

// feedReport is the document printed by --stats.
type feedReport struct {
	Stats feedStats     `json:"stats" yaml:"stats"`
	Ring  ring.Snapshot `json:"ring" yaml:"ring"`
}

// feedCmd stages framed input through a ring and drains it back out
var feedCmd = &cobra.Command{
	Use:   "feed [file]",
	Short: "Stage framed input through a ring and drain it to stdout",
	Long: `Stage framed input through a ring and drain it back to stdout.

The input is split into frames on the delimiter, each frame is pushed
byte by byte into the ring and finalized, and ready lines are popped
back out. Frames longer than the line length span multiple lines and
are emitted as multiple output records.

By default each frame is drained as soon as it is staged, so the ring
acts as a pass-through. With --hold the ring buffers everything until
end of input, which makes the eviction behavior of the oldest and
newest policies visible: only the surviving lines come back out.

Examples:
  ringline feed access.log
  seq 100 | ringline feed --lines 4 --policy oldest --hold
  ringline feed --cinch --fill 0xFF --stats -o json frames.bin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFeed,
}

func init() {
	feedCmd.Flags().IntP("lines", "n", 8, "Number of lines in the ring")
	feedCmd.Flags().IntP("line-length", "l", 64, "Capacity of each line in bytes")
	feedCmd.Flags().StringP("policy", "p", "refuse", "Admission policy (oldest, newest, refuse)")
	feedCmd.Flags().StringP("delimiter", "d", "\n", "Frame delimiter in the input")
	feedCmd.Flags().Bool("hold", false, "Buffer everything and drain only at end of input")
	feedCmd.Flags().Bool("cinch", false, "Pad each finalized line with the fill byte")
	feedCmd.Flags().Uint8("fill", 0, "Fill byte used by --cinch")
	feedCmd.Flags().Bool("shred", false, "Scrub consumed lines before they are reused")
	feedCmd.Flags().Bool("stats", false, "Print a run report to stderr after draining")
	feedCmd.Flags().StringP("output-format", "o", "text", "Stats format (text, json, yaml)")
}

func runFeed(cmd *cobra.Command, args []string) error {
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
	hold, _ := cmd.Flags().GetBool("hold")
	cinch, _ := cmd.Flags().GetBool("cinch")
	fill, _ := cmd.Flags().GetUint8("fill")

	var stats feedStats
	out := bufio.NewWriter(os.Stdout)
	err = feedStream(r, in, out, []byte(delimiter), feedOptions{
		hold:  hold,
		cinch: cinch,
		fill:  fill,
	}, &stats)
	if flushErr := out.Flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}

	if wantStats, _ := cmd.Flags().GetBool("stats"); wantStats {
		outputFormat, _ := cmd.Flags().GetString("output-format")
		return printFeedReport(os.Stderr, feedReport{Stats: stats, Ring: r.Snapshot()}, outputFormat)
	}
	return nil
}

// ringFromFlags builds a ring from the geometry and policy flags shared
// by the feed and dump commands.
func ringFromFlags(cmd *cobra.Command) (*ring.Ring, error) {
	nLines, _ := cmd.Flags().GetInt("lines")
	lineLen, _ := cmd.Flags().GetInt("line-length")
	policyName, _ := cmd.Flags().GetString("policy")
	shred, _ := cmd.Flags().GetBool("shred")

	policy, err := ring.ParsePolicy(policyName)
	if err != nil {
		return nil, err
	}

	var opts []ring.Option
	if shred {
		opts = append(opts, ring.WithShred())
	}
	return ring.New(nLines, lineLen, policy, opts...)
}

type feedOptions struct {
	hold  bool
	cinch bool
	fill  byte
}

// feedStream pushes delimiter-framed input through the ring and writes
// drained lines to out. On refusal it drains the ring and retries once;
// a second refusal means the input cannot make progress and is an error.
func feedStream(r *ring.Ring, in io.Reader, out io.Writer, delimiter []byte, opts feedOptions, stats *feedStats) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(splitOnDelimiter(delimiter))

	for scanner.Scan() {
		frame := scanner.Bytes()
		stats.FramesIn++
		stats.BytesIn += len(frame)

		for _, b := range frame {
			if r.Push(b) {
				continue
			}
			stats.Refusals++
			if err := drainRing(r, out, delimiter, stats); err != nil {
				return err
			}
			if !r.Push(b) {
				return fmt.Errorf("ring refused byte 0x%02X after draining", b)
			}
		}
		if opts.cinch && !r.Cinch(opts.fill) {
			stats.Refusals++
			if err := drainRing(r, out, delimiter, stats); err != nil {
				return err
			}
			if !r.Cinch(opts.fill) {
				return errors.New("ring refused to cinch after draining")
			}
		}
		if !r.Finalize() {
			stats.Refusals++
			if err := drainRing(r, out, delimiter, stats); err != nil {
				return err
			}
			if !r.Finalize() {
				return errors.New("ring refused to finalize after draining")
			}
		}
		// The overwrite flag is advisory telemetry; consuming it per frame
		// counts the frames that cost an older or in-flight line.
		if r.FlagSet(ring.FlagOverwrite) {
			stats.Drops++
			r.ClearFlag(ring.FlagOverwrite)
		}
		if !opts.hold {
			if err := drainRing(r, out, delimiter, stats); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return drainRing(r, out, delimiter, stats)
}

// drainRing pops every ready line out of the ring, seeking over the
// parking line when the read cursor sits on one.
func drainRing(r *ring.Ring, out io.Writer, delimiter []byte, stats *feedStats) error {
	dst := make([]byte, r.LineLength())
	for !r.Empty() {
		if r.PeekReadSize() == 0 {
			if !r.Seek() {
				break
			}
			continue
		}
		n := r.Pop(dst, func(line []byte) ring.Readiness {
			if len(line) == 0 {
				return ring.NotReady
			}
			return ring.Ready
		})
		if n <= 0 {
			break
		}
		stats.LinesOut++
		stats.BytesOut += n
		if _, err := out.Write(dst[:n]); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		if _, err := out.Write(delimiter); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	return nil
}

// splitOnDelimiter returns a bufio.SplitFunc that frames the input on an
// arbitrary byte sequence. The final frame needs no trailing delimiter.
func splitOnDelimiter(delimiter []byte) bufio.SplitFunc {
	if len(delimiter) == 0 {
		delimiter = []byte{'\n'}
	}
	return func(data []byte, atEOF bool) (int, []byte, error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		if i := bytes.Index(data, delimiter); i >= 0 {
			return i + len(delimiter), data[:i], nil
		}
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
}

func printFeedReport(w io.Writer, report feedReport, outputFormat string) error {
	switch outputFormat {
	case "json":
		return format.FormatJSON(w, report)
	case "yaml":
		return format.FormatYAML(w, report)
	default:
		fmt.Fprintf(w, "frames in:  %d (%s)\n", report.Stats.FramesIn, format.Size(uint64(report.Stats.BytesIn)))
		fmt.Fprintf(w, "lines out:  %d (%s)\n", report.Stats.LinesOut, format.Size(uint64(report.Stats.BytesOut)))
		fmt.Fprintf(w, "refusals:   %d\n", report.Stats.Refusals)
		fmt.Fprintf(w, "drops:      %d\n", report.Stats.Drops)
		fmt.Fprintf(w, "ring:       %dx%d %s, flags %v\n",
			report.Ring.LineCount, report.Ring.LineLength, report.Ring.Policy, report.Ring.Flags)
	}
	return nil
}
