// Ringline - segmented byte ring buffer workbench CLI
// Frames go in one line at a time; the admission policy decides who survives.
package main

import (
	"fmt"
	"os"

	"github.com/bsisduck/ringline/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
