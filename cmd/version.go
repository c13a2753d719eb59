package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display Ringline version and build information.",
	RunE:  runVersion,
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Printf("Ringline version %s\n", Version)
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	if BuildTime != "" {
		fmt.Printf("Build time: %s\n", BuildTime)
	}
	if GitCommit != "" {
		fmt.Printf("Git commit: %s\n", GitCommit)
	}
	return nil
}
