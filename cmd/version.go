// =============================================================================
// Finance Analyzer - Version Command
// =============================================================================
//
// 'finance-analyzer version' prints the release, when it was built and the Go
// runtime it runs on. It is handy when comparing reports produced by
// different builds of the analyzer.
//
// SAMPLE OUTPUT:
//   Finance Analyzer
//   Version:    1.0.0
//   Build Date: 2025-03-14
//   Go Version: go1.24.11
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// =============================================================================
// BUILD METADATA
// =============================================================================
// Release builds stamp both values through the linker:
//   -ldflags "-X github.com/ginjaninja78/finance-analyzer/cmd.Version=1.2.0
//             -X github.com/ginjaninja78/finance-analyzer/cmd.BuildDate=2025-03-14"

// Version is the release of the analyzer.
var Version = "1.0.0"

// BuildDate is left as "unknown" for local builds.
var BuildDate = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the analyzer release and build details",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Finance Analyzer")
		fmt.Fprintf(out, "Version:    %s\n", Version)
		fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
		fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
