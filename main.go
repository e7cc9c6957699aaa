// =============================================================================
// Finance Analyzer - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Finance Analyzer CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   finance-analyzer <file>            - Summarize a transaction file
//   finance-analyzer analyze <file>    - Same, with export options
//   finance-analyzer version           - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra) and exit codes
//   - internal/      : Loading, analysis and reporting
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/finance-analyzer/cmd"
)

func main() {
	cmd.Execute()
}
