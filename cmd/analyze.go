// =============================================================================
// Finance Analyzer - Analyze Command
// =============================================================================
//
// This file defines the 'analyze' command, the main command of the CLI. It
// loads one transaction file, prints the summary and optionally exports it.
//
// COMMAND USAGE:
//   finance-analyzer analyze <file> [flags]
//
// FLAGS:
//   --top             : Number of largest expenses to list
//   --top-categories  : Number of categories to list
//   --export          : Write the summary to a .yaml, .xml or .xlsx file
//   --export-dir      : Write the summary to a generated file name in a directory
//
// PROCESSING PIPELINE:
//   1. Check the input file
//   2. Load it through the analyzer
//   3. Build and print the summary
//   4. Export the summary if requested
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ginjaninja78/finance-analyzer/internal/analyzer"
	"github.com/ginjaninja78/finance-analyzer/internal/loader"
	"github.com/ginjaninja78/finance-analyzer/internal/report"
	"github.com/ginjaninja78/finance-analyzer/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// topN overrides report.top_n when positive.
var topN int

// topCategories overrides report.top_categories when positive.
var topCategories int

// exportFile is the path the summary is exported to.
var exportFile string

// exportDir is a directory the summary is exported to under a generated name.
var exportDir string

// =============================================================================
// ANALYZE COMMAND DEFINITION
// =============================================================================

// analyzeCmd represents the 'analyze' command.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Summarize the expenses in a transaction file",
	Long: `The analyze command loads a transaction file and prints total expenses,
the date range, the largest categories, the largest expenses and the monthly
trend.

The file needs the description, amount and category columns configured in
the config file (descricao, valor and categoria by default). The date column
(data) is optional; without it the date range is reported as unavailable.

Files ending in .xlsx are read as workbooks, anything else as CSV.`,

	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd, args[0])
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the analyze command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(analyzeCmd)
	addAnalyzeFlags(analyzeCmd.Flags())
}

// addAnalyzeFlags registers the analyze flags on fs.
func addAnalyzeFlags(fs *pflag.FlagSet) {
	fs.IntVar(
		&topN,
		"top",
		0,
		"Number of largest expenses to list (default from config, 5)",
	)

	fs.IntVar(
		&topCategories,
		"top-categories",
		0,
		"Number of categories to list (default from config, 5)",
	)

	fs.StringVar(
		&exportFile,
		"export",
		"",
		"Export the summary to this file (.yaml, .yml, .xml or .xlsx)",
	)

	fs.StringVar(
		&exportDir,
		"export-dir",
		"",
		"Export the summary to this directory using report.name_format",
	)
}

// =============================================================================
// MAIN ANALYSIS FUNCTION
// =============================================================================

// runAnalyze loads path, prints the summary and exports it if requested.
func runAnalyze(cmd *cobra.Command, path string) error {
	log := logger.WithField("source", path)

	// =========================================================================
	// STEP 1: CHECK INPUT
	// =========================================================================

	if exportFile != "" && exportDir != "" {
		return badInput(fmt.Errorf("--export and --export-dir cannot be used together"))
	}
	if topN < 0 || topCategories < 0 {
		return badInput(fmt.Errorf("--top and --top-categories must not be negative"))
	}

	if !utils.FileExists(path) {
		return badInput(fmt.Errorf("file not found: %s", path))
	}

	if size, err := utils.GetFileSize(path); err == nil {
		log = log.WithField("bytes", size)
	}
	log.Info("Command.Analyze.Start")

	// =========================================================================
	// STEP 2: LOAD
	// =========================================================================

	a := analyzer.New(path,
		analyzer.WithLoader(loader.New(cfg, logger)),
		analyzer.WithLogger(logger),
	)
	a.Load()
	if !a.Loaded() {
		return badInput(fmt.Errorf("failed to load %s: %w", path, a.Err()))
	}

	// =========================================================================
	// STEP 3: SUMMARIZE
	// =========================================================================

	opts := report.OptionsFromConfig(cfg.Report)
	if topN > 0 {
		opts.TopExpenses = topN
	}
	if topCategories > 0 {
		opts.TopCategories = topCategories
	}

	summary := report.Build(a, opts)
	if err := report.WriteText(cmd.OutOrStdout(), summary); err != nil {
		return internalError(err)
	}

	// =========================================================================
	// STEP 4: EXPORT
	// =========================================================================

	target, err := exportTarget(path)
	if err != nil {
		return badInput(err)
	}
	if target != "" {
		if err := report.Export(target, summary); err != nil {
			if errors.Is(err, report.ErrUnsupportedFormat) {
				return badInput(err)
			}
			return internalError(fmt.Errorf("failed to export summary: %w", err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nSummary exported to %s\n", target)
	}

	log.WithFields(logrus.Fields{
		"transactions": summary.Transactions,
		"export":       target,
	}).Info("Command.Analyze.Complete")

	return nil
}

// exportTarget returns the export path requested by the flags, or "".
// With --export-dir the directory is created and the file name is generated
// from report.name_format.
func exportTarget(source string) (string, error) {
	if exportFile != "" {
		return exportFile, nil
	}
	if exportDir == "" {
		return "", nil
	}

	if err := utils.EnsureDir(exportDir); err != nil {
		return "", err
	}

	name := utils.GenerateOutputFileName(cfg.Report.NameFormat, map[string]string{
		"source": utils.SourceName(source),
	})
	return filepath.Join(exportDir, name), nil
}
