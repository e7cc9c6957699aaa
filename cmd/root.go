// =============================================================================
// Finance Analyzer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (finance-analyzer [file])
//   ├── analyzeCmd (finance-analyzer analyze <file>)
//   └── versionCmd (finance-analyzer version)
//
// The root command with a single file argument behaves like 'analyze'.
//
// EXIT CODES:
//   0 - Success, or no arguments (usage is printed)
//   1 - Bad input: missing file, unreadable data, invalid flags or config
//   2 - Internal error
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ginjaninja78/finance-analyzer/internal/config"
	"github.com/ginjaninja78/finance-analyzer/internal/logging"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitOK       = 0
	ExitBadInput = 1
	ExitInternal = 2
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func badInput(err error) error {
	return &ExitError{Code: ExitBadInput, Err: err}
}

func internalError(err error) error {
	return &ExitError{Code: ExitInternal, Err: err}
}

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// cfg and logger are set up by initApp before any command runs.
var (
	cfg    *config.Config
	logger *logrus.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "finance-analyzer [file]",
	Short: "Finance Analyzer - Summarize expenses from a transaction CSV",
	Long: `Finance Analyzer reads a CSV (or XLSX) export of financial transactions
and prints a summary: total expenses, date range, the largest categories,
the largest individual expenses and the monthly trend.

Negative amounts are expenses; everything else is income.

Example Usage:
  finance-analyzer extrato.csv                      # Same as 'analyze extrato.csv'
  finance-analyzer analyze extrato.csv --top 10     # List the 10 largest expenses
  finance-analyzer analyze extrato.csv --export summary.xlsx
  finance-analyzer analyze extrato.csv --config ./my.yaml`,

	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runAnalyze(cmd, args[0])
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI with the process arguments and exits.
// This is called by main.main().
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes the CLI with args and returns the exit code. Panics are
// recovered and reported as internal errors.
func Run(args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "Error: internal error: %v\n", r)
			code = ExitInternal
		}
	}()

	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	// Argument and flag errors reported by cobra.
	return ExitBadInput
}

// resetFlags restores every flag to its default so Run can be called more
// than once in the same process.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// =============================================================================
// APPLICATION SETUP
// =============================================================================

// initApp loads the environment and configuration and sets up logging.
// The root command without arguments skips it.
//
// ORDER:
//   1. .env in the working directory (optional)
//   2. The YAML configuration file (optional)
//   3. ANALYZER_* environment overrides
//   4. --verbose, which forces debug logging
func initApp(cmd *cobra.Command, args []string) error {
	// Bare invocation only prints usage and must not depend on the config.
	if cmd == rootCmd && len(args) == 0 {
		return nil
	}

	_ = godotenv.Load()

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return badInput(fmt.Errorf("failed to load config: %w", err))
	}
	cfg = loaded

	logger = logging.SetupLoggingWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	logger.WithField("config", cfgFile).Debug("App.Init.Complete")
	return nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// Assigned here rather than in the rootCmd literal to avoid an
	// initialization cycle (initApp refers to rootCmd).
	rootCmd.PersistentPreRunE = initApp

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================
	// Persistent flags are available to this command and all subcommands.

	// --config flag: Allows the user to specify a custom configuration file.
	// A missing file is not an error; defaults are used instead.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	// The root command accepts the same flags as 'analyze'.
	addAnalyzeFlags(rootCmd.Flags())
}
