// =============================================================================
// Finance Analyzer - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration. The configuration file is optional: when it does not exist
// the defaults below are used.
//
// LOAD ORDER:
//   1. Defaults
//   2. YAML file (config.yaml or the path given with --config)
//   3. Environment variables (a .env file is loaded by the root command)
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// ENVIRONMENT VARIABLES
// =============================================================================

const (
	EnvLogLevel  = "ANALYZER_LOG_LEVEL"
	EnvLogFormat = "ANALYZER_LOG_FORMAT"
	EnvDelimiter = "ANALYZER_DELIMITER"
	EnvTopN      = "ANALYZER_TOP_N"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the global application configuration.
type Config struct {
	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the logrus formatter: "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// CSVSettings contains settings for parsing the input CSV file.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// Columns maps the four semantic fields to the source column headers.
	Columns Columns `yaml:"columns"`

	// DateLayouts are the Go time layouts tried, in order, to parse dates.
	DateLayouts []string `yaml:"date_layouts"`

	// DecimalSeparator is "." or ",". With "," the value "1.234,56" reads
	// as 1234.56.
	// Default: "."
	DecimalSeparator string `yaml:"decimal_separator"`

	// TransformationRules are applied to raw values before coercion.
	TransformationRules []TransformationRule `yaml:"transformation_rules"`

	// =========================================================================
	// REPORT SETTINGS
	// =========================================================================

	// Report contains settings for the summary and its exports.
	Report ReportSettings `yaml:"report"`
}

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), ";" (semicolon), "|" (pipe), "tab"
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// SkipRows is the number of rows before the header row (titles, notes).
	// Default: 0
	SkipRows int `yaml:"skip_rows"`

	// Sheet is the worksheet read from .xlsx sources.
	// Default: the first sheet
	Sheet string `yaml:"sheet"`
}

// Columns holds the source header for each transaction field.
type Columns struct {
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
	Amount      string `yaml:"amount"`
	Category    string `yaml:"category"`
}

// TransformationRule defines transformations applied to a single column.
type TransformationRule struct {
	// Field is the column header the actions apply to.
	Field string `yaml:"field"`

	// Actions are applied in order.
	Actions []TransformationAction `yaml:"actions"`
}

// TransformationAction defines a single transformation action.
type TransformationAction struct {
	// Type is one of:
	//   - "trim"      : Remove leading and trailing whitespace
	//   - "uppercase" : Convert to uppercase
	//   - "lowercase" : Convert to lowercase
	//   - "title"     : Uppercase the first letter of each word
	//   - "replace"   : Replace Find with Value
	//   - "lookup"    : Replace the whole value using LookupTable
	//   - "default"   : Use Value when the field is empty
	Type string `yaml:"type"`

	// Value is the parameter of the action.
	Value string `yaml:"value"`

	// Find is used by "replace".
	Find string `yaml:"find,omitempty"`

	// LookupTable is used by "lookup". Unmatched values pass through.
	LookupTable map[string]string `yaml:"lookup_table,omitempty"`
}

// ReportSettings contains settings for the summary output.
type ReportSettings struct {
	// TopN is the number of largest expenses listed.
	// Default: 5
	TopN int `yaml:"top_n"`

	// TopCategories is the number of categories listed.
	// Default: 5
	TopCategories int `yaml:"top_categories"`

	// CurrencySymbol prefixes amounts in the text report.
	// Default: "R$"
	CurrencySymbol string `yaml:"currency_symbol"`

	// NameFormat is used for exports written with --export-dir.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {source}    - Base name of the input file without extension
	// Default: "{source}_{timestamp}_{uuid}.xlsx"
	NameFormat string `yaml:"name_format"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads the configuration from a YAML file and the environment.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. A missing file is not
//     an error; an empty path skips the file entirely.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be parsed or the result is invalid.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Optional file.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyDefaults(&cfg)

	if err := applyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.CSVSettings.Delimiter == "" {
		cfg.CSVSettings.Delimiter = ","
	}
	if cfg.Columns.Date == "" {
		cfg.Columns.Date = "data"
	}
	if cfg.Columns.Description == "" {
		cfg.Columns.Description = "descricao"
	}
	if cfg.Columns.Amount == "" {
		cfg.Columns.Amount = "valor"
	}
	if cfg.Columns.Category == "" {
		cfg.Columns.Category = "categoria"
	}
	if len(cfg.DateLayouts) == 0 {
		cfg.DateLayouts = DefaultDateLayouts()
	}
	if cfg.DecimalSeparator == "" {
		cfg.DecimalSeparator = "."
	}
	if cfg.Report.TopN == 0 {
		cfg.Report.TopN = 5
	}
	if cfg.Report.TopCategories == 0 {
		cfg.Report.TopCategories = 5
	}
	if cfg.Report.CurrencySymbol == "" {
		cfg.Report.CurrencySymbol = "R$"
	}
	if cfg.Report.NameFormat == "" {
		cfg.Report.NameFormat = "{source}_{timestamp}_{uuid}.xlsx"
	}
}

// DefaultDateLayouts returns the layouts tried when none are configured.
// ISO layouts come first so that "2024-01-05" is never read as day/month.
func DefaultDateLayouts() []string {
	return []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
		"02/01/2006",
		"02/01/2006 15:04:05",
		"2006/01/02",
		"02-01-2006",
		"20060102",
	}
}

// applyEnv overrides settings from environment variables.
func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv(EnvDelimiter); v != "" {
		cfg.CSVSettings.Delimiter = v
	}
	if v := os.Getenv(EnvTopN); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", EnvTopN, err)
		}
		cfg.Report.TopN = n
	}
	return nil
}

// Validate checks the configuration for values the application cannot use.
func (c *Config) Validate() error {
	var problems []string

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown log_level '%s'", c.LogLevel))
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("unknown log_format '%s'", c.LogFormat))
	}

	if c.DecimalSeparator != "." && c.DecimalSeparator != "," {
		problems = append(problems, fmt.Sprintf("decimal_separator must be '.' or ',', got '%s'", c.DecimalSeparator))
	}

	if c.CSVSettings.SkipRows < 0 {
		problems = append(problems, "csv_settings.skip_rows must not be negative")
	}

	if c.Report.TopN < 0 || c.Report.TopCategories < 0 {
		problems = append(problems, "report.top_n and report.top_categories must not be negative")
	}

	if c.Columns.Amount == c.Columns.Category {
		problems = append(problems, "columns.amount and columns.category must differ")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
