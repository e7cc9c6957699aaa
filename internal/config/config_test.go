package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvLogLevel, EnvLogFormat, EnvDelimiter, EnvTopN} {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ",", cfg.CSVSettings.Delimiter)
	assert.Equal(t, Columns{Date: "data", Description: "descricao", Amount: "valor", Category: "categoria"}, cfg.Columns)
	assert.Equal(t, DefaultDateLayouts(), cfg.DateLayouts)
	assert.Equal(t, ".", cfg.DecimalSeparator)
	assert.Equal(t, 5, cfg.Report.TopN)
	assert.Equal(t, 5, cfg.Report.TopCategories)
	assert.Equal(t, "R$", cfg.Report.CurrencySymbol)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
log_level: debug
csv_settings:
  delimiter: ";"
  skip_rows: 2
columns:
  date: date
  description: description
  amount: amount
  category: category
decimal_separator: ","
date_layouts: ["02/01/2006"]
transformation_rules:
  - field: category
    actions:
      - type: lowercase
report:
  top_n: 3
  currency_symbol: "€"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ";", cfg.CSVSettings.Delimiter)
	assert.Equal(t, 2, cfg.CSVSettings.SkipRows)
	assert.Equal(t, "amount", cfg.Columns.Amount)
	assert.Equal(t, ",", cfg.DecimalSeparator)
	assert.Equal(t, []string{"02/01/2006"}, cfg.DateLayouts)
	require.Len(t, cfg.TransformationRules, 1)
	assert.Equal(t, "lowercase", cfg.TransformationRules[0].Actions[0].Type)
	assert.Equal(t, 3, cfg.Report.TopN)
	assert.Equal(t, 5, cfg.Report.TopCategories)
	assert.Equal(t, "€", cfg.Report.CurrencySymbol)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "log_level: warn\n")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvDelimiter, "tab")
	t.Setenv(EnvTopN, "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "tab", cfg.CSVSettings.Delimiter)
	assert.Equal(t, 7, cfg.Report.TopN)
}

func TestLoad_InvalidEnvTopN(t *testing.T) {
	t.Setenv(EnvTopN, "many")

	_, err := Load("")
	assert.ErrorContains(t, err, EnvTopN)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "log_level: [unterminated\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"bad separator", func(c *Config) { c.DecimalSeparator = "_" }, "decimal_separator"},
		{"negative skip", func(c *Config) { c.CSVSettings.SkipRows = -1 }, "skip_rows"},
		{"negative top", func(c *Config) { c.Report.TopN = -2 }, "top_n"},
		{"same columns", func(c *Config) { c.Columns.Category = c.Columns.Amount }, "must differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
