// =============================================================================
// Finance Analyzer - Loader Module
// =============================================================================
//
// This module turns a source file into a types.Table. It is the "library
// capability" the analyzer calls: parsing and coercion live here, the
// analyzer only ever sees typed rows.
//
// LOAD PIPELINE:
//   1. Read the file (CSV, or XLSX by extension)
//   2. Check the required columns
//   3. Apply transformation rules to raw values
//   4. Coerce each row (amount, date)
//
// Any failure aborts the load. Rows are never dropped silently.
//
// =============================================================================

package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/finance-analyzer/internal/config"
	"github.com/ginjaninja78/finance-analyzer/internal/csvparser"
	"github.com/ginjaninja78/finance-analyzer/internal/logging"
	"github.com/ginjaninja78/finance-analyzer/internal/types"
	"github.com/ginjaninja78/finance-analyzer/internal/validation"
	"github.com/ginjaninja78/finance-analyzer/internal/xlsxparser"
)

// =============================================================================
// LOADER STRUCTURE
// =============================================================================

// Loader reads transaction tables from files.
type Loader struct {
	cfg         *config.Config
	transformer *Transformer
	log         logrus.FieldLogger
}

// New creates a new Loader. A nil config uses the defaults and a nil logger
// discards output.
func New(cfg *config.Config, log logrus.FieldLogger) *Loader {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Loader{
		cfg:         cfg,
		transformer: NewTransformer(cfg.TransformationRules),
		log:         log,
	}
}

// =============================================================================
// MAIN LOADING FUNCTION
// =============================================================================

// Load reads the file at path into a table.
//
// PARAMETERS:
//   - path: The source file. ".xlsx" files are read as workbooks, anything
//     else as CSV.
//
// RETURNS:
//   - The loaded table. A file with a header and no rows yields an empty
//     table and no error.
//   - An error if the file cannot be read, a required column is missing, or
//     any row fails coercion.
func (l *Loader) Load(path string) (*types.Table, error) {
	log := l.log.WithField("source", path)
	log.Debug("Loader.Load.Start")

	// =========================================================================
	// STEP 1: READ THE SOURCE
	// =========================================================================

	isWorkbook := strings.EqualFold(filepath.Ext(path), ".xlsx")

	var (
		data *csvparser.CSVData
		err  error
	)
	if isWorkbook {
		data, err = xlsxparser.Parse(path, l.cfg.CSVSettings)
	} else {
		data, err = csvparser.Parse(path, l.cfg.CSVSettings)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	log.WithField("rows", len(data.Rows)).Debug("Loader.Load.Parsed")

	// =========================================================================
	// STEP 2: CHECK COLUMNS
	// =========================================================================

	if err := validation.RequireColumns(data.Headers, l.cfg.Columns); err != nil {
		return nil, err
	}

	hasDate := data.HasColumn(l.cfg.Columns.Date)
	if !hasDate {
		log.WithField("column", l.cfg.Columns.Date).Warn("Loader.Load.NoDateColumn")
	}

	// =========================================================================
	// STEP 3 + 4: TRANSFORM AND COERCE
	// =========================================================================

	coercer := validation.NewCoercer(l.cfg, hasDate, isWorkbook)
	table := &types.Table{
		Transactions: make([]types.Transaction, 0, len(data.Rows)),
		HasDate:      hasDate,
		Source:       path,
	}

	var firstErr error
	badDates := 0

	for i, fields := range data.Rows {
		line := data.LineNumbers[i]

		if err := l.transformer.Apply(fields); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		tx, err := coercer.CoerceRow(fields, i+1, line)
		if err != nil {
			if !validation.IsRule(err, validation.RuleDate) {
				return nil, err
			}
			// Keep scanning to tell "some dates are bad" from "no date is usable".
			badDates++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		table.Transactions = append(table.Transactions, tx)
	}

	if badDates > 0 && badDates == len(data.Rows) {
		return nil, fmt.Errorf("no row has a valid '%s' value: %w", l.cfg.Columns.Date, firstErr)
	}
	if firstErr != nil {
		return nil, firstErr
	}

	log.WithFields(logrus.Fields{
		"rows":     table.Len(),
		"has_date": hasDate,
	}).Info("Loader.Load.Complete")

	return table, nil
}
