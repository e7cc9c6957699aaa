// =============================================================================
// Finance Analyzer - Validation Engine
// =============================================================================
//
// This module turns raw header -> value rows into typed transactions. It is
// the only place where amounts and dates are interpreted.
//
// VALIDATION RULES:
//   - required_column : amount, category and description columns must exist
//   - amount          : must parse as a decimal number (no silent drops)
//   - date            : when the date column exists, non-blank values must
//                       match a layout
//
// ERROR HANDLING:
//   - Each error carries the line, field, value and rule that failed
//   - The first failing row stops coercion; the loader turns that into a
//     failed load
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/finance-analyzer/internal/config"
	"github.com/ginjaninja78/finance-analyzer/internal/types"
)

// Rule names used in ValidationError.Rule.
const (
	RuleRequiredColumn = "required_column"
	RuleAmount         = "amount"
	RuleDate           = "date"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation failure.
type ValidationError struct {
	// Field is the column that failed validation.
	Field string

	// Value is the raw value that failed validation.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string

	// Line is the line of the row in the source file. Zero for header errors.
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("Field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("Line %d, Field '%s': %s (value: '%s')", e.Line, e.Field, e.Message, e.Value)
}

// IsRule reports whether err is a ValidationError for the given rule.
func IsRule(err error, rule string) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Rule == rule
}

// =============================================================================
// COLUMN CHECKS
// =============================================================================

// RequireColumns checks that every required column is present in headers.
// The date column is optional and is not checked here.
func RequireColumns(headers []string, columns config.Columns) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	for _, required := range []string{columns.Description, columns.Amount, columns.Category} {
		if !present[required] {
			return &ValidationError{
				Field:   required,
				Rule:    RuleRequiredColumn,
				Message: fmt.Sprintf("required column '%s' is missing", required),
			}
		}
	}

	return nil
}

// =============================================================================
// COERCER
// =============================================================================

// Coercer converts raw rows into transactions.
type Coercer struct {
	columns          config.Columns
	dateLayouts      []string
	decimalSeparator string

	// hasDate is set when the source carries the date column.
	hasDate bool

	// excelSerialDates accepts spreadsheet serial numbers as dates.
	excelSerialDates bool
}

// NewCoercer creates a Coercer from the configuration.
//
// PARAMETERS:
//   - cfg: The application configuration (columns, layouts, separator).
//   - hasDate: Whether the source has the date column.
//   - excelSerialDates: Whether numeric spreadsheet dates are accepted.
func NewCoercer(cfg *config.Config, hasDate, excelSerialDates bool) *Coercer {
	return &Coercer{
		columns:          cfg.Columns,
		dateLayouts:      cfg.DateLayouts,
		decimalSeparator: cfg.DecimalSeparator,
		hasDate:          hasDate,
		excelSerialDates: excelSerialDates,
	}
}

// CoerceRow converts a single row.
//
// PARAMETERS:
//   - fields: The row as header -> value.
//   - row: The 1-based data row index, stored on the transaction.
//   - line: The source line, used in errors.
//
// RETURNS:
//   - The typed transaction.
//   - A *ValidationError when the amount or date cannot be parsed.
func (c *Coercer) CoerceRow(fields map[string]string, row, line int) (types.Transaction, error) {
	tx := types.Transaction{
		Description: fields[c.columns.Description],
		Category:    fields[c.columns.Category],
		Row:         row,
	}

	rawAmount := fields[c.columns.Amount]
	amount, err := ParseAmount(rawAmount, c.decimalSeparator)
	if err != nil {
		return types.Transaction{}, &ValidationError{
			Field:   c.columns.Amount,
			Value:   rawAmount,
			Rule:    RuleAmount,
			Message: err.Error(),
			Line:    line,
		}
	}
	tx.Amount = amount

	// A blank date leaves the transaction undated; date queries skip it.
	if c.hasDate && strings.TrimSpace(fields[c.columns.Date]) != "" {
		rawDate := fields[c.columns.Date]
		date, err := c.parseDate(rawDate)
		if err != nil {
			return types.Transaction{}, &ValidationError{
				Field:   c.columns.Date,
				Value:   rawDate,
				Rule:    RuleDate,
				Message: err.Error(),
				Line:    line,
			}
		}
		tx.Date = date
	}

	return tx, nil
}

func (c *Coercer) parseDate(value string) (time.Time, error) {
	date, err := ParseDate(value, c.dateLayouts)
	if err == nil || !c.excelSerialDates {
		return date, err
	}

	serial, convErr := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if convErr != nil {
		return time.Time{}, err
	}

	t, convErr := excelize.ExcelDateToTime(serial, false)
	if convErr != nil {
		return time.Time{}, fmt.Errorf("invalid spreadsheet date: %w", convErr)
	}
	return truncateToDate(t), nil
}

// =============================================================================
// VALUE PARSERS
// =============================================================================

// Amounts with thousands separators must group digits in threes.
var (
	groupedDot   = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)
	groupedComma = regexp.MustCompile(`^[+-]?\d{1,3}(\.\d{3})+(,\d+)?$`)
)

// ParseAmount parses a signed decimal amount.
//
// ACCEPTED FORMS (decimalSeparator "."):
//   - "-1000", "-1000.50", "+3000", "1,234.56"
//   - "(12.50)" : accounting notation for -12.50
//
// With decimalSeparator "," the roles of "." and "," are swapped, so
// "-1.234,56" reads as -1234.56. A thousands separator outside a group of
// three digits ("-1,50" with ".") is an error, not a reinterpretation.
func ParseAmount(value, decimalSeparator string) (decimal.Decimal, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return decimal.Zero, errors.New("amount is empty")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, " ", "")

	group, grouped := ",", groupedDot
	if decimalSeparator == "," {
		group, grouped = ".", groupedComma
	}
	if strings.Contains(s, group) {
		if !grouped.MatchString(s) {
			return decimal.Zero, fmt.Errorf("'%s' is not a valid number", value)
		}
		s = strings.ReplaceAll(s, group, "")
	}
	if decimalSeparator == "," {
		s = strings.ReplaceAll(s, ",", ".")
	}
	s = strings.TrimPrefix(s, "+")

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("'%s' is not a valid number", value)
	}

	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

// ParseDate parses a date using the first matching layout. Any time component
// is dropped; the calendar date in the value's own zone is kept.
func ParseDate(value string, layouts []string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("date is empty")
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return truncateToDate(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("'%s' is not a valid date", value)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
