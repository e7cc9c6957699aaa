// =============================================================================
// Finance Analyzer - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - loader
//   - analyzer
//   - report
//
// =============================================================================

package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TRANSACTION TYPES
// =============================================================================

// Transaction represents a single row of the source file.
type Transaction struct {
	// Date is the calendar date of the transaction (time component dropped).
	// Zero when the source has no date column.
	Date time.Time

	// Description is the free-text label of the transaction.
	Description string

	// Amount is the signed value. Negative amounts are expenses,
	// zero or positive amounts are income/credits.
	Amount decimal.Decimal

	// Category is the grouping label.
	Category string

	// Row is the 1-based position of the row among the data rows of the source.
	// Used for error reporting and as the tie-break between equal amounts.
	Row int
}

// IsExpense reports whether the transaction is an expense (amount < 0).
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// Table is an ordered sequence of transactions in source row order.
// An empty table is a valid state.
type Table struct {
	// Transactions holds the rows in file order.
	Transactions []Transaction

	// HasDate is true when the source carried the date column.
	HasDate bool

	// Source is the path the table was loaded from.
	Source string
}

// Len returns the number of rows, treating a nil table as empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Transactions)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// =============================================================================
// AGGREGATE TYPES
// =============================================================================

// CategoryTotal is the absolute expense total of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// Month is a year+month bucket.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the bucket a date falls in.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Before reports whether m is chronologically earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// String formats the bucket as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MonthTotal is the absolute expense total of one month bucket.
type MonthTotal struct {
	Month Month
	Total decimal.Decimal
}
