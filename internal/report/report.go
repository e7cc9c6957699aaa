// =============================================================================
// Finance Analyzer - Report Module
// =============================================================================
//
// This module turns analyzer results into a Summary, the single value every
// output (text, YAML, XML, XLSX) is rendered from.
//
// SUMMARY CONTENTS:
//   - Source, transaction count, date range
//   - Total expenses and total income
//   - Category count and the largest categories
//   - The largest individual expenses
//   - Expenses per month
//
// =============================================================================

package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/finance-analyzer/internal/config"
	"github.com/ginjaninja78/finance-analyzer/internal/types"
)

// =============================================================================
// OPTIONS
// =============================================================================

const (
	// DefaultTopCategories is the number of categories listed by default.
	DefaultTopCategories = 5

	// DefaultTopExpenses is the number of expenses listed by default.
	DefaultTopExpenses = 5

	// DefaultCurrency prefixes amounts when no symbol is configured.
	DefaultCurrency = "R$"
)

// Options controls what goes into a Summary.
type Options struct {
	// TopCategories is the number of categories kept. Values <= 0 use
	// DefaultTopCategories.
	TopCategories int

	// TopExpenses is the number of expenses kept. Values <= 0 use
	// DefaultTopExpenses.
	TopExpenses int

	// Currency prefixes amounts in the text report.
	Currency string
}

// OptionsFromConfig builds Options from the report settings.
func OptionsFromConfig(settings config.ReportSettings) Options {
	return Options{
		TopCategories: settings.TopCategories,
		TopExpenses:   settings.TopN,
		Currency:      settings.CurrencySymbol,
	}
}

func (o Options) normalized() Options {
	if o.TopCategories <= 0 {
		o.TopCategories = DefaultTopCategories
	}
	if o.TopExpenses <= 0 {
		o.TopExpenses = DefaultTopExpenses
	}
	if o.Currency == "" {
		o.Currency = DefaultCurrency
	}
	return o
}

// =============================================================================
// SUMMARY
// =============================================================================

// Source is the analyzer surface a Summary is built from.
type Source interface {
	Source() string
	Table() []types.Transaction
	TotalExpenses() decimal.Decimal
	TotalIncome() decimal.Decimal
	ExpensesByCategory() []types.CategoryTotal
	DateRange() string
	MonthlyTrend() []types.MonthTotal
	TopExpenses(n int) []types.Transaction
}

// Summary is a snapshot of the analysis of one source.
type Summary struct {
	Source        string
	GeneratedAt   time.Time
	Currency      string
	Transactions  int
	TotalExpenses decimal.Decimal
	TotalIncome   decimal.Decimal
	DateRange     string

	// CategoryCount counts every category with expenses, not only the
	// ones kept in TopCategories.
	CategoryCount int
	TopCategories []types.CategoryTotal
	TopExpenses   []types.Transaction
	MonthlyTrend  []types.MonthTotal
}

// Build queries src and assembles a Summary.
//
// PARAMETERS:
//   - src: A loaded analyzer.
//   - opts: Limits and currency. Zero values use the defaults.
//
// RETURNS:
//   - The summary. Build never fails; an unloaded or empty source yields
//     zero totals, empty lists and the unavailable date range.
func Build(src Source, opts Options) *Summary {
	opts = opts.normalized()

	categories := src.ExpensesByCategory()
	top := categories
	if len(top) > opts.TopCategories {
		top = top[:opts.TopCategories]
	}

	return &Summary{
		Source:        src.Source(),
		GeneratedAt:   time.Now().UTC(),
		Currency:      opts.Currency,
		Transactions:  len(src.Table()),
		TotalExpenses: src.TotalExpenses(),
		TotalIncome:   src.TotalIncome(),
		DateRange:     src.DateRange(),
		CategoryCount: len(categories),
		TopCategories: top,
		TopExpenses:   src.TopExpenses(opts.TopExpenses),
		MonthlyTrend:  src.MonthlyTrend(),
	}
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// displayDate is the layout used for transaction dates in every output.
const displayDate = "02/01/2006"

// formatAmount renders d with two decimal places.
func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatDate renders t as dd/mm/yyyy, or "" when the source has no dates.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(displayDate)
}
