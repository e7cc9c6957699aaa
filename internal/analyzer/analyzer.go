// =============================================================================
// Finance Analyzer - Transaction Analyzer
// =============================================================================
//
// The analyzer holds one loaded transaction table and exposes read-only
// views over it. It is loaded once and queried any number of times.
//
// CONVENTIONS:
//   - Expenses are rows with amount < 0, reported as positive magnitudes
//   - Queries never fail: without data they return zero, empty or the
//     DateRangeUnavailable sentinel
//   - Queries never modify the stored table, so they are safe to call
//     concurrently once Load has returned
//
// =============================================================================

package analyzer

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/finance-analyzer/internal/loader"
	"github.com/ginjaninja78/finance-analyzer/internal/logging"
	"github.com/ginjaninja78/finance-analyzer/internal/types"
)

const (
	// DefaultTopN is used by TopExpenses when n is not positive.
	DefaultTopN = 10

	// DateRangeUnavailable is returned by DateRange when there is no data or
	// no date column.
	DateRangeUnavailable = "Não disponível"

	// DisplayDateLayout is the dd/mm/yyyy layout used by DateRange.
	DisplayDateLayout = "02/01/2006"
)

// Loader reads a table from a source.
type Loader interface {
	Load(path string) (*types.Table, error)
}

// Analyzer computes expense analytics over a single source.
type Analyzer struct {
	source string
	loader Loader
	log    logrus.FieldLogger

	table  *types.Table
	loaded bool
	err    error
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLoader sets the loader used by Load.
func WithLoader(l Loader) Option {
	return func(a *Analyzer) {
		a.loader = l
	}
}

// WithLogger sets the logger used to report load failures.
func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Analyzer) {
		a.log = log
	}
}

// New creates an analyzer for source. Nothing is read until Load is called.
func New(source string, opts ...Option) *Analyzer {
	a := &Analyzer{source: source}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logging.Discard()
	}
	if a.loader == nil {
		a.loader = loader.New(nil, a.log)
	}
	return a
}

// Source returns the path given at construction.
func (a *Analyzer) Source() string {
	return a.source
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the source and stores the result. On failure the error is
// logged and an empty table is stored and returned; Loaded and Err tell a
// failed load apart from a source that simply has no rows.
func (a *Analyzer) Load() *types.Table {
	table, err := a.loader.Load(a.source)
	if err != nil {
		a.log.WithError(err).WithField("source", a.source).Error("Analyzer.Load.Error")
		a.table = &types.Table{Transactions: []types.Transaction{}, Source: a.source}
		a.loaded = false
		a.err = err
		return a.table
	}

	if table == nil {
		table = &types.Table{Transactions: []types.Transaction{}, Source: a.source}
	}

	a.table = table
	a.loaded = true
	a.err = nil
	return table
}

// Loaded reports whether the last Load succeeded.
func (a *Analyzer) Loaded() bool {
	return a.loaded
}

// Err returns the error of the last Load, or nil.
func (a *Analyzer) Err() error {
	return a.err
}

// Table returns a copy of the loaded rows.
func (a *Analyzer) Table() []types.Transaction {
	if a.table.IsEmpty() {
		return []types.Transaction{}
	}
	out := make([]types.Transaction, len(a.table.Transactions))
	copy(out, a.table.Transactions)
	return out
}

// =============================================================================
// QUERIES
// =============================================================================

// TotalExpenses returns the magnitude of the sum of all negative amounts.
func (a *Analyzer) TotalExpenses() decimal.Decimal {
	total := decimal.Zero
	for _, tx := range a.expenses() {
		total = total.Add(tx.Amount)
	}
	return total.Abs()
}

// TotalIncome returns the sum of all non-negative amounts.
func (a *Analyzer) TotalIncome() decimal.Decimal {
	total := decimal.Zero
	if a.table.IsEmpty() {
		return total
	}
	for _, tx := range a.table.Transactions {
		if !tx.IsExpense() {
			total = total.Add(tx.Amount)
		}
	}
	return total
}

// ExpensesByCategory returns per-category expense magnitudes, largest first.
// Categories with equal totals keep the order in which they first appear.
func (a *Analyzer) ExpensesByCategory() []types.CategoryTotal {
	index := make(map[string]int)
	totals := []types.CategoryTotal{}

	for _, tx := range a.expenses() {
		i, ok := index[tx.Category]
		if !ok {
			i = len(totals)
			index[tx.Category] = i
			totals = append(totals, types.CategoryTotal{Category: tx.Category, Total: decimal.Zero})
		}
		totals[i].Total = totals[i].Total.Add(tx.Amount)
	}

	for i := range totals {
		totals[i].Total = totals[i].Total.Abs()
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total.GreaterThan(totals[j].Total)
	})

	return totals
}

// Period returns the earliest and latest transaction dates. Undated rows are
// ignored. ok is false when there is no data, no date column or no dated row.
func (a *Analyzer) Period() (start, end time.Time, ok bool) {
	if a.table.IsEmpty() || !a.table.HasDate {
		return time.Time{}, time.Time{}, false
	}

	for _, tx := range a.table.Transactions {
		if tx.Date.IsZero() {
			continue
		}
		if !ok || tx.Date.Before(start) {
			start = tx.Date
		}
		if !ok || tx.Date.After(end) {
			end = tx.Date
		}
		ok = true
	}
	return start, end, ok
}

// DateRange formats Period as "dd/mm/yyyy a dd/mm/yyyy", or returns
// DateRangeUnavailable.
func (a *Analyzer) DateRange() string {
	start, end, ok := a.Period()
	if !ok {
		return DateRangeUnavailable
	}
	return start.Format(DisplayDateLayout) + " a " + end.Format(DisplayDateLayout)
}

// MonthlyTrend returns expense magnitudes per year-month, oldest first.
// Undated rows are left out. Buckets are derived on the fly; the stored
// table is left untouched.
func (a *Analyzer) MonthlyTrend() []types.MonthTotal {
	if a.table.IsEmpty() || !a.table.HasDate {
		return []types.MonthTotal{}
	}

	sums := make(map[types.Month]decimal.Decimal)
	for _, tx := range a.expenses() {
		if tx.Date.IsZero() {
			continue
		}
		m := types.MonthOf(tx.Date)
		sums[m] = sums[m].Add(tx.Amount)
	}

	trend := make([]types.MonthTotal, 0, len(sums))
	for m, sum := range sums {
		trend = append(trend, types.MonthTotal{Month: m, Total: sum.Abs()})
	}

	sort.Slice(trend, func(i, j int) bool {
		return trend[i].Month.Before(trend[j].Month)
	})

	return trend
}

// TopExpenses returns the n largest expenses with positive amounts, largest
// first. Equal amounts keep source row order. n <= 0 means DefaultTopN.
func (a *Analyzer) TopExpenses(n int) []types.Transaction {
	if n <= 0 {
		n = DefaultTopN
	}

	expenses := a.expenses()
	top := make([]types.Transaction, len(expenses))
	for i, tx := range expenses {
		tx.Amount = tx.Amount.Abs()
		top[i] = tx
	}

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Amount.GreaterThan(top[j].Amount)
	})

	if n < len(top) {
		top = top[:n]
	}
	return top
}

// expenses returns the rows with a negative amount, in source order.
// The returned slice is freshly allocated.
func (a *Analyzer) expenses() []types.Transaction {
	out := []types.Transaction{}
	if a.table.IsEmpty() {
		return out
	}
	for _, tx := range a.table.Transactions {
		if tx.IsExpense() {
			out = append(out, tx)
		}
	}
	return out
}
