package report

import (
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/shopspring/decimal"
)

// WriteText renders s as the console report.
//
// OUTPUT:
//   === Financial Summary ===
//   Source:          extrato.csv
//   Transactions:    3
//   Date range:      05/01/2024 a 15/01/2024
//   Total expenses:  R$ 1005.00
//   ...
func WriteText(w io.Writer, s *Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	money := func(d decimal.Decimal) string {
		return s.Currency + " " + formatAmount(d)
	}

	fmt.Fprintln(tw, "=== Financial Summary ===")
	fmt.Fprintf(tw, "Source:\t%s\n", filepath.Base(s.Source))
	fmt.Fprintf(tw, "Transactions:\t%d\n", s.Transactions)
	fmt.Fprintf(tw, "Date range:\t%s\n", s.DateRange)
	fmt.Fprintf(tw, "Total expenses:\t%s\n", money(s.TotalExpenses))
	fmt.Fprintf(tw, "Total income:\t%s\n", money(s.TotalIncome))
	fmt.Fprintf(tw, "Categories:\t%d\n", s.CategoryCount)

	fmt.Fprintf(tw, "\n=== Top %d Categories ===\n", len(s.TopCategories))
	if len(s.TopCategories) == 0 {
		fmt.Fprintln(tw, "  (none)")
	}
	for i, c := range s.TopCategories {
		fmt.Fprintf(tw, "  %d.\t%s\t%s\n", i+1, c.Category, money(c.Total))
	}

	fmt.Fprintf(tw, "\n=== Top %d Expenses ===\n", len(s.TopExpenses))
	if len(s.TopExpenses) == 0 {
		fmt.Fprintln(tw, "  (none)")
	}
	for i, tx := range s.TopExpenses {
		date := formatDate(tx.Date)
		if date == "" {
			date = "-"
		}
		fmt.Fprintf(tw, "  %d.\t%s\t%s\t%s\t%s\n", i+1, date, tx.Description, money(tx.Amount), tx.Category)
	}

	if len(s.MonthlyTrend) > 0 {
		fmt.Fprintln(tw, "\n=== Monthly Trend ===")
		for _, m := range s.MonthlyTrend {
			fmt.Fprintf(tw, "  %s\t%s\n", m.Month, money(m.Total))
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
