// =============================================================================
// Finance Analyzer - Report Export
// =============================================================================
//
// Export writes a Summary to a file whose format follows the extension:
//
//   .yaml / .yml  - Document marshalled with gopkg.in/yaml.v3
//   .xml          - element tree rendered by internal/xmlwriter
//   .xlsx         - workbook with one sheet per section (excelize)
//
// Amounts are written as fixed two-decimal strings in YAML and XML so the
// exported values match the console report exactly.
//
// =============================================================================

package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/finance-analyzer/internal/xmlwriter"
)

// ErrUnsupportedFormat is returned by Export for unknown extensions.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// =============================================================================
// EXPORT DISPATCH
// =============================================================================

// Export writes s to path in the format implied by its extension.
//
// PARAMETERS:
//   - path: The destination file. Its directory must exist.
//   - s: The summary to write.
//
// RETURNS:
//   - ErrUnsupportedFormat (wrapped) for an unknown extension.
//   - An error if rendering or writing fails.
func Export(path string, s *Summary) error {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		data []byte
		err  error
	)
	switch ext {
	case ".yaml", ".yml":
		data, err = MarshalYAML(s)
	case ".xml":
		data, err = MarshalXML(s)
	case ".xlsx":
		return writeWorkbook(path, s)
	default:
		return fmt.Errorf("%w '%s'", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// YAML
// =============================================================================

// Document is the serialized form of a Summary.
type Document struct {
	Source        string         `yaml:"source"`
	GeneratedAt   string         `yaml:"generated_at"`
	Currency      string         `yaml:"currency"`
	Transactions  int            `yaml:"transactions"`
	TotalExpenses string         `yaml:"total_expenses"`
	TotalIncome   string         `yaml:"total_income"`
	DateRange     string         `yaml:"date_range"`
	CategoryCount int            `yaml:"category_count"`
	TopCategories []CategoryLine `yaml:"top_categories"`
	TopExpenses   []ExpenseLine  `yaml:"top_expenses"`
	MonthlyTrend  []MonthLine    `yaml:"monthly_trend"`
}

// CategoryLine is one entry of Document.TopCategories.
type CategoryLine struct {
	Category string `yaml:"category"`
	Total    string `yaml:"total"`
}

// ExpenseLine is one entry of Document.TopExpenses. Date is empty when the
// source has no date column.
type ExpenseLine struct {
	Date        string `yaml:"date,omitempty"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Amount      string `yaml:"amount"`
}

// MonthLine is one entry of Document.MonthlyTrend.
type MonthLine struct {
	Month string `yaml:"month"`
	Total string `yaml:"total"`
}

// NewDocument converts s to its serialized form.
func NewDocument(s *Summary) Document {
	doc := Document{
		Source:        s.Source,
		GeneratedAt:   s.GeneratedAt.Format(time.RFC3339),
		Currency:      s.Currency,
		Transactions:  s.Transactions,
		TotalExpenses: formatAmount(s.TotalExpenses),
		TotalIncome:   formatAmount(s.TotalIncome),
		DateRange:     s.DateRange,
		CategoryCount: s.CategoryCount,
		TopCategories: make([]CategoryLine, 0, len(s.TopCategories)),
		TopExpenses:   make([]ExpenseLine, 0, len(s.TopExpenses)),
		MonthlyTrend:  make([]MonthLine, 0, len(s.MonthlyTrend)),
	}

	for _, c := range s.TopCategories {
		doc.TopCategories = append(doc.TopCategories, CategoryLine{
			Category: c.Category,
			Total:    formatAmount(c.Total),
		})
	}
	for _, tx := range s.TopExpenses {
		doc.TopExpenses = append(doc.TopExpenses, ExpenseLine{
			Date:        formatDate(tx.Date),
			Description: tx.Description,
			Category:    tx.Category,
			Amount:      formatAmount(tx.Amount),
		})
	}
	for _, m := range s.MonthlyTrend {
		doc.MonthlyTrend = append(doc.MonthlyTrend, MonthLine{
			Month: m.Month.String(),
			Total: formatAmount(m.Total),
		})
	}

	return doc
}

// MarshalYAML renders s as YAML.
func MarshalYAML(s *Summary) ([]byte, error) {
	var buffer bytes.Buffer

	enc := yaml.NewEncoder(&buffer)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(s)); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}

	return buffer.Bytes(), nil
}

// =============================================================================
// XML
// =============================================================================

// MarshalXML renders s as an XML document.
func MarshalXML(s *Summary) ([]byte, error) {
	root := xmlwriter.Element{Name: "summary"}.
		WithAttr("source", s.Source).
		WithAttr("generatedAt", s.GeneratedAt.Format(time.RFC3339))

	root.Add(
		xmlwriter.NewElement("currency", s.Currency),
		xmlwriter.NewElement("transactions", strconv.Itoa(s.Transactions)),
		xmlwriter.NewElement("totalExpenses", formatAmount(s.TotalExpenses)),
		xmlwriter.NewElement("totalIncome", formatAmount(s.TotalIncome)),
		xmlwriter.NewElement("dateRange", s.DateRange),
	)

	categories := xmlwriter.Element{Name: "categories"}.
		WithAttr("count", strconv.Itoa(s.CategoryCount))
	for i, c := range s.TopCategories {
		categories.Add(xmlwriter.NewElement("category", formatAmount(c.Total)).
			WithAttr("n", strconv.Itoa(i+1)).
			WithAttr("name", c.Category))
	}

	expenses := xmlwriter.Element{Name: "topExpenses"}
	for i, tx := range s.TopExpenses {
		expense := xmlwriter.Element{Name: "expense"}.WithAttr("n", strconv.Itoa(i+1))
		if date := formatDate(tx.Date); date != "" {
			expense = expense.WithAttr("date", date)
		}
		expense.Add(
			xmlwriter.NewElement("description", tx.Description),
			xmlwriter.NewElement("category", tx.Category),
			xmlwriter.NewElement("amount", formatAmount(tx.Amount)),
		)
		expenses.Add(expense)
	}

	months := xmlwriter.Element{Name: "monthlyTrend"}
	for _, m := range s.MonthlyTrend {
		months.Add(xmlwriter.NewElement("month", formatAmount(m.Total)).
			WithAttr("period", m.Month.String()))
	}

	root.Add(categories, expenses, months)

	return xmlwriter.Generate(root)
}

// =============================================================================
// XLSX
// =============================================================================

// Sheet names used by the workbook export.
const (
	SheetSummary    = "Summary"
	SheetCategories = "Categories"
	SheetExpenses   = "Top Expenses"
	SheetMonths     = "Monthly Trend"
)

// amountFormat is the built-in "#,##0.00" number format.
const amountFormat = 4

// writeWorkbook writes s as an .xlsx workbook.
func writeWorkbook(path string, s *Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: amountFormat})
	if err != nil {
		return fmt.Errorf("failed to create workbook style: %w", err)
	}

	summaryRows := [][]interface{}{
		{"Source", s.Source},
		{"Generated at", s.GeneratedAt.Format(time.RFC3339)},
		{"Currency", s.Currency},
		{"Transactions", s.Transactions},
		{"Total expenses", s.TotalExpenses.InexactFloat64()},
		{"Total income", s.TotalIncome.InexactFloat64()},
		{"Date range", s.DateRange},
		{"Categories", s.CategoryCount},
	}
	if err := writeSheet(f, SheetSummary, nil, summaryRows); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "B5", "B6", amountStyle); err != nil {
		return fmt.Errorf("failed to style sheet %s: %w", SheetSummary, err)
	}

	categoryRows := make([][]interface{}, 0, len(s.TopCategories))
	for _, c := range s.TopCategories {
		categoryRows = append(categoryRows, []interface{}{c.Category, c.Total.InexactFloat64()})
	}
	if err := writeTable(f, SheetCategories, []interface{}{"Category", "Total"}, categoryRows, "B", amountStyle); err != nil {
		return err
	}

	expenseRows := make([][]interface{}, 0, len(s.TopExpenses))
	for _, tx := range s.TopExpenses {
		expenseRows = append(expenseRows, []interface{}{
			formatDate(tx.Date), tx.Description, tx.Category, tx.Amount.InexactFloat64(),
		})
	}
	if err := writeTable(f, SheetExpenses, []interface{}{"Date", "Description", "Category", "Amount"}, expenseRows, "D", amountStyle); err != nil {
		return err
	}

	monthRows := make([][]interface{}, 0, len(s.MonthlyTrend))
	for _, m := range s.MonthlyTrend {
		monthRows = append(monthRows, []interface{}{m.Month.String(), m.Total.InexactFloat64()})
	}
	if err := writeTable(f, SheetMonths, []interface{}{"Month", "Total"}, monthRows, "B", amountStyle); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// writeTable adds a sheet with a header row and styles the amount column.
func writeTable(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}, amountCol string, style int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	if err := writeSheet(f, sheet, header, rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	first := amountCol + "2"
	last := amountCol + strconv.Itoa(len(rows)+1)
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return fmt.Errorf("failed to style sheet %s: %w", sheet, err)
	}
	return nil
}

// writeSheet writes an optional header followed by rows, starting at A1.
func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if header != nil {
		rows = append([][]interface{}{header}, rows...)
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", sheet, err)
		}
	}
	return nil
}
