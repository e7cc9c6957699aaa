// =============================================================================
// Finance Analyzer - XLSX Parser
// =============================================================================
//
// This module reads transaction exports saved as Excel workbooks. The sheet
// is read the same way the CSV parser reads a file: one header row, then one
// transaction per row. The result reuses csvparser.CSVData so the loader does
// not care which format the source was in.
//
// SHEET SELECTION:
//   - CSVSettings.Sheet when set
//   - otherwise the first sheet of the workbook
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/finance-analyzer/internal/config"
	"github.com/ginjaninja78/finance-analyzer/internal/csvparser"
)

// Parse reads an XLSX workbook and returns its rows.
//
// PARAMETERS:
//   - filePath: The path to the workbook.
//   - settings: Sheet name and number of rows to skip before the header.
//
// RETURNS:
//   - The parsed rows, keyed by header.
//   - An error if the workbook cannot be opened or the sheet is missing.
func Parse(filePath string, settings config.CSVSettings) (*csvparser.CSVData, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := settings.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx == -1 {
		return nil, fmt.Errorf("sheet '%s' not found", sheetName)
	}

	// Raw values keep amounts free of display formatting; date cells come
	// back as serial numbers and are resolved during coercion.
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	data, err := fromRows(rows, settings.SkipRows)
	if err != nil {
		return nil, err
	}

	data.SourceFile = filePath
	return data, nil
}

// fromRows turns raw sheet rows into header -> value rows. Line numbers are
// 1-based sheet row numbers.
func fromRows(rows [][]string, skipRows int) (*csvparser.CSVData, error) {
	headerIndex := -1
	for i := skipRows; i < len(rows); i++ {
		if !isRowEmpty(rows[i]) {
			headerIndex = i
			break
		}
	}
	if headerIndex == -1 {
		return nil, csvparser.ErrEmptyFile
	}

	headers := make([]string, len(rows[headerIndex]))
	seen := make(map[string]bool, len(headers))
	for i, h := range rows[headerIndex] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		if seen[h] {
			return nil, fmt.Errorf("duplicate column '%s' in header", h)
		}
		seen[h] = true
		headers[i] = h
	}

	data := &csvparser.CSVData{
		Headers:     headers,
		Rows:        []map[string]string{},
		LineNumbers: []int{},
	}

	for i := headerIndex + 1; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		rowMap := make(map[string]string, len(headers))
		for col, header := range headers {
			if col < len(row) {
				rowMap[header] = strings.TrimSpace(row[col])
			} else {
				rowMap[header] = ""
			}
		}

		data.Rows = append(data.Rows, rowMap)
		data.LineNumbers = append(data.LineNumbers, i+1)
	}

	return data, nil
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
