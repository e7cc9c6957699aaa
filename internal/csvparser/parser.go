// =============================================================================
// Finance Analyzer - CSV Parser Module
// =============================================================================
//
// This module reads transaction exports into header -> value rows. It does not
// interpret any value: amount and date coercion belong to the validation
// module.
//
// FEATURES:
//   - Configurable delimiter (comma, semicolon, pipe, tab)
//   - Leading rows before the header can be skipped (bank export banners)
//   - UTF-8 byte order mark on the header row is removed
//   - Empty rows are skipped
//   - Each row keeps its line number in the file for error reporting
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ginjaninja78/finance-analyzer/internal/config"
)

// ErrEmptyFile is returned when the source has no header row.
var ErrEmptyFile = errors.New("CSV file is empty")

// utf8BOM is stripped from the first header cell.
const utf8BOM = "\ufeff"

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents the parsed CSV file.
type CSVData struct {
	// Headers contains the column headers from the CSV file.
	Headers []string

	// Rows contains the data rows as maps of header -> value.
	Rows []map[string]string

	// LineNumbers holds, for each entry of Rows, its line in the source file.
	LineNumbers []int

	// SourceFile is the path to the source CSV file.
	SourceFile string
}

// HasColumn reports whether the header row contains the given column.
func (d *CSVData) HasColumn(header string) bool {
	for _, h := range d.Headers {
		if h == header {
			return true
		}
	}
	return false
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed data.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The CSV parsing settings from the configuration.
//
// RETURNS:
//   - A pointer to the CSVData struct containing the parsed data.
//   - An error if the file cannot be read or parsed.
func Parse(filePath string, settings config.CSVSettings) (*CSVData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := ParseReader(bufio.NewReader(file), settings)
	if err != nil {
		return nil, err
	}

	data.SourceFile = filePath
	return data, nil
}

// ParseReader parses CSV content from any reader.
func ParseReader(r io.Reader, settings config.CSVSettings) (*CSVData, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	// Skip banner rows before the header.
	for i := 0; i < settings.SkipRows; i++ {
		if _, err := csvReader.Read(); err != nil {
			if err == io.EOF {
				return nil, ErrEmptyFile
			}
			return nil, fmt.Errorf("failed to skip row %d: %w", i+1, err)
		}
	}

	headerRow, err := readNonEmpty(csvReader)
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	headers := cleanHeaders(headerRow)
	if dup := firstDuplicate(headers); dup != "" {
		return nil, fmt.Errorf("duplicate column '%s' in header", dup)
	}

	data := &CSVData{
		Headers:     headers,
		Rows:        []map[string]string{},
		LineNumbers: []int{},
	}

	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		if isRowEmpty(row) {
			continue
		}

		line, _ := csvReader.FieldPos(0)
		data.Rows = append(data.Rows, toMap(headers, row))
		data.LineNumbers = append(data.LineNumbers, line)
	}

	return data, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	reader.Comma = Delimiter(settings.Delimiter)

	// Allow variable number of fields per row; short rows read as empty values.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	// Trim leading space from fields. A whitespace delimiter would be eaten too.
	reader.TrimLeadingSpace = !unicode.IsSpace(reader.Comma)
}

// Delimiter resolves a configured delimiter name to the rune used by the reader.
func Delimiter(name string) rune {
	switch name {
	case "\\t", "\t", "tab", "TAB":
		return '\t'
	case "|", "pipe", "PIPE":
		return '|'
	case ";", "semicolon":
		return ';'
	case "", "comma":
		return ','
	default:
		r, _ := utf8.DecodeRuneInString(name)
		return r
	}
}

// readNonEmpty returns the next row that has at least one non-blank cell.
func readNonEmpty(reader *csv.Reader) ([]string, error) {
	for {
		row, err := reader.Read()
		if err != nil {
			return nil, err
		}
		if !isRowEmpty(row) {
			return row, nil
		}
	}
}

// cleanHeaders trims header values, drops the BOM and names empty headers
// after their position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, utf8BOM)
		}
		header = strings.TrimSpace(header)

		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}

		cleaned[i] = header
	}

	return cleaned
}

func firstDuplicate(headers []string) string {
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if seen[h] {
			return h
		}
		seen[h] = true
	}
	return ""
}

// toMap converts a row into header -> trimmed value. Missing trailing cells
// read as empty strings.
func toMap(headers, row []string) map[string]string {
	rowMap := make(map[string]string, len(headers))

	for colIndex, header := range headers {
		if colIndex < len(row) {
			rowMap[header] = strings.TrimSpace(row[colIndex])
		} else {
			rowMap[header] = ""
		}
	}

	return rowMap
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
