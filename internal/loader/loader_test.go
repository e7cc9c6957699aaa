package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/finance-analyzer/internal/config"
	"github.com/ginjaninja78/finance-analyzer/internal/validation"
)

const sampleCSV = `data,descricao,valor,categoria
2024-01-05,rent,-1000,housing
2024-01-10,salary,3000,income
2024-01-15,coffee,-5,food
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "tx.csv", sampleCSV)

	table, err := New(nil, nil).Load(path)
	require.NoError(t, err)

	require.Equal(t, 3, table.Len())
	assert.True(t, table.HasDate)
	assert.Equal(t, path, table.Source)

	rent := table.Transactions[0]
	assert.Equal(t, "rent", rent.Description)
	assert.Equal(t, "housing", rent.Category)
	assert.True(t, decimal.NewFromInt(-1000).Equal(rent.Amount))
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), rent.Date)
	assert.Equal(t, 1, rent.Row)
	assert.Equal(t, 3, table.Transactions[2].Row)
}

func TestLoad_HeaderOnlyIsEmptyNotError(t *testing.T) {
	path := writeFile(t, "tx.csv", "data,descricao,valor,categoria\n")

	table, err := New(nil, nil).Load(path)
	require.NoError(t, err)
	assert.True(t, table.IsEmpty())
}

func TestLoad_NoDateColumn(t *testing.T) {
	path := writeFile(t, "tx.csv", "descricao,valor,categoria\nrent,-1000,housing\n")

	table, err := New(nil, nil).Load(path)
	require.NoError(t, err)
	assert.False(t, table.HasDate)
	assert.True(t, table.Transactions[0].Date.IsZero())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := New(nil, nil).Load(filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_MissingRequiredColumn(t *testing.T) {
	path := writeFile(t, "tx.csv", "data,descricao,categoria\n2024-01-05,rent,housing\n")

	_, err := New(nil, nil).Load(path)
	assert.True(t, validation.IsRule(err, validation.RuleRequiredColumn))
}

func TestLoad_BadAmountFailsLoad(t *testing.T) {
	path := writeFile(t, "tx.csv", "data,descricao,valor,categoria\n2024-01-05,rent,-1000,housing\n2024-01-06,x,abc,y\n")

	_, err := New(nil, nil).Load(path)
	require.Error(t, err)
	assert.True(t, validation.IsRule(err, validation.RuleAmount))
	assert.Contains(t, err.Error(), "Line 3")
}

func TestLoad_CommaDecimalUnderDefaultConfigFails(t *testing.T) {
	path := writeFile(t, "tx.csv", "data,descricao,valor,categoria\n2024-01-05,cafe,\"-1,50\",food\n")

	table, err := New(nil, nil).Load(path)
	require.Error(t, err)
	assert.Nil(t, table)
	assert.True(t, validation.IsRule(err, validation.RuleAmount))
	assert.Contains(t, err.Error(), "-1,50")
}

func TestLoad_SomeBadDatesFailLoad(t *testing.T) {
	path := writeFile(t, "tx.csv", "data,descricao,valor,categoria\n2024-01-05,rent,-1000,housing\nnot-a-date,x,-1,y\n")

	_, err := New(nil, nil).Load(path)
	require.Error(t, err)
	assert.True(t, validation.IsRule(err, validation.RuleDate))
	assert.NotContains(t, err.Error(), "no row has a valid")
}

func TestLoad_BlankDatesAreUndated(t *testing.T) {
	path := writeFile(t, "tx.csv", "data,descricao,valor,categoria\n2024-01-05,rent,-1000,housing\n,cash,-20,misc\n")

	table, err := New(nil, nil).Load(path)
	require.NoError(t, err)
	require.Len(t, table.Transactions, 2)
	assert.True(t, table.HasDate)
	assert.True(t, table.Transactions[1].Date.IsZero())
}

func TestLoad_AllBadDates(t *testing.T) {
	path := writeFile(t, "tx.csv", "data,descricao,valor,categoria\nsoon,rent,-1000,housing\nlater,x,-1,y\n")

	_, err := New(nil, nil).Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no row has a valid 'data' value")
	assert.True(t, validation.IsRule(err, validation.RuleDate))
}

func TestLoad_CustomConfig(t *testing.T) {
	cfg := config.Default()
	cfg.CSVSettings.Delimiter = ";"
	cfg.DecimalSeparator = ","
	cfg.Columns = config.Columns{Date: "date", Description: "memo", Amount: "amount", Category: "category"}
	cfg.TransformationRules = []config.TransformationRule{
		{Field: "category", Actions: []config.TransformationAction{
			{Type: "trim"},
			{Type: "lookup", LookupTable: map[string]string{"mercado": "food"}},
		}},
		{Field: "memo", Actions: []config.TransformationAction{{Type: "default", Value: "(sem descrição)"}}},
	}

	path := writeFile(t, "tx.csv", "date;memo;amount;category\n05/01/2024;;-1.234,50; Mercado \n")

	table, err := New(cfg, nil).Load(path)
	require.NoError(t, err)

	tx := table.Transactions[0]
	assert.Equal(t, "food", tx.Category)
	assert.Equal(t, "(sem descrição)", tx.Description)
	assert.True(t, decimal.RequireFromString("-1234.50").Equal(tx.Amount))
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), tx.Date)
}

func TestLoad_UnknownTransformation(t *testing.T) {
	cfg := config.Default()
	cfg.TransformationRules = []config.TransformationRule{
		{Field: "categoria", Actions: []config.TransformationAction{{Type: "reverse"}}},
	}
	path := writeFile(t, "tx.csv", sampleCSV)

	_, err := New(cfg, nil).Load(path)
	assert.ErrorContains(t, err, "unknown transformation type 'reverse'")
}

func TestLoad_XLSX(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"data", "descricao", "valor", "categoria"},
		{"2024-01-05", "rent", -1000, "housing"},
		{"2024-02-01", "coffee", -5.25, "food"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	// Real date cell: stored as a serial number.
	require.NoError(t, f.SetCellValue("Sheet1", "A3", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))

	path := filepath.Join(t.TempDir(), "tx.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := New(nil, nil).Load(path)
	require.NoError(t, err)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), table.Transactions[1].Date)
	assert.True(t, decimal.RequireFromString("-5.25").Equal(table.Transactions[1].Amount))
}
