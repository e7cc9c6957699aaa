package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/finance-analyzer/internal/config"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		value string
		sep   string
		want  string
	}{
		{"-1000", ".", "-1000"},
		{"3000", ".", "3000"},
		{"+3000", ".", "3000"},
		{" -5.25 ", ".", "-5.25"},
		{"1,234.56", ".", "1234.56"},
		{"(12.50)", ".", "-12.5"},
		{"-1.234,56", ",", "-1234.56"},
		{"-5,5", ",", "-5.5"},
		{"1.234.567", ",", "1234567"},
		{"12,345,678.9", ".", "12345678.9"},
		{"-1 234,50", ",", "-1234.5"},
		{"0", ".", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseAmount(tt.value, tt.sep)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, value := range []string{"", "  ", "abc", "12abc", "-", "1,5", "-1,50", "2,5,0", "1234,567", "1,234,56.7", "1.2.3"} {
		_, err := ParseAmount(value, ".")
		assert.Error(t, err, value)
	}

	for _, value := range []string{"1.5", "-1.50", "2.5.0", "1.234.56,7", "1,2,3"} {
		_, err := ParseAmount(value, ",")
		assert.Error(t, err, value)
	}
}

func TestCoerceRow_MisgroupedAmount(t *testing.T) {
	c := NewCoercer(config.Default(), true, false)

	_, err := c.CoerceRow(map[string]string{"data": "2024-01-05", "descricao": "cafe", "valor": "-1,50", "categoria": "food"}, 1, 2)
	assert.True(t, IsRule(err, RuleAmount))
}

func TestParseDate(t *testing.T) {
	layouts := config.DefaultDateLayouts()
	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	for _, value := range []string{
		"2024-01-05",
		"2024-01-05 13:45:00",
		"2024-01-05T13:45:00",
		"2024-01-05T23:45:00-03:00",
		"05/01/2024",
		"2024/01/05",
		"20240105",
	} {
		got, err := ParseDate(value, layouts)
		require.NoError(t, err, value)
		assert.True(t, want.Equal(got), "%s parsed as %s", value, got)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("", config.DefaultDateLayouts())
	assert.ErrorContains(t, err, "empty")

	_, err = ParseDate("31/02/2024", config.DefaultDateLayouts())
	assert.ErrorContains(t, err, "not a valid date")
}

func TestRequireColumns(t *testing.T) {
	cols := config.Default().Columns

	assert.NoError(t, RequireColumns([]string{"descricao", "valor", "categoria"}, cols))
	assert.NoError(t, RequireColumns([]string{"data", "descricao", "valor", "categoria", "extra"}, cols))

	err := RequireColumns([]string{"data", "descricao", "categoria"}, cols)
	require.Error(t, err)
	assert.True(t, IsRule(err, RuleRequiredColumn))
	assert.Equal(t, "Field 'valor': required column 'valor' is missing", err.Error())
}

func TestCoerceRow(t *testing.T) {
	c := NewCoercer(config.Default(), true, false)

	tx, err := c.CoerceRow(map[string]string{
		"data":      "2024-01-15",
		"descricao": "coffee",
		"valor":     "-5",
		"categoria": "food",
	}, 3, 4)
	require.NoError(t, err)

	assert.Equal(t, "coffee", tx.Description)
	assert.Equal(t, "food", tx.Category)
	assert.True(t, decimal.NewFromInt(-5).Equal(tx.Amount))
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.Equal(t, 3, tx.Row)
	assert.True(t, tx.IsExpense())
}

func TestCoerceRow_NoDateColumn(t *testing.T) {
	c := NewCoercer(config.Default(), false, false)

	tx, err := c.CoerceRow(map[string]string{"descricao": "x", "valor": "10", "categoria": "y"}, 1, 2)
	require.NoError(t, err)
	assert.True(t, tx.Date.IsZero())
}

func TestCoerceRow_BadAmount(t *testing.T) {
	c := NewCoercer(config.Default(), false, false)

	_, err := c.CoerceRow(map[string]string{"descricao": "x", "valor": "ten", "categoria": "y"}, 1, 7)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, RuleAmount, ve.Rule)
	assert.Equal(t, 7, ve.Line)
	assert.Equal(t, "ten", ve.Value)
	assert.Contains(t, err.Error(), "Line 7, Field 'valor'")
}

func TestCoerceRow_BadDate(t *testing.T) {
	c := NewCoercer(config.Default(), true, false)

	_, err := c.CoerceRow(map[string]string{"data": "someday", "descricao": "x", "valor": "-1", "categoria": "y"}, 1, 2)
	assert.True(t, IsRule(err, RuleDate))
}

func TestCoerceRow_BlankDate(t *testing.T) {
	c := NewCoercer(config.Default(), true, false)

	tx, err := c.CoerceRow(map[string]string{"data": " ", "descricao": "x", "valor": "-1", "categoria": "y"}, 1, 2)
	require.NoError(t, err)
	assert.True(t, tx.Date.IsZero())
}

func TestCoerceRow_ExcelSerialDate(t *testing.T) {
	c := NewCoercer(config.Default(), true, true)

	// 45296 is 2024-01-05 in the 1900 date system.
	tx, err := c.CoerceRow(map[string]string{"data": "45296", "descricao": "x", "valor": "-1", "categoria": "y"}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), tx.Date)

	plain := NewCoercer(config.Default(), true, false)
	_, err = plain.CoerceRow(map[string]string{"data": "45296", "descricao": "x", "valor": "-1", "categoria": "y"}, 1, 2)
	assert.True(t, IsRule(err, RuleDate))
}
