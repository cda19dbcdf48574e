package sources

import (
	stderrors "errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/crosscheckhq/crosscheck/pkg/errors"
	"github.com/crosscheckhq/crosscheck/pkg/facts"
)

func TestReadCSVFrom(t *testing.T) {
	input := "Segment , Account,Region\nRET,Acme,EU\nWHL,Apex\n"

	tbl, err := ReadCSVFrom(strings.NewReader(input), "sideA.csv")
	require.NoError(t, err)

	assert.Equal(t, "sideA.csv", tbl.Origin)
	assert.Equal(t, []string{"Segment", "Account", "Region"}, tbl.Columns,
		"header names are trimmed")
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "EU", tbl.Cell(0, 2).String())
	assert.Equal(t, "", tbl.Cell(1, 2).String(), "short rows are padded")
}

func TestReadCSVFromMissingHeader(t *testing.T) {
	_, err := ReadCSVFrom(strings.NewReader(""), "empty.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing header row")
	assert.True(t, stderrors.Is(err, errors.ErrEmptyTable))
}

// writeWorkbook builds a small xlsx fixture with a populated "Accounts"
// sheet and the default empty sheet.
func writeWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	_, err := f.NewSheet("Accounts")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Accounts", "A1", &[]string{"Segment", "Account", "Region"}))
	require.NoError(t, f.SetSheetRow("Accounts", "A2", &[]string{"RET", "Acme", "EU"}))
	require.NoError(t, f.SetSheetRow("Accounts", "A3", &[]string{"WHL", "Apex", "US"}))

	path := filepath.Join(t.TempDir(), "sideB.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	path := writeWorkbook(t)

	tbl, err := ReadXLSX(path, "Accounts")
	require.NoError(t, err)

	assert.Equal(t, "Accounts", tbl.Origin, "origin is the sheet name")
	assert.Equal(t, []string{"Segment", "Account", "Region"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Acme", tbl.Cell(0, 1).String())
}

func TestReadXLSXMissingSheet(t *testing.T) {
	path := writeWorkbook(t)

	_, err := ReadXLSX(path, "NoSuchSheet")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestReadXLSXEmptySheet(t *testing.T) {
	path := writeWorkbook(t)

	// The workbook's default sheet has no rows at all.
	_, err := ReadXLSX(path, "Sheet1")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrEmptyTable))
}

func TestReadExceptionsFrom(t *testing.T) {
	input := strings.Join([]string{
		"dimension,entity,attribute,value,suppress,comment1,comment2",
		"Retail,Acme,Status,Active,yes,known gap,ticket 4711",
		"Retail,Apex,Region,US,no,watch,",
	}, "\n")

	rules, err := ReadExceptionsFrom(strings.NewReader(input), "exceptions.csv")
	require.NoError(t, err)
	require.Len(t, rules, 2)

	key := facts.KeyOf("Retail", "Acme", "Status", "Active")
	rule, ok := rules[key]
	require.True(t, ok, "rule keys round-trip with engine keys")
	assert.True(t, rule.Suppressed())
	assert.Equal(t, "known gap", rule.Comment1)

	rule = rules[facts.KeyOf("Retail", "Apex", "Region", "US")]
	assert.False(t, rule.Suppressed())
	assert.Equal(t, "watch", rule.Comment1)
}

func TestReadExceptionsFromMissingColumn(t *testing.T) {
	input := "dimension,entity,attribute\nRetail,Acme,Status\n"
	_, err := ReadExceptionsFrom(strings.NewReader(input), "exceptions.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column Value")
}

func TestReadExceptionsFromEmpty(t *testing.T) {
	rules, err := ReadExceptionsFrom(strings.NewReader(""), "exceptions.csv")
	require.NoError(t, err)
	assert.Empty(t, rules)
}
