// Package tables defines the in-memory tabular values the reconciliation
// engine consumes. A Table is an ordered set of named columns and ordered
// rows of optional scalar cells, owned by the caller and read-only to the
// engine. Readers (CSV, XLSX) live outside this package and produce Tables.
package tables

import (
	"strconv"
	"strings"

	"github.com/crosscheckhq/crosscheck/pkg/errors"
)

// Cell is one optional scalar value. Numbers and dates are carried as the
// string rendering chosen by the reader; the engine compares strings only.
type Cell struct {
	Value string
	Null  bool
}

// NewCell returns a non-null cell holding value.
func NewCell(value string) Cell {
	return Cell{Value: value}
}

// NullCell returns a cell with no value.
func NullCell() Cell {
	return Cell{Null: true}
}

// String returns the cell value, or "" for a null cell. Missing data is
// never rendered as a literal "nan"/"None"/"null" token.
func (c Cell) String() string {
	if c.Null {
		return ""
	}
	return c.Value
}

// Row is one ordered row of cells, parallel to the table's columns.
type Row []Cell

// Table is an ordered list of named columns and ordered rows.
// Origin identifies where the table came from (file name, sheet name);
// table-level dimension rules key off it.
type Table struct {
	Origin  string
	Columns []string
	Rows    []Row
}

// New creates a table with the given origin and column names.
// Column names are whitespace-trimmed on construction, the same cleanup
// the upstream sources apply to their headers.
func New(origin string, columns ...string) *Table {
	trimmed := make([]string, len(columns))
	for i, c := range columns {
		trimmed[i] = strings.TrimSpace(c)
	}
	return &Table{Origin: origin, Columns: trimmed}
}

// Append adds a row. Short rows are padded with null cells so every row
// is parallel to Columns; extra cells are dropped.
func (t *Table) Append(cells ...Cell) {
	row := make(Row, len(t.Columns))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = NullCell()
		}
	}
	t.Rows = append(t.Rows, row)
}

// AppendStrings adds a row of non-null string cells. Empty strings stay
// as empty (non-null) values.
func (t *Table) AppendStrings(values ...string) {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = NewCell(v)
	}
	t.Append(cells...)
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, col); a null cell when out of range.
func (t *Table) Cell(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) {
		return NullCell()
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return NullCell()
	}
	return r[col]
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnRef is a typed column reference: by name, with an optional
// explicit positional fallback. The fallback is a configuration choice,
// never an implicit magic index; Resolve reports when it was used so the
// caller can log it.
type ColumnRef struct {
	Name     string
	Index    int
	Fallback bool
}

// ByName references a column by header name, with no fallback.
func ByName(name string) ColumnRef {
	return ColumnRef{Name: name, Index: -1}
}

// ByIndex references a column by zero-based position.
func ByIndex(index int) ColumnRef {
	return ColumnRef{Index: index}
}

// ByNameOrIndex references a column by name, falling back to the given
// position when the name is absent.
func ByNameOrIndex(name string, index int) ColumnRef {
	return ColumnRef{Name: name, Index: index, Fallback: true}
}

// Resolve returns the column index for the reference, and whether the
// positional fallback was taken. An unresolvable reference is a
// configuration error: reconciliation must not proceed with a guessed
// entity or dimension column.
func (r ColumnRef) Resolve(t *Table) (int, bool, error) {
	if r.Name != "" {
		if idx := t.ColumnIndex(r.Name); idx >= 0 {
			return idx, false, nil
		}
		if !r.Fallback {
			return -1, false, errors.NewConfigError("tables",
				"column "+r.Name+" not found in "+t.Origin, nil)
		}
	}
	if r.Index < 0 || r.Index >= len(t.Columns) {
		return -1, false, errors.NewConfigError("tables",
			"column index out of range for "+t.Origin, nil)
	}
	// Name missing (or never set) and an explicit index is configured.
	return r.Index, r.Name != "", nil
}

// String renders the reference for logs.
func (r ColumnRef) String() string {
	if r.Name == "" {
		return "#" + strconv.Itoa(r.Index)
	}
	if r.Fallback {
		return r.Name + " (fallback #" + strconv.Itoa(r.Index) + ")"
	}
	return r.Name
}
