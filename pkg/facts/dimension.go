package facts

import (
	"strings"

	"github.com/crosscheckhq/crosscheck/pkg/tables"
)

// DimensionRule derives the dimension label for table rows. Two variants
// exist: a row-level rule reading a source column through a lookup map
// (many dimensions per table), and a table-level rule mapping the
// table's origin name once (one dimension for the whole table).
//
// Both are allow-lists: a source value with no entry in the lookup map
// drops the row, which is a policy decision, not an error.
type DimensionRule interface {
	// Bind resolves the rule against a table and returns a per-row
	// lookup. The bool result is false for rows with no mapped
	// dimension. Bind fails only on configuration errors, such as an
	// unresolvable source column.
	Bind(t *tables.Table) (func(row int) (string, bool), error)
}

type rowDimension struct {
	col    tables.ColumnRef
	lookup map[string]string
}

// RowDimension derives each row's dimension from the given column's
// value via the lookup map.
func RowDimension(col tables.ColumnRef, lookup map[string]string) DimensionRule {
	return &rowDimension{col: col, lookup: lookup}
}

// Bind resolves the source column once for the whole table.
func (r *rowDimension) Bind(t *tables.Table) (func(row int) (string, bool), error) {
	idx, _, err := r.col.Resolve(t)
	if err != nil {
		return nil, err
	}
	return func(row int) (string, bool) {
		raw := strings.TrimSpace(t.Cell(row, idx).String())
		dim, ok := r.lookup[raw]
		return dim, ok
	}, nil
}

type tableDimension struct {
	lookup map[string]string
}

// TableDimension derives one dimension for the whole table from its
// origin name via the lookup map. A table whose origin has no entry
// contributes no facts at all.
func TableDimension(lookup map[string]string) DimensionRule {
	return &tableDimension{lookup: lookup}
}

// Bind looks the table's origin up once; every row shares the result.
func (r *tableDimension) Bind(t *tables.Table) (func(row int) (string, bool), error) {
	dim, ok := r.lookup[strings.TrimSpace(t.Origin)]
	return func(int) (string, bool) {
		return dim, ok
	}, nil
}
