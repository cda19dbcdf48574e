package sources

import (
	"github.com/xuri/excelize/v2"

	"github.com/crosscheckhq/crosscheck/pkg/constants"
	"github.com/crosscheckhq/crosscheck/pkg/errors"
	"github.com/crosscheckhq/crosscheck/pkg/tables"
)

// ReadXLSX loads one worksheet of an Excel workbook into a table. The
// first row is the header. The table's origin is the sheet name, which
// is what table-level dimension rules key off.
func ReadXLSX(path, sheet string) (*tables.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, errors.NewParseError("xlsx", path, "sheet "+sheet+" not found", errors.ErrNotFound)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.NewParseError("xlsx", path, "sheet "+sheet+" not readable", err)
	}
	if len(rows) == 0 {
		return nil, errors.NewParseError("xlsx", path, "sheet "+sheet+" has no header row", errors.ErrEmptyTable)
	}

	t := tables.New(sheet, rows[0]...)
	cells := 0
	for _, row := range rows[1:] {
		cells += len(t.Columns)
		if cells > constants.MaxCells {
			return nil, errors.NewParseError("xlsx", path, "table exceeds cell limit", nil)
		}
		t.AppendStrings(row...)
	}
	return t, nil
}
