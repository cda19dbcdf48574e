// Package sources reads external tables into engine values. The engine
// itself never touches the filesystem; everything that does lives here,
// at the collaborator boundary.
package sources

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/crosscheckhq/crosscheck/pkg/constants"
	"github.com/crosscheckhq/crosscheck/pkg/errors"
	"github.com/crosscheckhq/crosscheck/pkg/tables"
)

// ReadCSV loads a CSV file into a table. The first record is the header;
// header names are trimmed on construction. The table's origin is the
// file's base name.
func ReadCSV(path string) (*tables.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	return ReadCSVFrom(f, filepath.Base(path))
}

// ReadCSVFrom loads CSV content from a reader into a table with the
// given origin.
func ReadCSVFrom(r io.Reader, origin string) (*tables.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are padded by Append

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParseError("csv", origin, "missing header row", errors.ErrEmptyTable)
	}
	if err != nil {
		return nil, errors.WrapParse("csv", origin, err)
	}

	t := tables.New(origin, header...)
	cells := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapParse("csv", origin, err)
		}
		cells += len(t.Columns)
		if cells > constants.MaxCells {
			return nil, errors.NewParseError("csv", origin, "table exceeds cell limit", nil)
		}
		t.AppendStrings(record...)
	}
	return t, nil
}
