package sources

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/crosscheckhq/crosscheck/pkg/errors"
	"github.com/crosscheckhq/crosscheck/pkg/exceptions"
	"github.com/crosscheckhq/crosscheck/pkg/facts"
)

// Exception-table column headers. Dimension, Entity, Attribute and Value
// identify the diff entry; rule keys are built with the engine's own key
// builder so they round-trip with report keys exactly.
var exceptionColumns = []string{
	"Dimension", "Entity", "Attribute", "Value", "Suppress", "Comment1", "Comment2",
}

// ReadExceptions loads an exception table from a CSV file.
func ReadExceptions(path string) (map[string]exceptions.Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	return ReadExceptionsFrom(f, filepath.Base(path))
}

// ReadExceptionsFrom loads an exception table from a reader. Header
// matching is case-insensitive; the identifying columns are required,
// Suppress and the comment columns are optional.
func ReadExceptionsFrom(r io.Reader, origin string) (map[string]exceptions.Rule, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return map[string]exceptions.Rule{}, nil
	}
	if err != nil {
		return nil, errors.WrapParse("csv", origin, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range exceptionColumns[:4] {
		if _, ok := cols[strings.ToLower(required)]; !ok {
			return nil, errors.NewParseError("csv", origin,
				"exception table missing column "+required, nil)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := cols[strings.ToLower(name)]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	rules := make(map[string]exceptions.Rule)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapParse("csv", origin, err)
		}
		key := facts.KeyOf(
			field(record, "Dimension"),
			field(record, "Entity"),
			field(record, "Attribute"),
			field(record, "Value"),
		)
		rules[key] = exceptions.Rule{
			Key:      key,
			Suppress: field(record, "Suppress"),
			Comment1: field(record, "Comment1"),
			Comment2: field(record, "Comment2"),
		}
	}
	return rules, nil
}
