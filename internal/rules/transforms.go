package rules

import (
	"sort"
	"strings"
	"time"

	"github.com/crosscheckhq/crosscheck/pkg/errors"
	"github.com/crosscheckhq/crosscheck/pkg/facts"
)

// transforms maps the names usable in ruleset YAML to value transforms.
// Transforms receive a trimmed value and must fail rather than guess:
// a failed transform keeps the raw value and increments Stats.
var transforms = map[string]facts.TransformFunc{
	"date":            dateOnly,
	"trim":            func(v string) (string, error) { return strings.TrimSpace(v), nil },
	"upper":           func(v string) (string, error) { return strings.ToUpper(v), nil },
	"lower":           func(v string) (string, error) { return strings.ToLower(v), nil },
	"collapse-spaces": collapseSpaces,
}

// Transform looks up a named transform. The second return is false for
// names the registry does not know.
func Transform(name string) (facts.TransformFunc, bool) {
	tf, ok := transforms[name]
	return tf, ok
}

// TransformNames returns the registered names, sorted, for error
// messages and command help text.
func TransformNames() []string {
	names := make([]string, 0, len(transforms))
	for name := range transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// dateOnly truncates a timestamp to its date portion. Both sides of a
// comparison often record the same event at different precisions; the
// date is the part they agree on.
func dateOnly(v string) (string, error) {
	if v == "" {
		return "", nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", errors.WrapParse("date", "", errors.ErrInvalidInput)
}

func collapseSpaces(v string) (string, error) {
	return strings.Join(strings.Fields(v), " "), nil
}
