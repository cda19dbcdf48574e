// Package exceptions applies a caller-supplied exception overlay to a
// diff set: known discrepancies are suppressed, and annotations from the
// exception table are carried forward onto the surviving entries.
package exceptions

import (
	"strings"

	"github.com/crosscheckhq/crosscheck/pkg/diff"
)

// Rule is one exception-table row, keyed by the canonical fact key of
// the diff entry it targets.
type Rule struct {
	// Key is the canonical key built with facts.KeyOf.
	Key string
	// Suppress is the raw flag text from the exception table. Only a
	// case-insensitive "yes" suppresses; anything else annotates.
	Suppress string
	Comment1 string
	Comment2 string
}

// Suppressed reports whether the rule drops its entry.
func (r Rule) Suppressed() bool {
	return strings.EqualFold(strings.TrimSpace(r.Suppress), "yes")
}

// Suppress returns a new diff set with suppressed entries dropped and
// rule comments overlaid on matched entries. Entries without a matching
// rule pass through untouched, comments included; nil or empty rules are
// a no-op. The input set is never mutated, and the operation is
// idempotent: suppressing twice equals suppressing once.
func Suppress(set *diff.Set, rules map[string]Rule) *diff.Set {
	out := &diff.Set{}
	if set == nil {
		out.Recalculate()
		return out
	}
	if len(rules) == 0 {
		out.Entries = append(out.Entries, set.Entries...)
		out.Recalculate()
		return out
	}

	for _, entry := range set.Entries {
		rule, found := rules[entry.Key()]
		if !found {
			out.Entries = append(out.Entries, entry)
			continue
		}
		if rule.Suppressed() {
			continue
		}
		entry.Comment1 = rule.Comment1
		entry.Comment2 = rule.Comment2
		out.Entries = append(out.Entries, entry)
	}

	out.Recalculate()
	return out
}
