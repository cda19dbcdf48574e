package diff

import (
	"sort"

	"github.com/crosscheckhq/crosscheck/pkg/facts"
)

// Differ compares two indexed fact sets.
type Differ interface {
	// Compare diffs side A against side B. The result is sorted.
	Compare(indexA, indexB map[string]facts.EntityRecord) *Set
}

// differ is the default implementation of Differ.
type differ struct {
	ignoreAttributes map[string]bool
}

// Option is a functional option for configuring a Differ.
type Option func(*differ)

// WithIgnoredAttributes sets attributes to skip during comparison.
// The "Name" attribute cannot be ignored; it gates entity matching.
func WithIgnoredAttributes(attributes ...string) Option {
	return func(d *differ) {
		for _, a := range attributes {
			if a == facts.NameAttribute {
				continue
			}
			d.ignoreAttributes[a] = true
		}
	}
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{ignoreAttributes: make(map[string]bool)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Compare walks the union of both indexes' group keys. Two decisions
// shape the output: an entity's attributes are only compared when both
// sides carry an equal "Name" (otherwise the mismatch is reported as an
// identity problem, not cascaded into attribute noise), and a value
// mismatch emits one entry per side, each carrying that side's own value
// and marking the other side as missing it.
func (d *differ) Compare(indexA, indexB map[string]facts.EntityRecord) *Set {
	set := &Set{}

	for _, groupKey := range unionKeys(indexA, indexB) {
		recA, inA := indexA[groupKey]
		recB, inB := indexB[groupKey]

		switch {
		case inA && !inB:
			set.Entries = append(set.Entries, nameEntry(recA, SideB)...)
		case inB && !inA:
			set.Entries = append(set.Entries, nameEntry(recB, SideA)...)
		default:
			nameA, okA := recA.Name()
			nameB, okB := recB.Name()
			if !okA || !okB || nameA != nameB {
				// Entity not matched: report each side's own Name and
				// leave the remaining attributes alone.
				set.Entries = append(set.Entries, nameEntry(recA, SideB)...)
				set.Entries = append(set.Entries, nameEntry(recB, SideA)...)
				continue
			}
			set.Entries = append(set.Entries, d.compareAttributes(recA, recB)...)
		}
	}

	set.Recalculate()
	set.Sort()
	return set
}

// nameEntry reports an entity record as missing on the other side. A
// record with no "Name" attribute is a spurious grouping match and
// produces nothing.
func nameEntry(rec facts.EntityRecord, missingIn Side) []Entry {
	name, ok := rec.Name()
	if !ok {
		return nil
	}
	return []Entry{{
		Dimension: rec.Dimension,
		EntityKey: rec.EntityKey,
		Attribute: facts.NameAttribute,
		Value:     name,
		MissingIn: missingIn,
	}}
}

// compareAttributes diffs a matched entity attribute by attribute over
// the union of both sides, excluding "Name".
func (d *differ) compareAttributes(recA, recB facts.EntityRecord) []Entry {
	var entries []Entry
	for _, attr := range unionAttributes(recA, recB) {
		if attr == facts.NameAttribute || d.ignoreAttributes[attr] {
			continue
		}
		valA, inA := recA.Attributes[attr]
		valB, inB := recB.Attributes[attr]

		switch {
		case inA && !inB:
			entries = append(entries, attrEntry(recA, attr, valA, SideB))
		case inB && !inA:
			entries = append(entries, attrEntry(recB, attr, valB, SideA))
		case valA != valB:
			// Mirrored pair: each side's value, the other side missing it.
			entries = append(entries,
				attrEntry(recA, attr, valA, SideB),
				attrEntry(recB, attr, valB, SideA))
		}
	}
	return entries
}

func attrEntry(rec facts.EntityRecord, attribute, value string, missingIn Side) Entry {
	return Entry{
		Dimension: rec.Dimension,
		EntityKey: rec.EntityKey,
		Attribute: attribute,
		Value:     value,
		MissingIn: missingIn,
	}
}

// unionKeys returns the sorted union of both indexes' group keys.
func unionKeys(a, b map[string]facts.EntityRecord) []string {
	keys := make([]string, 0, len(a)+len(b))
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
		seen[k] = struct{}{}
	}
	for k := range b {
		if _, dup := seen[k]; !dup {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// unionAttributes returns the sorted union of both records' attributes.
func unionAttributes(a, b facts.EntityRecord) []string {
	attrs := make([]string, 0, len(a.Attributes)+len(b.Attributes))
	seen := make(map[string]struct{}, len(a.Attributes)+len(b.Attributes))
	for attr := range a.Attributes {
		attrs = append(attrs, attr)
		seen[attr] = struct{}{}
	}
	for attr := range b.Attributes {
		if _, dup := seen[attr]; !dup {
			attrs = append(attrs, attr)
		}
	}
	sort.Strings(attrs)
	return attrs
}
