// Package facts implements the fact-normalization half of the
// reconciliation engine: melting wide table rows into atomic
// (dimension, entity, attribute, value) facts, deriving stable composite
// keys, and grouping fact sets into entity records for comparison.
package facts

import "strings"

const (
	// keySep joins key components for canonical equality and lookups.
	// The unit separator cannot occur in legitimate cell content, so key
	// collisions between distinct tuples are impossible.
	keySep = "\x1f"

	// DisplaySep is the human-readable join used when a key appears in
	// reports or exception tables. It is a debugging aid only; equality
	// is always computed on the canonical form.
	DisplaySep = " | "

	// NameAttribute is the attribute under which the entity identifier
	// is re-emitted, so the entity's display name survives into
	// attribute-level comparison.
	NameAttribute = "Name"
)

// Fact is one atomic normalized value: a single attribute of a single
// entity within a dimension. Facts are immutable; all fields are
// whitespace-trimmed on construction so two facts differing only in cell
// whitespace collapse to the same key.
type Fact struct {
	Dimension string
	EntityKey string
	Attribute string
	Value     string
}

// New creates a fact with every component trimmed. Missing values must
// arrive as "" (never a literal "nan"/"None" token); readers guarantee
// that, and New preserves it.
func New(dimension, entityKey, attribute, value string) Fact {
	return Fact{
		Dimension: strings.TrimSpace(dimension),
		EntityKey: strings.TrimSpace(entityKey),
		Attribute: strings.TrimSpace(attribute),
		Value:     strings.TrimSpace(value),
	}
}

// GroupKey identifies the entity this fact belongs to. It is the unit of
// entity-level comparison.
func (f Fact) GroupKey() string {
	return GroupKeyOf(f.Dimension, f.EntityKey)
}

// Key identifies the full fact tuple. It is the unit of deduplication
// and exception suppression.
func (f Fact) Key() string {
	return KeyOf(f.Dimension, f.EntityKey, f.Attribute, f.Value)
}

// DisplayKey renders the fact key in its human-readable form.
func (f Fact) DisplayKey() string {
	return strings.Join([]string{f.Dimension, f.EntityKey, f.Attribute, f.Value}, DisplaySep)
}

// GroupKeyOf builds a canonical group key from its components, trimming
// each one first.
func GroupKeyOf(dimension, entityKey string) string {
	return strings.TrimSpace(dimension) + keySep + strings.TrimSpace(entityKey)
}

// KeyOf builds a canonical fact key from its components, trimming each
// one first. Exception loaders use this to key rules so that rule keys
// round-trip with the keys the comparator computes.
func KeyOf(dimension, entityKey, attribute, value string) string {
	return strings.TrimSpace(dimension) + keySep +
		strings.TrimSpace(entityKey) + keySep +
		strings.TrimSpace(attribute) + keySep +
		strings.TrimSpace(value)
}

// SplitGroupKey returns the dimension and entity key encoded in a group
// key produced by GroupKeyOf.
func SplitGroupKey(groupKey string) (dimension, entityKey string) {
	parts := strings.SplitN(groupKey, keySep, 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return groupKey, ""
}
