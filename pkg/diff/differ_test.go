package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosscheckhq/crosscheck/pkg/diff"
	"github.com/crosscheckhq/crosscheck/pkg/facts"
)

// record builds an entity record the way Index would.
func record(dimension, entity string, attrs map[string]string) facts.EntityRecord {
	return facts.EntityRecord{
		GroupKey:   facts.GroupKeyOf(dimension, entity),
		Dimension:  dimension,
		EntityKey:  entity,
		Attributes: attrs,
	}
}

func index(records ...facts.EntityRecord) map[string]facts.EntityRecord {
	out := make(map[string]facts.EntityRecord, len(records))
	for _, r := range records {
		out[r.GroupKey] = r
	}
	return out
}

func TestCompareEntityMissingOnOneSide(t *testing.T) {
	// Side A has Acme with a Status; side B has no Acme at all. Only the
	// Name entry is reported: the entity is missing, not its attributes.
	a := index(record("Retail", "Acme", map[string]string{"Name": "Acme", "Status": "Active"}))
	b := index()

	set := diff.New().Compare(a, b)
	require.Len(t, set.Entries, 1)
	entry := set.Entries[0]
	assert.Equal(t, "Acme", entry.EntityKey)
	assert.Equal(t, facts.NameAttribute, entry.Attribute)
	assert.Equal(t, "Acme", entry.Value)
	assert.Equal(t, diff.SideB, entry.MissingIn)
}

func TestCompareValueMismatchEmitsTwoEntries(t *testing.T) {
	a := index(record("Retail", "Acme", map[string]string{"Name": "Acme", "Status": "Active"}))
	b := index(record("Retail", "Acme", map[string]string{"Name": "Acme", "Status": "Inactive"}))

	set := diff.New().Compare(a, b)
	require.Len(t, set.Entries, 2)

	// Sorted output: SideA before SideB for the same attribute.
	first, second := set.Entries[0], set.Entries[1]
	assert.Equal(t, "Inactive", first.Value)
	assert.Equal(t, diff.SideA, first.MissingIn)
	assert.Equal(t, "Active", second.Value)
	assert.Equal(t, diff.SideB, second.MissingIn)
}

func TestCompareAttributeMissingOnOneSide(t *testing.T) {
	a := index(record("Retail", "Acme", map[string]string{"Name": "Acme", "Region": "EU"}))
	b := index(record("Retail", "Acme", map[string]string{"Name": "Acme"}))

	set := diff.New().Compare(a, b)
	require.Len(t, set.Entries, 1)
	assert.Equal(t, "Region", set.Entries[0].Attribute)
	assert.Equal(t, "EU", set.Entries[0].Value)
	assert.Equal(t, diff.SideB, set.Entries[0].MissingIn)
}

func TestCompareNameGateBlocksAttributeComparison(t *testing.T) {
	// Names disagree: the entity is not matched, so Status noise is
	// suppressed and the identity problem is reported from both sides.
	a := index(record("Retail", "ACME", map[string]string{"Name": "ACME_1", "Status": "Active"}))
	b := index(record("Retail", "ACME", map[string]string{"Name": "ACME_2", "Status": "Inactive"}))

	set := diff.New().Compare(a, b)
	require.Len(t, set.Entries, 2)
	for _, entry := range set.Entries {
		assert.Equal(t, facts.NameAttribute, entry.Attribute)
	}
	assert.Equal(t, "ACME_2", set.Entries[0].Value)
	assert.Equal(t, diff.SideA, set.Entries[0].MissingIn)
	assert.Equal(t, "ACME_1", set.Entries[1].Value)
	assert.Equal(t, diff.SideB, set.Entries[1].MissingIn)
}

func TestCompareOneSideLacksName(t *testing.T) {
	a := index(record("Retail", "Acme", map[string]string{"Name": "Acme", "Status": "Active"}))
	b := index(record("Retail", "Acme", map[string]string{"Status": "Active"}))

	set := diff.New().Compare(a, b)
	require.Len(t, set.Entries, 1, "a record with no Name is not reportable as missing")
	assert.Equal(t, facts.NameAttribute, set.Entries[0].Attribute)
	assert.Equal(t, diff.SideB, set.Entries[0].MissingIn)
}

func TestCompareEqualRecordsEmitNothing(t *testing.T) {
	attrs := map[string]string{"Name": "Acme", "Status": "Active", "Region": "EU"}
	a := index(record("Retail", "Acme", attrs))
	b := index(record("Retail", "Acme", map[string]string{"Name": "Acme", "Status": "Active", "Region": "EU"}))

	set := diff.New().Compare(a, b)
	assert.True(t, set.IsEmpty())
	assert.False(t, set.HasChanges())
	assert.Equal(t, "No differences detected", set.String())
}

func TestCompareIdentityProperty(t *testing.T) {
	idx := index(
		record("Retail", "Acme", map[string]string{"Name": "Acme", "Status": "Active"}),
		record("Wholesale", "Apex", map[string]string{"Name": "Apex", "Region": "US"}),
	)

	set := diff.New().Compare(idx, idx)
	assert.True(t, set.IsEmpty(), "a table compared against itself yields no diffs")
}

func TestCompareSymmetryProperty(t *testing.T) {
	a := index(
		record("Retail", "Acme", map[string]string{"Name": "Acme", "Status": "Active"}),
		record("Retail", "Apex", map[string]string{"Name": "Apex"}),
	)
	b := index(
		record("Retail", "Acme", map[string]string{"Name": "Acme", "Status": "Inactive"}),
		record("Retail", "Zenith", map[string]string{"Name": "Zenith"}),
	)

	forward := diff.New().Compare(a, b)
	backward := diff.New().Compare(b, a)

	// Swapping inputs and flipping sides must yield an equal set.
	flipped := &diff.Set{}
	for _, entry := range backward.Entries {
		entry.MissingIn = entry.MissingIn.Other()
		flipped.Entries = append(flipped.Entries, entry)
	}
	flipped.Recalculate()
	flipped.Sort()

	assert.Equal(t, forward.Entries, flipped.Entries)
	assert.Equal(t, forward.Summary, flipped.Summary)
}

func TestCompareIgnoredAttributes(t *testing.T) {
	a := index(record("Retail", "Acme", map[string]string{"Name": "Acme", "Noise": "x"}))
	b := index(record("Retail", "Acme", map[string]string{"Name": "Acme", "Noise": "y"}))

	set := diff.New(diff.WithIgnoredAttributes("Noise")).Compare(a, b)
	assert.True(t, set.IsEmpty())

	// Name cannot be ignored; it gates matching.
	gated := diff.New(diff.WithIgnoredAttributes(facts.NameAttribute)).Compare(
		index(record("Retail", "Acme", map[string]string{"Name": "A1"})),
		index(record("Retail", "Acme", map[string]string{"Name": "A2"})),
	)
	assert.Equal(t, 2, gated.Summary.Total)
}

func TestCompareSummary(t *testing.T) {
	a := index(
		record("Retail", "Acme", map[string]string{"Name": "Acme", "Status": "Active"}),
		record("Wholesale", "Apex", map[string]string{"Name": "Apex"}),
	)
	b := index(record("Retail", "Acme", map[string]string{"Name": "Acme", "Status": "Inactive"}))

	set := diff.New().Compare(a, b)
	assert.Equal(t, 3, set.Summary.Total)
	assert.Equal(t, 1, set.Summary.MissingInA)
	assert.Equal(t, 2, set.Summary.MissingInB)
	assert.Equal(t, 2, set.Summary.ByDimension["Retail"])
	assert.Equal(t, 1, set.Summary.ByDimension["Wholesale"])
	assert.Contains(t, set.String(), "total: 3")
}

func TestSideOther(t *testing.T) {
	assert.Equal(t, diff.SideB, diff.SideA.Other())
	assert.Equal(t, diff.SideA, diff.SideB.Other())
}
