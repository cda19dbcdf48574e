package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosscheckhq/crosscheck/pkg/errors"
	"github.com/crosscheckhq/crosscheck/pkg/logging"
	"github.com/crosscheckhq/crosscheck/pkg/tables"
)

const sampleRuleset = `
version: 1
sides:
  a:
    dimension:
      column: Region
      mapping:
        EMEA: Europe
        APAC: Asia
    entity:
      column: Account
      split: "_"
    attributes:
      Balance: Balance
      Open Date: OpenedOn
    transforms:
      OpenedOn: date
  b:
    dimension:
      from_origin: true
      mapping:
        europe_export: Europe
    entity:
      column: account_name
      fallback_index: 0
    attributes:
      balance: Balance
      opened: OpenedOn
    status:
      closed_column: state
      end_date_column: end_date
ignore_attributes:
  - LastSync
`

func TestParse(t *testing.T) {
	rs, err := Parse([]byte(sampleRuleset), "rules.yaml")
	require.NoError(t, err)

	assert.Equal(t, 1, rs.Version)
	assert.Equal(t, "Region", rs.Sides.A.Dimension.Column)
	assert.Equal(t, "Europe", rs.Sides.A.Dimension.Mapping["EMEA"])
	assert.Equal(t, "_", rs.Sides.A.Entity.Split)
	assert.Equal(t, "date", rs.Sides.A.Transforms["OpenedOn"])

	assert.True(t, rs.Sides.B.Dimension.FromOrigin)
	require.NotNil(t, rs.Sides.B.Entity.FallbackIndex)
	assert.Equal(t, 0, *rs.Sides.B.Entity.FallbackIndex)
	require.NotNil(t, rs.Sides.B.Status)
	assert.Equal(t, "state", rs.Sides.B.Status.ClosedColumn)

	assert.Equal(t, []string{"LastSync"}, rs.IgnoreAttributes)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("sides: [not, a, map]"), "rules.yaml")
	require.Error(t, err)
	var perr *errors.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestValidate(t *testing.T) {
	valid := func() *Ruleset {
		rs, err := Parse([]byte(sampleRuleset), "rules.yaml")
		require.NoError(t, err)
		return rs
	}

	t.Run("missing entity column", func(t *testing.T) {
		rs := valid()
		rs.Sides.A.Entity = EntityConfig{}
		err := rs.Validate()
		require.Error(t, err)
		assert.True(t, errors.IsConfig(err))
	})

	t.Run("dimension without source", func(t *testing.T) {
		rs := valid()
		rs.Sides.B.Dimension.FromOrigin = false
		err := rs.Validate()
		require.Error(t, err)
		assert.True(t, errors.IsConfig(err))
	})

	t.Run("empty dimension mapping", func(t *testing.T) {
		rs := valid()
		rs.Sides.A.Dimension.Mapping = nil
		err := rs.Validate()
		require.Error(t, err)
		assert.True(t, errors.IsConfig(err))
	})

	t.Run("unknown transform", func(t *testing.T) {
		rs := valid()
		rs.Sides.A.Transforms["OpenedOn"] = "reverse"
		err := rs.Validate()
		require.Error(t, err)
		assert.True(t, errors.IsConfig(err))
		assert.Contains(t, err.Error(), "reverse")
	})
}

func TestSideConfigNormalizer(t *testing.T) {
	rs, err := Parse([]byte(sampleRuleset), "rules.yaml")
	require.NoError(t, err)

	logger := logging.NewNopLogger()
	norm, err := rs.Sides.A.Normalizer(logger)
	require.NoError(t, err)

	table := tables.New("ledger.csv", "Region", "Account", "Balance", "Open Date")
	table.AppendStrings("EMEA", "ACME_0001", "150.00", "2024-03-01 09:30:00")
	table.AppendStrings("LATAM", "SOUTH_07", "80.00", "2024-01-01")

	set, err := norm.Normalize(table)
	require.NoError(t, err)

	records := map[string]string{}
	for _, f := range set.Facts() {
		records[f.Attribute] = f.Value
	}
	assert.Equal(t, "ACME_0001", records["Name"])
	assert.Equal(t, "150.00", records["Balance"])
	assert.Equal(t, "2024-03-01", records["OpenedOn"], "date transform truncates the timestamp")
	assert.Equal(t, 1, set.Stats().RowsDropped, "unmapped region drops the row")
}

func TestTransforms(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		fails bool
	}{
		{"date", "2024-03-01 09:30:00", "2024-03-01", false},
		{"date", "03/15/2024", "2024-03-15", false},
		{"date", "", "", false},
		{"date", "yesterday", "", true},
		{"trim", "  padded  ", "padded", false},
		{"upper", "acme", "ACME", false},
		{"lower", "ACME", "acme", false},
		{"collapse-spaces", "a  lot   of room", "a lot of room", false},
	}
	for _, tt := range tests {
		tf, ok := Transform(tt.name)
		require.True(t, ok, tt.name)
		got, err := tf(tt.in)
		if tt.fails {
			assert.Error(t, err, "%s(%q)", tt.name, tt.in)
			continue
		}
		require.NoError(t, err, "%s(%q)", tt.name, tt.in)
		assert.Equal(t, tt.want, got, "%s(%q)", tt.name, tt.in)
	}

	_, ok := Transform("reverse")
	assert.False(t, ok)
}
