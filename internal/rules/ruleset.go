// Package rules loads the YAML ruleset that configures a reconciliation
// run: per-side dimension derivation, entity column, attribute
// allow-list, value transforms, and the optional derived status rule.
// A ruleset compiles into engine normalizers; every problem it can cause
// is a configuration error and halts the run before any row is melted.
package rules

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"

	"github.com/crosscheckhq/crosscheck/pkg/errors"
	"github.com/crosscheckhq/crosscheck/pkg/facts"
	"github.com/crosscheckhq/crosscheck/pkg/tables"
)

// Ruleset is the full configuration for one comparison.
type Ruleset struct {
	Version int `yaml:"version"`
	Sides   struct {
		A SideConfig `yaml:"a"`
		B SideConfig `yaml:"b"`
	} `yaml:"sides"`
	// IgnoreAttributes lists canonical attributes excluded from
	// comparison on both sides.
	IgnoreAttributes []string `yaml:"ignore_attributes"`
}

// SideConfig configures normalization for one side.
type SideConfig struct {
	Dimension  DimensionConfig   `yaml:"dimension"`
	Entity     EntityConfig      `yaml:"entity"`
	Attributes map[string]string `yaml:"attributes"`
	Transforms map[string]string `yaml:"transforms"`
	Status     *StatusConfig     `yaml:"status"`
}

// DimensionConfig selects one of the two dimension rule variants:
// row-level (Column set) or table-level (FromOrigin true). Mapping is
// the allow-list lookup in both variants.
type DimensionConfig struct {
	Column     string            `yaml:"column"`
	FromOrigin bool              `yaml:"from_origin"`
	Mapping    map[string]string `yaml:"mapping"`
}

// EntityConfig identifies the entity column. FallbackIndex, when set,
// is the explicit positional fallback used when the named column is
// absent; Split derives the grouping key from the identifier prefix.
type EntityConfig struct {
	Column        string `yaml:"column"`
	FallbackIndex *int   `yaml:"fallback_index"`
	Split         string `yaml:"split"`
}

// StatusConfig configures the derived activity status attribute.
type StatusConfig struct {
	Attribute     string `yaml:"attribute"`
	ClosedColumn  string `yaml:"closed_column"`
	EndDateColumn string `yaml:"end_date_column"`
}

// Load reads and validates a ruleset file.
func Load(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(data, path)
}

// Parse decodes and validates ruleset YAML.
func Parse(data []byte, origin string) (*Ruleset, error) {
	var rs Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, errors.WrapParse("yaml", origin, err)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Validate checks both sides for the problems that would corrupt every
// downstream key: a missing entity column, a dimension rule with no
// lookup, or an unknown transform name.
func (r *Ruleset) Validate() error {
	if err := r.Sides.A.validate("sides.a"); err != nil {
		return err
	}
	return r.Sides.B.validate("sides.b")
}

func (s SideConfig) validate(component string) error {
	if s.Entity.Column == "" && s.Entity.FallbackIndex == nil {
		return errors.NewConfigError(component, "entity column is required", nil)
	}
	if s.Dimension.Column == "" && !s.Dimension.FromOrigin {
		return errors.NewConfigError(component,
			"dimension needs a source column or from_origin", nil)
	}
	if len(s.Dimension.Mapping) == 0 {
		return errors.NewConfigError(component, "dimension mapping is empty", nil)
	}
	for attribute, name := range s.Transforms {
		if _, ok := Transform(name); !ok {
			return errors.NewConfigError(component,
				"unknown transform "+name+" for attribute "+attribute, nil)
		}
	}
	return nil
}

// Normalizer compiles the side configuration into an engine normalizer.
func (s SideConfig) Normalizer(logger *zerolog.Logger) (*facts.Normalizer, error) {
	var dim facts.DimensionRule
	if s.Dimension.FromOrigin {
		dim = facts.TableDimension(s.Dimension.Mapping)
	} else {
		dim = facts.RowDimension(tables.ByName(s.Dimension.Column), s.Dimension.Mapping)
	}

	var entity tables.ColumnRef
	switch {
	case s.Entity.Column != "" && s.Entity.FallbackIndex != nil:
		entity = tables.ByNameOrIndex(s.Entity.Column, *s.Entity.FallbackIndex)
	case s.Entity.Column != "":
		entity = tables.ByName(s.Entity.Column)
	default:
		entity = tables.ByIndex(*s.Entity.FallbackIndex)
	}

	transforms := make(map[string]facts.TransformFunc, len(s.Transforms))
	for attribute, name := range s.Transforms {
		tf, ok := Transform(name)
		if !ok {
			return nil, errors.NewConfigError("rules",
				"unknown transform "+name+" for attribute "+attribute, nil)
		}
		transforms[attribute] = tf
	}

	opts := []facts.Option{
		facts.WithAttributes(s.Attributes),
		facts.WithTransforms(transforms),
		facts.WithLogger(logger),
	}
	if s.Entity.Split != "" {
		opts = append(opts, facts.WithEntityKeySplit(s.Entity.Split))
	}
	if s.Status != nil {
		opts = append(opts, facts.WithDerivedStatus(&facts.StatusRule{
			Attribute:     s.Status.Attribute,
			ClosedColumn:  tables.ByName(s.Status.ClosedColumn),
			EndDateColumn: tables.ByName(s.Status.EndDateColumn),
		}))
	}

	return facts.NewNormalizer(dim, entity, opts...), nil
}
