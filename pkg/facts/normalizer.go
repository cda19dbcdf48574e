package facts

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/crosscheckhq/crosscheck/pkg/logging"
	"github.com/crosscheckhq/crosscheck/pkg/tables"
)

// TransformFunc normalizes one attribute value. A failing transform
// never aborts the row; the untransformed value is kept and the failure
// is counted in Stats.
type TransformFunc func(value string) (string, error)

// Normalizer melts wide tables into fact sets. It is a pure transform
// over its inputs: the table is read-only, and every call produces a new
// FactSet. Construct one per side with NewNormalizer and the options
// that encode that side's configuration.
type Normalizer struct {
	dim         DimensionRule
	entity      tables.ColumnRef
	entitySplit string
	attributes  map[string]string
	transforms  map[string]TransformFunc
	status      *StatusRule
	logger      *zerolog.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithAttributes sets the attribute allow-list, mapping raw column names
// to canonical attribute names. Columns absent from the map are dropped
// silently; unknown attributes are excluded by policy, not by accident.
func WithAttributes(allowList map[string]string) Option {
	return func(n *Normalizer) {
		n.attributes = allowList
	}
}

// WithTransforms sets per-canonical-attribute value transforms.
func WithTransforms(transforms map[string]TransformFunc) Option {
	return func(n *Normalizer) {
		n.transforms = transforms
	}
}

// WithEntityKeySplit makes the grouping key the part of the entity
// identifier before the first occurrence of delim, while the "Name"
// attribute keeps the full identifier. Suffix drift between sides then
// surfaces as an identity problem through the Name gate rather than
// fragmenting the grouping.
func WithEntityKeySplit(delim string) Option {
	return func(n *Normalizer) {
		n.entitySplit = delim
	}
}

// WithDerivedStatus emits a synthetic per-row status attribute derived
// from a closed-marker column and an end-date column.
func WithDerivedStatus(rule *StatusRule) Option {
	return func(n *Normalizer) {
		n.status = rule
	}
}

// WithLogger sets the logger used for configuration warnings such as a
// positional entity-column fallback.
func WithLogger(logger *zerolog.Logger) Option {
	return func(n *Normalizer) {
		n.logger = logger
	}
}

// NewNormalizer creates a normalizer with the given dimension rule and
// entity-identifier column.
func NewNormalizer(dim DimensionRule, entity tables.ColumnRef, opts ...Option) *Normalizer {
	n := &Normalizer{
		dim:    dim,
		entity: entity,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize melts the table into a fact set with keys already computed.
// Only configuration errors (unresolvable dimension or entity column)
// fail; data-quality anomalies are absorbed and counted in the result's
// Stats. Null cells normalize to "", never to a "nan"/"None" token.
func (n *Normalizer) Normalize(t *tables.Table) (*FactSet, error) {
	set := NewFactSet()
	if t == nil || len(t.Columns) == 0 {
		return set, nil
	}

	rowDim, err := n.dim.Bind(t)
	if err != nil {
		return nil, err
	}

	entIdx, usedFallback, err := n.entity.Resolve(t)
	if err != nil {
		return nil, err
	}
	if usedFallback {
		n.logger.Warn().
			Str("table", t.Origin).
			Str("column", n.entity.String()).
			Msg("entity column resolved by positional fallback")
	}

	status := n.status.bind(t)

	for row := range t.Rows {
		dim, ok := rowDim(row)
		if !ok {
			set.stats.RowsDropped++
			continue
		}
		set.stats.Rows++

		fullName := strings.TrimSpace(t.Cell(row, entIdx).String())
		entityKey := fullName
		if n.entitySplit != "" {
			if i := strings.Index(fullName, n.entitySplit); i >= 0 {
				entityKey = fullName[:i]
			}
		}

		// The entity column is re-emitted as the "Name" attribute so the
		// display name survives into attribute-level comparison.
		if !set.Add(New(dim, entityKey, NameAttribute, fullName)) {
			set.stats.DuplicateFacts++
		}

		for col, raw := range t.Columns {
			if col == entIdx {
				continue
			}
			canonical, allowed := n.attributes[raw]
			if !allowed {
				set.stats.AttributesDropped++
				continue
			}
			value := t.Cell(row, col).String()
			if tf, ok := n.transforms[canonical]; ok {
				out, err := tf(strings.TrimSpace(value))
				if err != nil {
					set.stats.TransformFallbacks++
					n.logger.Debug().
						Str("table", t.Origin).
						Str("attribute", canonical).
						Err(err).
						Msg("value transform failed, keeping untransformed value")
				} else {
					value = out
				}
			}
			if !set.Add(New(dim, entityKey, canonical, value)) {
				set.stats.DuplicateFacts++
			}
		}

		if status != nil {
			if !set.Add(New(dim, entityKey, n.status.attribute(), status(row))) {
				set.stats.DuplicateFacts++
			}
		}
	}

	return set, nil
}

// StatusRule derives a synthetic activity attribute per row: Inactive
// when the closed-marker column contains "close" or the end-date column
// is in the past, Active otherwise. Unparseable dates degrade to Active.
type StatusRule struct {
	// Attribute is the emitted attribute name; defaults to "Status".
	Attribute string
	// ClosedColumn is searched case-insensitively for a "close" marker.
	ClosedColumn tables.ColumnRef
	// EndDateColumn holds the entity's end date.
	EndDateColumn tables.ColumnRef
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Values a StatusRule emits, and the attribute it emits them under
// when none is configured.
const (
	StatusActive           = "Active"
	StatusInactive         = "Inactive"
	DefaultStatusAttribute = "Status"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"02.01.2006",
}

func (r *StatusRule) attribute() string {
	if r.Attribute == "" {
		return DefaultStatusAttribute
	}
	return r.Attribute
}

// bind resolves the rule's columns against a table. Missing status
// columns are a data-quality condition, not a configuration error: the
// corresponding check is simply skipped, matching how the source system
// tolerated absent columns.
func (r *StatusRule) bind(t *tables.Table) func(row int) string {
	if r == nil {
		return nil
	}
	closedIdx := -1
	if idx, _, err := r.ClosedColumn.Resolve(t); err == nil {
		closedIdx = idx
	}
	endIdx := -1
	if idx, _, err := r.EndDateColumn.Resolve(t); err == nil {
		endIdx = idx
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	return func(row int) string {
		if closedIdx >= 0 {
			marker := strings.ToLower(t.Cell(row, closedIdx).String())
			if strings.Contains(marker, "close") {
				return StatusInactive
			}
		}
		if endIdx >= 0 {
			raw := strings.TrimSpace(t.Cell(row, endIdx).String())
			if raw != "" {
				for _, layout := range dateLayouts {
					if end, err := time.Parse(layout, raw); err == nil {
						if end.Before(now()) {
							return StatusInactive
						}
						break
					}
				}
			}
		}
		return StatusActive
	}
}
