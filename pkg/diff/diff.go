// Package diff computes the structural difference between two indexed
// fact sets. Every discrepancy is reported from the perspective of the
// side that is missing (or disagrees with) a value, so a value mismatch
// always yields two mirrored entries, one per side.
package diff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crosscheckhq/crosscheck/pkg/facts"
)

// Side identifies one of the two compared sources.
type Side string

const (
	// SideA is the source-of-record table.
	SideA Side = "A"
	// SideB is the reference table.
	SideB Side = "B"
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// Entry is one reported discrepancy: the given side is missing, or
// disagrees with, the given value. Comments carry annotations attached
// by the exception overlay.
type Entry struct {
	Dimension string
	EntityKey string
	Attribute string
	Value     string
	MissingIn Side
	Comment1  string
	Comment2  string
}

// Key returns the entry's canonical fact key, the unit of exception
// suppression. It round-trips with the keys the exception loader builds.
func (e Entry) Key() string {
	return facts.KeyOf(e.Dimension, e.EntityKey, e.Attribute, e.Value)
}

// DisplayKey renders the entry's key in its human-readable form.
func (e Entry) DisplayKey() string {
	return strings.Join([]string{e.Dimension, e.EntityKey, e.Attribute, e.Value}, facts.DisplaySep)
}

// Set is an orderable collection of diff entries with summary counts.
type Set struct {
	Entries []Entry
	Summary Summary
}

// Summary provides summary statistics for a diff set.
type Summary struct {
	MissingInA  int
	MissingInB  int
	ByDimension map[string]int
	Total       int
}

// HasChanges returns true if the set contains any entries.
func (s *Set) HasChanges() bool {
	return s.Summary.Total > 0
}

// IsEmpty returns true if the set contains no entries.
func (s *Set) IsEmpty() bool {
	return s.Summary.Total == 0
}

// Sort orders entries by dimension, entity, attribute, side, and value,
// giving callers a deterministic emission order.
func (s *Set) Sort() {
	sort.SliceStable(s.Entries, func(i, j int) bool {
		a, b := s.Entries[i], s.Entries[j]
		if a.Dimension != b.Dimension {
			return a.Dimension < b.Dimension
		}
		if a.EntityKey != b.EntityKey {
			return a.EntityKey < b.EntityKey
		}
		if a.Attribute != b.Attribute {
			return a.Attribute < b.Attribute
		}
		if a.MissingIn != b.MissingIn {
			return a.MissingIn < b.MissingIn
		}
		return a.Value < b.Value
	})
}

// String returns a human-readable summary of the set.
func (s *Set) String() string {
	if s.IsEmpty() {
		return "No differences detected"
	}
	dims := make([]string, 0, len(s.Summary.ByDimension))
	for dim := range s.Summary.ByDimension {
		dims = append(dims, dim)
	}
	sort.Strings(dims)
	parts := make([]string, 0, len(dims))
	for _, dim := range dims {
		parts = append(parts, fmt.Sprintf("%s: %d", dim, s.Summary.ByDimension[dim]))
	}
	return fmt.Sprintf("Differences: %s (missing in A: %d, missing in B: %d, total: %d)",
		strings.Join(parts, ", "), s.Summary.MissingInA, s.Summary.MissingInB, s.Summary.Total)
}

// Recalculate recomputes the summary from the entries. Transforms that
// build or filter a set call this before returning it.
func (s *Set) Recalculate() {
	summary := Summary{ByDimension: make(map[string]int)}
	for _, e := range s.Entries {
		summary.Total++
		summary.ByDimension[e.Dimension]++
		if e.MissingIn == SideA {
			summary.MissingInA++
		} else {
			summary.MissingInB++
		}
	}
	s.Summary = summary
}
