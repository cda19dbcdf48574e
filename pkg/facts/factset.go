package facts

// Stats counts the data-quality anomalies a normalization run absorbed.
// None of these are errors: rows outside the dimension allow-list and
// attributes outside the attribute allow-list are policy drops, and
// transform failures fall back to the untransformed value. The caller
// reports them as metrics or logs.
type Stats struct {
	// Rows is the number of rows that produced facts.
	Rows int
	// RowsDropped is the number of rows with no mapped dimension.
	RowsDropped int
	// AttributesDropped is the number of cell values excluded by the
	// attribute allow-list.
	AttributesDropped int
	// TransformFallbacks is the number of values kept untransformed
	// after a transform failure.
	TransformFallbacks int
	// DuplicateFacts is the number of facts collapsed because an
	// identical fact (same key) was already present.
	DuplicateFacts int
}

// FactSet is an insertion-ordered collection of facts, deduplicated by
// key. Order preservation is load-bearing: the index's first-wins policy
// is only meaningful because iteration follows source row order.
type FactSet struct {
	facts []Fact
	seen  map[string]struct{}
	stats Stats
}

// NewFactSet returns an empty fact set.
func NewFactSet() *FactSet {
	return &FactSet{seen: make(map[string]struct{})}
}

// Add appends a fact unless an identical fact is already present.
// It reports whether the fact was added.
func (s *FactSet) Add(f Fact) bool {
	key := f.Key()
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	s.facts = append(s.facts, f)
	return true
}

// Facts returns the facts in insertion order. The returned slice is
// shared; callers must not mutate it.
func (s *FactSet) Facts() []Fact {
	return s.facts
}

// Len returns the number of distinct facts.
func (s *FactSet) Len() int {
	return len(s.facts)
}

// Stats returns the normalization statistics recorded for this set.
func (s *FactSet) Stats() Stats {
	return s.stats
}
