package facts

// EntityRecord is the result of grouping a fact set by group key: one
// record per entity per side, holding that entity's attribute values.
type EntityRecord struct {
	GroupKey  string
	Dimension string
	EntityKey string
	// Attributes maps canonical attribute name to value. When several
	// source rows set the same attribute for one group key, the
	// first-seen value wins; this is the documented policy, chosen so
	// duplicate raw rows never produce a nondeterministic merge.
	Attributes map[string]string
}

// Name returns the record's "Name" attribute and whether it is present.
// A record with no Name at all models a spurious grouping match and is
// not reportable as missing.
func (r EntityRecord) Name() (string, bool) {
	name, ok := r.Attributes[NameAttribute]
	return name, ok
}

// Index groups a fact set by group key. Within a group, each attribute
// keeps the first value encountered in insertion order, which the
// FactSet guarantees is source row order. An empty set yields an empty
// index; there are no error cases.
func Index(set *FactSet) map[string]EntityRecord {
	index := make(map[string]EntityRecord)
	if set == nil {
		return index
	}
	for _, f := range set.Facts() {
		key := f.GroupKey()
		rec, ok := index[key]
		if !ok {
			rec = EntityRecord{
				GroupKey:   key,
				Dimension:  f.Dimension,
				EntityKey:  f.EntityKey,
				Attributes: make(map[string]string),
			}
		}
		if _, exists := rec.Attributes[f.Attribute]; !exists {
			rec.Attributes[f.Attribute] = f.Value
		}
		index[key] = rec
	}
	return index
}
