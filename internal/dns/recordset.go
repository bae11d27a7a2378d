package dns

import "sort"

// RecordSet is a set of records for one zone, keyed by full structural
// identity. Two records for the same (name, type) with different values
// or TTL are distinct members; that transient duplication is resolved by
// the reconciler's diff rules, not here.
type RecordSet struct {
	records map[string]Record
}

func NewSet(records ...Record) RecordSet {
	s := RecordSet{records: make(map[string]Record, len(records))}
	for _, r := range records {
		s.Add(r)
	}
	return s
}

func (s *RecordSet) Add(r Record) {
	if s.records == nil {
		s.records = make(map[string]Record)
	}
	s.records[r.Key()] = r
}

func (s *RecordSet) Remove(r Record) {
	delete(s.records, r.Key())
}

func (s RecordSet) Has(r Record) bool {
	_, ok := s.records[r.Key()]
	return ok
}

func (s RecordSet) Len() int {
	return len(s.records)
}

// Records returns the members in a deterministic order.
func (s RecordSet) Records() []Record {
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key() < out[j].Key()
	})
	return out
}

func (s RecordSet) Union(other RecordSet) RecordSet {
	out := NewSet()
	for _, r := range s.records {
		out.Add(r)
	}
	for _, r := range other.records {
		out.Add(r)
	}
	return out
}

func (s RecordSet) Difference(other RecordSet) RecordSet {
	out := NewSet()
	for _, r := range s.records {
		if !other.Has(r) {
			out.Add(r)
		}
	}
	return out
}

func (s RecordSet) Intersect(other RecordSet) RecordSet {
	out := NewSet()
	for _, r := range s.records {
		if other.Has(r) {
			out.Add(r)
		}
	}
	return out
}
