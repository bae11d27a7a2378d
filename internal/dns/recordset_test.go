package dns

import (
	"reflect"
	"testing"
)

func TestRecordSetMembership(t *testing.T) {
	a := New("a", TypeA, []string{"192.0.2.1"}, 300)
	b := New("b", TypeA, []string{"192.0.2.2"}, 300)

	s := NewSet(a)
	if !s.Has(a) || s.Has(b) {
		t.Errorf("unexpected membership: has(a)=%v has(b)=%v", s.Has(a), s.Has(b))
	}

	// A structurally identical record from another source is the same
	// member.
	dup := New("a", TypeA, []string{"192.0.2.1"}, 300)
	s.Add(dup)
	if s.Len() != 1 {
		t.Errorf("expected 1 member after duplicate add, got %d", s.Len())
	}

	s.Remove(a)
	if s.Len() != 0 {
		t.Errorf("expected empty set after remove, got %d", s.Len())
	}
}

func TestRecordSetAllowsSameNameTypeVariants(t *testing.T) {
	short := New("www", TypeA, []string{"192.0.2.1"}, 300)
	long := New("www", TypeA, []string{"192.0.2.1"}, 600)

	s := NewSet(short, long)
	if s.Len() != 2 {
		t.Errorf("expected both ttl variants as distinct members, got %d", s.Len())
	}
}

func TestRecordSetOperations(t *testing.T) {
	a := New("a", TypeA, []string{"192.0.2.1"}, 300)
	b := New("b", TypeA, []string{"192.0.2.2"}, 300)
	c := New("c", TypeA, []string{"192.0.2.3"}, 300)

	left := NewSet(a, b)
	right := NewSet(b, c)

	if got := left.Union(right); got.Len() != 3 {
		t.Errorf("union: expected 3 members, got %v", got.Records())
	}
	if got := left.Difference(right); got.Len() != 1 || !got.Has(a) {
		t.Errorf("difference: expected {a}, got %v", got.Records())
	}
	if got := left.Intersect(right); got.Len() != 1 || !got.Has(b) {
		t.Errorf("intersect: expected {b}, got %v", got.Records())
	}
}

func TestRecordSetRecordsDeterministic(t *testing.T) {
	a := New("a", TypeA, []string{"192.0.2.1"}, 300)
	b := New("b", TypeA, []string{"192.0.2.2"}, 300)
	c := New("c", TypeA, []string{"192.0.2.3"}, 300)

	first := NewSet(c, a, b).Records()
	second := NewSet(b, c, a).Records()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected deterministic ordering, got %v vs %v", first, second)
	}
}

func TestZeroRecordSetUsable(t *testing.T) {
	var s RecordSet
	if s.Len() != 0 {
		t.Errorf("zero set should be empty")
	}
	s.Add(New("a", TypeA, []string{"192.0.2.1"}, 300))
	if s.Len() != 1 {
		t.Errorf("expected add on zero set to work, got %d members", s.Len())
	}
}
