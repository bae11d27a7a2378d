package reconcile

import (
	"testing"

	"github.com/adelvt/gandi-dns-sync/internal/dns"
)

func rec(name string, rtype dns.Type, ttl int, values ...string) dns.Record {
	return dns.New(name, rtype, values, ttl)
}

func TestDiffDeletesOnlyOwnedRecords(t *testing.T) {
	owned := rec("@", dns.TypeA, 3600, "1.2.3.4")
	foreign := rec("mail", dns.TypeMX, 3600, "10 mail.example.com.")

	prev := dns.NewSet(owned)
	current := dns.NewSet(owned, foreign)
	desired := dns.NewSet()

	plan := Diff(prev, current, desired)

	if len(plan.Add) != 0 {
		t.Errorf("expected no additions, got %v", plan.Add)
	}
	if len(plan.Delete) != 1 || !plan.Delete[0].Equal(owned) {
		t.Errorf("expected delete of owned record only, got %v", plan.Delete)
	}
}

func TestDiffNeverProposesForeignDeletes(t *testing.T) {
	// toDelete must be a subset of prev for any inputs.
	a := rec("a", dns.TypeA, 300, "192.0.2.1")
	b := rec("b", dns.TypeAAAA, 300, "2001:db8::1")
	c := rec("c", dns.TypeCNAME, 300, "example.com.")

	cases := []struct {
		name                  string
		prev, current, desired dns.RecordSet
	}{
		{"empty prev", dns.NewSet(), dns.NewSet(a, b, c), dns.NewSet()},
		{"partial ownership", dns.NewSet(a), dns.NewSet(a, b), dns.NewSet(c)},
		{"disjoint", dns.NewSet(a), dns.NewSet(b), dns.NewSet(c)},
		{"full overlap", dns.NewSet(a, b, c), dns.NewSet(a, b, c), dns.NewSet(a)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := Diff(tc.prev, tc.current, tc.desired)
			for _, r := range plan.Delete {
				if !tc.prev.Has(r) {
					t.Errorf("proposed deleting record not previously owned: %v", r)
				}
			}
		})
	}
}

func TestDiffAdoptsExistingRecord(t *testing.T) {
	www := rec("www", dns.TypeCNAME, 10800, "example.com.")

	prev := dns.NewSet()
	current := dns.NewSet(www)
	desired := dns.NewSet(www)

	plan := Diff(prev, current, desired)
	if !plan.IsEmpty() {
		t.Errorf("expected empty plan, got add=%v delete=%v", plan.Add, plan.Delete)
	}

	next := NextManaged(prev, desired, nil, nil)
	if next.Len() != 1 || !next.Has(www) {
		t.Errorf("expected record adopted into managed set, got %v", next.Records())
	}
}

func TestDiffTTLChangeIsDifferentRecord(t *testing.T) {
	stale := rec("www", dns.TypeA, 300, "192.0.2.1")
	fresh := rec("www", dns.TypeA, 600, "192.0.2.1")

	// Stale version not owned: added alongside, never deleted.
	plan := Diff(dns.NewSet(), dns.NewSet(stale), dns.NewSet(fresh))
	if len(plan.Add) != 1 || !plan.Add[0].Equal(fresh) {
		t.Errorf("expected add of fresh record, got %v", plan.Add)
	}
	if len(plan.Delete) != 0 {
		t.Errorf("expected no delete of unowned stale record, got %v", plan.Delete)
	}

	// Stale version owned: both mutations planned.
	plan = Diff(dns.NewSet(stale), dns.NewSet(stale), dns.NewSet(fresh))
	if len(plan.Add) != 1 || len(plan.Delete) != 1 || !plan.Delete[0].Equal(stale) {
		t.Errorf("expected add+delete for owned ttl change, got add=%v delete=%v", plan.Add, plan.Delete)
	}
}

func TestDiffValueOrderSignificant(t *testing.T) {
	ordered := rec("multi", dns.TypeAAAA, 300, "2001:db8::1", "2001:db8::2")
	reversed := rec("multi", dns.TypeAAAA, 300, "2001:db8::2", "2001:db8::1")

	plan := Diff(dns.NewSet(), dns.NewSet(ordered), dns.NewSet(reversed))
	if len(plan.Add) != 1 {
		t.Errorf("expected reordered values to count as a new record, got %v", plan.Add)
	}
}

func TestDiffIdempotentAfterCleanApply(t *testing.T) {
	owned := rec("old", dns.TypeA, 300, "192.0.2.10")
	wanted := rec("new", dns.TypeA, 300, "192.0.2.11")
	foreign := rec("mail", dns.TypeMX, 3600, "10 mail.example.com.")

	prev := dns.NewSet(owned)
	current := dns.NewSet(owned, foreign)
	desired := dns.NewSet(wanted)

	plan := Diff(prev, current, desired)

	// Simulate a clean apply.
	next := NextManaged(prev, desired, plan.Delete, nil)
	applied := current.Difference(dns.NewSet(plan.Delete...)).Union(dns.NewSet(plan.Add...))

	second := Diff(next, applied, desired)
	if !second.IsEmpty() {
		t.Errorf("expected empty plan on second run, got add=%v delete=%v", second.Add, second.Delete)
	}
}

func TestNextManagedRetainsFailedDeletes(t *testing.T) {
	stuck := rec("stuck", dns.TypeA, 300, "192.0.2.20")
	prev := dns.NewSet(stuck)
	desired := dns.NewSet()

	// Deletion failed: nothing actually deleted this run.
	next := NextManaged(prev, desired, nil, nil)
	if !next.Has(stuck) {
		t.Errorf("record with failed deletion must stay owned for retry")
	}

	// Deletion succeeded: record leaves the managed set.
	next = NextManaged(prev, desired, []dns.Record{stuck}, nil)
	if next.Len() != 0 {
		t.Errorf("expected empty managed set after successful delete, got %v", next.Records())
	}
}

func TestNextManagedDropsFailedAdds(t *testing.T) {
	failed := rec("api", dns.TypeA, 300, "5.6.7.8")
	prev := dns.NewSet()
	desired := dns.NewSet(failed)

	next := NextManaged(prev, desired, nil, []dns.Record{failed})
	if next.Len() != 0 {
		t.Errorf("record with failed addition must not enter the managed set, got %v", next.Records())
	}

	// A later run recomputes the same addition.
	plan := Diff(next, dns.NewSet(), desired)
	if len(plan.Add) != 1 || !plan.Add[0].Equal(failed) {
		t.Errorf("expected identical add recomputed next run, got %v", plan.Add)
	}
}

func TestNextManagedConvergesUnderTotalFailure(t *testing.T) {
	owned := rec("old", dns.TypeA, 300, "192.0.2.10")
	wanted := rec("new", dns.TypeA, 300, "192.0.2.11")

	prev := dns.NewSet(owned)
	current := dns.NewSet(owned)
	desired := dns.NewSet(wanted)

	plan := Diff(prev, current, desired)
	next := NextManaged(prev, desired, nil, plan.Add)

	// Failed delete retained, failed add excluded.
	if !next.Has(owned) || next.Has(wanted) {
		t.Errorf("unexpected managed set after total failure: %v", next.Records())
	}

	// Retry-safe: the next run over the same remote state computes the
	// same plan.
	second := Diff(next, current, desired)
	if len(second.Add) != 1 || !second.Add[0].Equal(wanted) {
		t.Errorf("expected identical add on retry, got %v", second.Add)
	}
	if len(second.Delete) != 1 || !second.Delete[0].Equal(owned) {
		t.Errorf("expected identical delete on retry, got %v", second.Delete)
	}
}
