package reconcile

import (
	"github.com/adelvt/gandi-dns-sync/internal/dns"
)

// Diff computes the mutations for one zone from the three record sets:
// prev is what this tool created on earlier runs, current is what the
// provider serves now, desired is what the inventory wants.
//
// Only members of prev are delete candidates. A record that exists at the
// provider but was never created here is left alone no matter what the
// inventory says; manually managed records coexist safely in the zone.
// Additions are desired records not already present verbatim (full
// structural equality, TTL and value order included). A desired record
// the provider already serves costs no write.
func Diff(prev, current, desired dns.RecordSet) Plan {
	toDelete := prev.Intersect(current.Difference(desired))
	toAdd := desired.Difference(current)
	return Plan{
		Add:    toAdd.Records(),
		Delete: toDelete.Records(),
	}
}

// NextManaged computes the set to persist after an apply pass: the union
// of everything previously owned and everything desired, minus the
// records whose deletion actually succeeded, minus the records whose
// addition failed. A failed delete stays owned so the deletion is retried
// next run; a failed add is left out so the inventory offers it again
// next run.
func NextManaged(prev, desired dns.RecordSet, deleted, addFailed []dns.Record) dns.RecordSet {
	next := prev.Union(desired)
	for _, r := range deleted {
		next.Remove(r)
	}
	for _, r := range addFailed {
		next.Remove(r)
	}
	return next
}
