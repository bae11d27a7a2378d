package reconcile

import (
	"github.com/adelvt/gandi-dns-sync/internal/dns"
)

// Plan holds the record mutations computed for one zone.
type Plan struct {
	Add    []dns.Record
	Delete []dns.Record
}

func (p Plan) IsEmpty() bool {
	return len(p.Add) == 0 && len(p.Delete) == 0
}

type OperationResult struct {
	Record dns.Record
	Op     string
	Error  string
}

// Result is the outcome for one zone. Clean is true when every planned
// mutation landed and the new state was persisted.
type Result struct {
	Zone     string
	Added    []dns.Record
	Deleted  []dns.Record
	Failures []OperationResult
	Clean    bool
}

type Results struct {
	Zones []Result
}

// Clean reports whether every zone reconciled without failure.
func (r Results) Clean() bool {
	for _, z := range r.Zones {
		if !z.Clean {
			return false
		}
	}
	return true
}

func (r Results) Counts() (added, deleted, failed int) {
	for _, z := range r.Zones {
		added += len(z.Added)
		deleted += len(z.Deleted)
		failed += len(z.Failures)
	}
	return added, deleted, failed
}
