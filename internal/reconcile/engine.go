package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adelvt/gandi-dns-sync/internal/dns"
	"github.com/adelvt/gandi-dns-sync/internal/inventory"
	"github.com/adelvt/gandi-dns-sync/internal/metrics"
	"github.com/adelvt/gandi-dns-sync/internal/provider"
	"github.com/adelvt/gandi-dns-sync/internal/state"
)

type Engine interface {
	Reconcile(ctx context.Context, zones []inventory.Zone) Results
}

type engine struct {
	store     state.Store
	providers provider.Factory
	dryRun    bool
	metrics   *metrics.Metrics
}

func NewEngine(store state.Store, providers provider.Factory, dryRun bool, m *metrics.Metrics) *engine {
	return &engine{
		store:     store,
		providers: providers,
		dryRun:    dryRun,
		metrics:   m,
	}
}

// Reconcile processes zones sequentially. A zone's failure never aborts
// the remaining zones.
func (e *engine) Reconcile(ctx context.Context, zones []inventory.Zone) Results {
	results := Results{}
	for _, z := range zones {
		res, err := e.reconcileZone(ctx, z)
		if err != nil {
			slog.Error("Zone reconciliation failed", "zone", z.Name, "error", err)
			res.Clean = false
		}
		e.metrics.IncZoneRun(res.Clean)
		results.Zones = append(results.Zones, res)
	}
	return results
}

func (e *engine) reconcileZone(ctx context.Context, z inventory.Zone) (Result, error) {
	res := Result{Zone: z.Name}

	prov, err := e.providers(z.Name)
	if err != nil {
		return res, fmt.Errorf("resolve provider: %w", err)
	}

	prev := e.store.Load(z.Name)

	currentRecords, err := prov.GetRecords(ctx, z.Name)
	if err != nil {
		// No ground truth, leave persisted state untouched.
		return res, fmt.Errorf("fetch zone records: %w", err)
	}
	current := dns.NewSet(currentRecords...)
	desired := dns.NewSet(inventory.Desired(z)...)

	plan := Diff(prev, current, desired)
	slog.Debug("Computed plan", "zone", z.Name, "add", len(plan.Add), "delete", len(plan.Delete))

	if e.dryRun {
		slog.Info("Dry run for zone", "zone", z.Name)
		for _, r := range plan.Delete {
			slog.Info("Dry run - would delete record", "zone", z.Name, "record", r.String())
		}
		for _, r := range plan.Add {
			slog.Info("Dry run - would add record", "zone", z.Name, "record", r.String())
		}
		res.Added = plan.Add
		res.Deleted = plan.Delete
		res.Clean = true
		return res, nil
	}

	res = e.apply(ctx, prov, z.Name, plan)

	next := NextManaged(prev, desired, res.Deleted, failedAdds(res.Failures))
	if err := e.store.Save(z.Name, next); err != nil {
		return res, fmt.Errorf("save managed state: %w", err)
	}
	e.metrics.SetManagedRecords(z.Name, next.Len())

	res.Clean = len(res.Failures) == 0
	return res, nil
}

// apply executes the plan one record at a time. A record's failure is
// logged and recorded, never fatal to the rest of the batch.
func (e *engine) apply(ctx context.Context, prov provider.Provider, zone string, plan Plan) Result {
	res := Result{Zone: zone}

	for _, record := range plan.Delete {
		slog.Info("Deleting record", "zone", zone, "record", record.String())
		if err := prov.DeleteRecord(ctx, zone, record.Name, record.Type); err != nil {
			slog.Error("Failed to delete record", "zone", zone, "record", record.String(), "error", err)
			res.Failures = append(res.Failures, OperationResult{Record: record, Op: "delete", Error: err.Error()})
			continue
		}
		e.metrics.IncDNSOperation("delete", zone, string(record.Type))
		res.Deleted = append(res.Deleted, record)
	}

	for _, record := range plan.Add {
		slog.Info("Adding record", "zone", zone, "record", record.String())
		if err := prov.CreateRecord(ctx, zone, record); err != nil {
			slog.Error("Failed to add record", "zone", zone, "record", record.String(), "error", err)
			res.Failures = append(res.Failures, OperationResult{Record: record, Op: "create", Error: err.Error()})
			continue
		}
		e.metrics.IncDNSOperation("create", zone, string(record.Type))
		res.Added = append(res.Added, record)
	}
	return res
}

func failedAdds(failures []OperationResult) []dns.Record {
	var out []dns.Record
	for _, f := range failures {
		if f.Op == "create" {
			out = append(out, f.Record)
		}
	}
	return out
}
