package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry          *prometheus.Registry
	syncRuns          *prometheus.CounterVec // total sync passes
	syncDuration      prometheus.Histogram   // time to sync
	zoneRuns          *prometheus.CounterVec // per-zone reconciliations
	dnsOperations     *prometheus.CounterVec // record mutations applied
	dnsRequests       *prometheus.CounterVec // provider api requests
	inventoryRequests *prometheus.CounterVec // inventory api requests
	stateFileOps      *prometheus.CounterVec // state file reads/writes
	managedRecords    *prometheus.GaugeVec   // owned records per zone
}

// Public interface for metrics operations
func (m *Metrics) IncSyncRun(success bool) {
	m.syncRuns.WithLabelValues(boolToResult(success)).Inc()
}

func (m *Metrics) SetSyncDuration(duration time.Duration) {
	m.syncDuration.Observe(duration.Seconds())
}

func (m *Metrics) IncZoneRun(success bool) {
	m.zoneRuns.WithLabelValues(boolToResult(success)).Inc()
}

func (m *Metrics) IncDNSOperation(operation, zone, recordType string) {
	if !isValidOperation(operation) || zone == "" {
		return
	}
	m.dnsOperations.WithLabelValues(operation, zone, recordType).Inc()
}

func (m *Metrics) IncDNSRequest(operation, zone string, success bool) {
	if !isValidOperation(operation) || zone == "" {
		return
	}
	m.dnsRequests.WithLabelValues(operation, zone, boolToResult(success)).Inc()
}

func (m *Metrics) IncInventoryRequest(success bool, code int) {
	m.inventoryRequests.WithLabelValues(boolToResult(success), strconv.Itoa(code)).Inc()
}

func (m *Metrics) IncStateFileOp(operation string, success bool) {
	if !isValidOperation(operation) {
		return
	}
	m.stateFileOps.WithLabelValues(operation, boolToResult(success)).Inc()
}

func (m *Metrics) SetManagedRecords(zone string, count int) {
	m.managedRecords.WithLabelValues(zone).Set(float64(count))
}

func boolToResult(b bool) string {
	if b {
		return "success"
	}
	return "failure"
}

func isValidOperation(op string) bool {
	switch op {
	case "create", "read", "update", "delete", "skip":
		return true
	}
	return false
}

func New(register bool) *Metrics {
	registry := prometheus.NewRegistry()
	namespace := "gandi_dns_sync"

	m := &Metrics{
		registry: registry,

		syncRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_runs_total",
			Help:      "Total number of synchronization runs",
		}, []string{"status"}),

		syncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Duration of synchronization runs in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		zoneRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zone_runs_total",
			Help:      "Total per-zone reconciliation attempts",
		}, []string{"status"}),

		dnsOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dns_operations_total",
			Help:      "Total DNS record mutations applied",
		}, []string{"operation", "zone", "type"}),

		dnsRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dns_requests_total",
			Help:      "Total DNS provider requests",
		}, []string{"operation", "zone", "status"}),

		inventoryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_requests_total",
			Help:      "Total inventory API requests",
		}, []string{"status", "code"}),

		stateFileOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_file_ops_total",
			Help:      "Total persisted state file operations",
		}, []string{"operation", "status"}),

		managedRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "managed_records",
			Help:      "Records currently owned per zone",
		}, []string{"zone"}),
	}

	if register {
		registry.MustRegister(
			m.syncRuns,
			m.syncDuration,
			m.zoneRuns,
			m.dnsOperations,
			m.dnsRequests,
			m.inventoryRequests,
			m.stateFileOps,
			m.managedRecords,
		)
	}
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
