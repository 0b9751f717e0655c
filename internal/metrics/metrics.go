package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors groups the inventory metrics. Tests build their own set with
// New(prometheus.NewRegistry()) so registrations never clash.
type Collectors struct {
	Mutations          *prometheus.CounterVec
	DuplicateConflicts *prometheus.CounterVec
	StorageErrors      *prometheus.CounterVec
	Records            prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_mutations_total",
				Help: "Inventory mutations by operation and result",
			},
			[]string{"operation", "result"},
		),
		DuplicateConflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_duplicate_conflicts_total",
				Help: "Rejected writes caused by a description and location collision",
			},
			[]string{"operation"},
		),
		StorageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_storage_errors_total",
				Help: "Storage read and write failures by backend",
			},
			[]string{"backend", "operation"},
		),
		Records: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "inventory_records",
				Help: "Number of records in the last loaded snapshot",
			},
		),
	}

	reg.MustRegister(c.Mutations, c.DuplicateConflicts, c.StorageErrors, c.Records)
	return c
}
