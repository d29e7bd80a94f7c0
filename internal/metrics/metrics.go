// Package metrics exposes Prometheus counters for spell operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for OperationsTotal.
const (
	OutcomeOK        = "ok"
	OutcomeAbsent    = "absent"
	OutcomeForbidden = "forbidden"
	OutcomeError     = "error"
)

// Metrics holds the spell collectors registered on one registry.
type Metrics struct {
	OperationsTotal *prometheus.CounterVec
	WriteDenied     *prometheus.CounterVec
	Evictions       *prometheus.CounterVec

	JournalUnits    *prometheus.GaugeVec
	JournalCapacity *prometheus.GaugeVec
}

// New creates the collectors and registers them on reg.
// A nil reg leaves them unregistered, which tests use to read counters directly.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spell_operations_total",
				Help: "Total number of spell operations by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		WriteDenied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spell_write_denied_total",
				Help: "Total number of rejected writes by caller role set",
			},
			[]string{"role"},
		),
		Evictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spell_journal_evictions_total",
				Help: "Total number of journal units evicted by capacity",
			},
			[]string{"journal"},
		),
		JournalUnits: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spell_journal_units",
				Help: "Units currently held by each journal",
			},
			[]string{"journal"},
		),
		JournalCapacity: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spell_journal_capacity",
				Help: "Configured capacity of each journal",
			},
			[]string{"journal"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.OperationsTotal, m.WriteDenied, m.Evictions, m.JournalUnits, m.JournalCapacity)
	}
	return m
}

// ObserveOperation counts one finished operation.
func (m *Metrics) ObserveOperation(op, outcome string) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(op, outcome).Inc()
}

// ObserveDenied counts a write rejected for the given role set.
func (m *Metrics) ObserveDenied(roles string) {
	if m == nil {
		return
	}
	m.WriteDenied.WithLabelValues(roles).Inc()
}

// ObserveEvictions adds n evicted units of journal.
func (m *Metrics) ObserveEvictions(journal string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Evictions.WithLabelValues(journal).Add(float64(n))
}

// SetJournal records the current size and capacity of journal.
func (m *Metrics) SetJournal(journal string, units, capacity int) {
	if m == nil {
		return
	}
	m.JournalUnits.WithLabelValues(journal).Set(float64(units))
	m.JournalCapacity.WithLabelValues(journal).Set(float64(capacity))
}
