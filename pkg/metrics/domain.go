package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ImportOutcomeCreated = "created"
	ImportOutcomeUpdated = "updated"
	ImportOutcomeFailed  = "failed"
)

// ImportMetrics counts spreadsheet rows by resource and outcome.
type ImportMetrics struct {
	rows *prometheus.CounterVec
}

func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	if reg == nil {
		return &ImportMetrics{}
	}
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_rows_total",
		Help: "Bulk import rows by resource and outcome.",
	}, []string{"resource", "outcome"})
	reg.MustRegister(rows)
	return &ImportMetrics{rows: rows}
}

// RecordRow increments the counter for one processed row.
func (m *ImportMetrics) RecordRow(resource, outcome string) {
	if m == nil || m.rows == nil {
		return
	}
	m.rows.WithLabelValues(normalizeLabel(resource), normalizeLabel(outcome)).Inc()
}

// CartMetrics counts cart mutations by kind.
type CartMetrics struct {
	events *prometheus.CounterVec
}

func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_events_total",
		Help: "Cart mutations by kind.",
	}, []string{"kind"})
	reg.MustRegister(events)
	return &CartMetrics{events: events}
}

func (m *CartMetrics) IncEvent(kind string) {
	if m == nil || m.events == nil {
		return
	}
	m.events.WithLabelValues(normalizeLabel(kind)).Inc()
}
