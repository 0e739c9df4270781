package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the orgs module.
type Metrics struct {
	Registrations       prometheus.Counter
	Decisions           *prometheus.CounterVec
	DocumentUploads     *prometheus.CounterVec
	DocumentRelocations *prometheus.CounterVec
}

// New creates a new Metrics instance with all orgs module metrics registered.
func New() *Metrics {
	return &Metrics{
		Registrations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "resgate_org_registrations_total",
			Help: "Total number of organization registrations submitted",
		}),
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "resgate_org_decisions_total",
			Help: "Registration review decisions by outcome (approved, rejected)",
		}, []string{"decision"}),
		DocumentUploads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "resgate_org_document_uploads_total",
			Help: "Registration document uploads by outcome (stored, failed)",
		}, []string{"outcome"}),
		DocumentRelocations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "resgate_org_document_relocations_total",
			Help: "Document moves between status folders by outcome (moved, failed)",
		}, []string{"outcome"}),
	}
}

// IncrementRegistration records a submitted registration.
func (m *Metrics) IncrementRegistration() {
	m.Registrations.Inc()
}

// IncrementDecision records a review decision.
func (m *Metrics) IncrementDecision(decision string) {
	m.Decisions.WithLabelValues(decision).Inc()
}

// IncrementDocumentUpload records a document upload outcome.
func (m *Metrics) IncrementDocumentUpload(outcome string) {
	m.DocumentUploads.WithLabelValues(outcome).Inc()
}

// IncrementDocumentRelocation records a document relocation outcome.
func (m *Metrics) IncrementDocumentRelocation(outcome string) {
	m.DocumentRelocations.WithLabelValues(outcome).Inc()
}
