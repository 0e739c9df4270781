package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the cases module.
// Tracks report/claim/resolve volume, claim contention, and the duration
// of the claim critical path.
type Metrics struct {
	CasesReported   prometheus.Counter
	CasesResolved   prometheus.Counter
	ClaimAttempts   *prometheus.CounterVec
	MessagesSent    prometheus.Counter
	ClaimDuration   prometheus.Histogram
	FeedSubscribers prometheus.Gauge
}

// New creates a new Metrics instance with all cases module metrics registered.
func New() *Metrics {
	return &Metrics{
		CasesReported: promauto.NewCounter(prometheus.CounterOpts{
			Name: "resgate_cases_reported_total",
			Help: "Total number of cases reported by citizens",
		}),
		CasesResolved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "resgate_cases_resolved_total",
			Help: "Total number of cases resolved by organizations",
		}),
		ClaimAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "resgate_claim_attempts_total",
			Help: "Claim attempts by outcome (won, lost, rejected)",
		}, []string{"outcome"}),
		MessagesSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "resgate_case_messages_total",
			Help: "Total number of case conversation messages appended",
		}),
		ClaimDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "resgate_claim_duration_seconds",
			Help:    "Duration of claim attempts (contested write path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		FeedSubscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "resgate_feed_subscribers",
			Help: "Currently connected live feed subscribers",
		}),
	}
}

// IncrementCaseReported records a successfully reported case.
func (m *Metrics) IncrementCaseReported() {
	m.CasesReported.Inc()
}

// IncrementCaseResolved records a successfully resolved case.
func (m *Metrics) IncrementCaseResolved() {
	m.CasesResolved.Inc()
}

// IncrementClaimAttempt records the outcome of a claim attempt.
func (m *Metrics) IncrementClaimAttempt(outcome string) {
	m.ClaimAttempts.WithLabelValues(outcome).Inc()
}

// IncrementMessageSent records an appended conversation message.
func (m *Metrics) IncrementMessageSent() {
	m.MessagesSent.Inc()
}

// ObserveClaim records the duration of a claim attempt.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveClaim(start time.Time) {
	m.ClaimDuration.Observe(time.Since(start).Seconds())
}
