// Package metrics exposes Prometheus instruments for the accounts module.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Registrations *prometheus.CounterVec
	Logins        *prometheus.CounterVec
	Logouts       prometheus.Counter
}

// New registers the accounts instruments on the default registry. Call
// once per process.
func New() *Metrics {
	return &Metrics{
		Registrations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "resgate_account_registrations_total",
			Help: "Accounts registered, by role",
		}, []string{"role"}),
		Logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "resgate_logins_total",
			Help: "Login attempts, by outcome",
		}, []string{"outcome"}),
		Logouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "resgate_logouts_total",
			Help: "Sessions revoked by logout",
		}),
	}
}
