package simulation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SessionsSimulatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audience_sessions_simulated_total",
			Help: "Count of simulated viewing sessions by terminal outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(SessionsSimulatedTotal)
}
