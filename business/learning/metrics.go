package learning

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LearnUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audience_learn_updates_total",
			Help: "Count of brand profile learning updates by signal strength.",
		},
		[]string{"signal"},
	)
)

func init() {
	prometheus.MustRegister(LearnUpdatesTotal)
}
