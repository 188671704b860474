package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of full audience evaluations (segment -> simulate -> aggregate -> optimize)
	EvaluationLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "audience_evaluation_latency_seconds",
		Help:    "Latency of complete audience evaluation runs",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of evaluation requests served
	EvaluationRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audience_evaluation_requests_total",
		Help: "Total number of audience evaluation requests",
	})
)

func Init() {
	prometheus.MustRegister(
		EvaluationLatency,
		EvaluationRequests,
	)
}
