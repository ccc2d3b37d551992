package catalog

import "github.com/prometheus/client_golang/prometheus"

// metricsCollector instruments the one load-bearing coordination point
// in the engine, commitTransaction's conditional write: a counter per
// outcome plus a latency histogram.
type metricsCollector struct {
	attempts  prometheus.Counter
	conflicts prometheus.Counter
	latency   prometheus.Histogram
}

func newMetricsCollector(reg prometheus.Registerer) *metricsCollector {
	m := &metricsCollector{
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trinitylake",
			Subsystem: "catalog",
			Name:      "commit_attempts_total",
			Help:      "Total number of commitTransaction calls that attempted to publish a root (calls with nothing to commit are not counted).",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trinitylake",
			Subsystem: "catalog",
			Name:      "commit_conflicts_total",
			Help:      "Total number of commitTransaction calls that lost the race for the next root version.",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trinitylake",
			Subsystem: "catalog",
			Name:      "commit_duration_seconds",
			Help:      "Latency of the conditional-create root publish.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.attempts, m.conflicts, m.latency)
	}
	return m
}
