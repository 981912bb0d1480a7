// Package metrics exposes the reachability engine's running counters as
// Prometheus instruments (spec.md's ambient observability stack).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector holds every metric the Driver updates across a run. Callers
// register it with their own prometheus.Registerer, matching the
// library's usual "bring your own registry" convention.
type Collector struct {
	Iterations prometheus.Counter
	Merges     prometheus.Counter
	Facts      prometheus.Gauge
	Tuples     prometheus.Counter
	Classes    prometheus.Gauge
}

// NewCollector creates and registers a Collector against reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		Iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reach_iterations_total",
			Help: "Outer fixed-point iterations run by the reachability driver.",
		}),
		Merges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reach_eog_merges_total",
			Help: "Equivalent Object Group merges performed.",
		}),
		Facts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "reach_live_facts",
			Help: "Currently live reachable facts.",
		}),
		Tuples: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reach_support_tuples_total",
			Help: "Support tuples discovered across the run.",
		}),
		Classes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "reach_equivalence_classes",
			Help: "Current number of object equivalence classes.",
		}),
	}
	reg.MustRegister(c.Iterations, c.Merges, c.Facts, c.Tuples, c.Classes)
	return c
}
