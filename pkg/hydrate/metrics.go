package hydrate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports reconciliation diagnostics to Prometheus. It is the
// out-of-band diagnostics channel for recovered hydration failures:
// verification passes and tooling attach one via Options.Metrics.
type Metrics struct {
	mismatches *prometheus.CounterVec
	fallbacks  prometheus.Counter
	hosts      prometheus.Counter
	reused     prometheus.Counter
}

// NewMetrics registers hydration metrics with the given registerer.
// Pass prometheus.DefaultRegisterer for the default registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		mismatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hydration",
			Name:      "mismatches_total",
			Help:      "Recovered hydration mismatches by kind.",
		}, []string{"kind"}),
		fallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hydration",
			Name:      "fallback_hosts_total",
			Help:      "Host subtrees that lost node reuse and fell back to client rendering.",
		}),
		hosts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hydration",
			Name:      "hosts_total",
			Help:      "Host instances reconciled.",
		}),
		reused: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hydration",
			Name:      "nodes_reused_total",
			Help:      "Server-rendered nodes successfully reused.",
		}),
	}
}

// observe records one run's diagnostics.
func (m *Metrics) observe(d *Diagnostics) {
	if m == nil {
		return
	}
	for _, mm := range d.Mismatches {
		m.mismatches.WithLabelValues(mm.Kind.String()).Inc()
	}
	m.fallbacks.Add(float64(len(d.FallbackHosts)))
	m.hosts.Add(float64(d.HostsSeen))
	m.reused.Add(float64(d.NodesReused))
}
