package ddopt

import "github.com/prometheus/client_golang/prometheus"

// Metrics is an optional collector set a Solver reports search progress to.
// Registration is the caller's responsibility: construct with a
// prometheus.Registerer and Register will wire every collector into it, the
// same shape used elsewhere in this codebase for optional instrumentation.
type Metrics struct {
	frontierSize   prometheus.Gauge
	nodesExpanded  prometheus.Counter
	layersSquashed prometheus.Counter
	incumbentValue prometheus.Gauge
}

// NewMetrics constructs a Metrics collector set and registers it against
// reg. reg may be nil, in which case the collectors are created but never
// registered (useful for tests that just want the struct's methods to be
// callable without a live registry).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		frontierSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ddopt_frontier_size",
			Help: "Number of open subproblems currently on the frontier.",
		}),
		nodesExpanded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ddopt_nodes_expanded_total",
			Help: "Total number of frontier subproblems popped and expanded.",
		}),
		layersSquashed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ddopt_layers_squashed_total",
			Help: "Total number of relaxed-DD compilations that squashed at least one layer.",
		}),
		incumbentValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ddopt_incumbent_value",
			Help: "Value of the best incumbent solution found so far.",
		}),
	}
	if reg != nil {
		m.Register(reg)
	}
	return m
}

// Register adds every collector in m to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.frontierSize, m.nodesExpanded, m.layersSquashed, m.incumbentValue} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveFrontierSize records the current number of open subproblems.
func (m *Metrics) ObserveFrontierSize(n int) { m.frontierSize.Set(float64(n)) }

// IncNodesExpanded records that one frontier subproblem was popped and
// compiled.
func (m *Metrics) IncNodesExpanded() { m.nodesExpanded.Inc() }

// IncLayersSquashed records that a relaxed compilation squashed at least one
// layer. Solvers call it once per inexact relaxed compilation, not once per
// squashed layer.
func (m *Metrics) IncLayersSquashed() { m.layersSquashed.Inc() }

// ObserveIncumbent records a new incumbent value.
func (m *Metrics) ObserveIncumbent(v int) { m.incumbentValue.Set(float64(v)) }
