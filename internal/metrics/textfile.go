package metrics

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

// Gatherer holds the metric values of a run as gauges labelled by run,
// model and metric name.
type Gatherer struct {
	registry *prometheus.Registry
	values   *prometheus.GaugeVec
	steps    *prometheus.GaugeVec
}

func NewGatherer() *Gatherer {
	g := &Gatherer{
		registry: prometheus.NewRegistry(),
		values: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "kinsim",
			Name:      "run_metric",
			Help:      "Summary metric of a simulation run.",
		}, []string{"run", "model", "metric"}),
		steps: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "kinsim",
			Name:      "run_steps",
			Help:      "Recorded time points of a simulation run.",
		}, []string{"run", "model"}),
	}
	g.registry.MustRegister(g.values, g.steps)
	return g
}

// Record sets the gauges of one run.
func (g *Gatherer) Record(run, model string, steps int, values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		g.values.WithLabelValues(run, model, name).Set(values[name])
	}
	g.steps.WithLabelValues(run, model).Set(float64(steps))
}

// WriteTextfile writes every recorded gauge in the node exporter textfile
// format.
func (g *Gatherer) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, g.registry)
}

func (g *Gatherer) Registry() *prometheus.Registry { return g.registry }
