// Package metrics summarises a concentration history after a run.
package metrics

import (
	"github.com/san-kum/kinsim/internal/dynamo"
	"github.com/san-kum/kinsim/internal/network"
)

type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

// Evaluate resets each metric, replays the whole history through it and
// collects the values by name.
func Evaluate(h *network.History, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for i := 0; i < h.Len(); i++ {
			m.Observe(h.Row(i), h.Time(i))
		}
		out[m.Name()] = m.Value()
	}
	return out
}

// Default returns the metrics reported for every run. Mass is tracked over
// all non-sentinel species.
func Default(numSpecies int) []Metric {
	species := make([]int, numSpecies)
	for i := range species {
		species[i] = i + 1
	}
	return []Metric{
		NewMassDrift(species),
		NewMinConcentration(),
		NewNonNegativity(1e-12),
		NewActivity(),
	}
}
