package metrics

import (
	"math"

	"github.com/san-kum/kinsim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// MassDrift reports the largest relative change of the summed
// concentration of a set of species. It is only meaningful for networks
// that conserve that sum.
type MassDrift struct {
	name     string
	species  []int
	initial  float64
	maxDrift float64
	samples  int
}

func NewMassDrift(species []int) *MassDrift {
	return &MassDrift{
		name:    "mass_drift",
		species: append([]int(nil), species...),
	}
}

func (m *MassDrift) Name() string { return m.name }

func (m *MassDrift) Observe(x dynamo.State, t float64) {
	mass := x.Sum(m.species)
	if m.samples == 0 {
		m.initial = mass
	}
	m.samples++

	drift := math.Abs(mass - m.initial)
	if m.initial != 0 {
		drift /= math.Abs(m.initial)
	}
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MassDrift) Value() float64 { return m.maxDrift }

func (m *MassDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}

// MinConcentration is the smallest concentration seen in any real species.
// A negative value means the integration drifted below zero.
type MinConcentration struct {
	name    string
	min     float64
	samples int
}

func NewMinConcentration() *MinConcentration {
	return &MinConcentration{name: "min_concentration"}
}

func (m *MinConcentration) Name() string { return m.name }

func (m *MinConcentration) Observe(x dynamo.State, t float64) {
	if len(x) < 2 {
		return
	}
	if v := floats.Min(x[1:]); m.samples == 0 || v < m.min {
		m.min = v
	}
	m.samples++
}

func (m *MinConcentration) Value() float64 { return m.min }

func (m *MinConcentration) Reset() {
	m.min = 0
	m.samples = 0
}
