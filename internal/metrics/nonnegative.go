package metrics

import (
	"github.com/san-kum/kinsim/internal/dynamo"
)

// NonNegativity is the fraction of recorded states in which every real
// species is above -tolerance.
type NonNegativity struct {
	name       string
	tolerance  float64
	violations int
	samples    int
}

func NewNonNegativity(tolerance float64) *NonNegativity {
	return &NonNegativity{
		name:      "nonnegative",
		tolerance: tolerance,
	}
}

func (s *NonNegativity) Name() string {
	return s.name
}

func (s *NonNegativity) Observe(x dynamo.State, t float64) {
	s.samples++
	for _, val := range x[1:] {
		if val < -s.tolerance {
			s.violations++
			break
		}
	}
}

func (s *NonNegativity) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *NonNegativity) Reset() {
	s.violations = 0
	s.samples = 0
}
