package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sum adds the entries at the given indices. Indices outside the state are ignored.
func (s State) Sum(indices []int) float64 {
	sum := 0.0
	for _, i := range indices {
		if i >= 0 && i < len(s) {
			sum += s[i]
		}
	}
	return sum
}

// System is the right-hand side of an autonomous or time-dependent ODE.
// Derive must not retain or modify x.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Integrator advances a state by exactly one step of size dt.
type Integrator interface {
	Step(dyn System, x State, t, dt float64) State
}

// SpanIntegrator advances a state from t to t+span, taking as many internal
// steps as it needs. It reports failure instead of returning a bad state.
type SpanIntegrator interface {
	Integrate(dyn System, x State, t, span float64) (State, error)
}

type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, t, dt float64) (State, float64, error)
}
