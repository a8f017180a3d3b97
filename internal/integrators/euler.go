package integrators

import "github.com/san-kum/kinsim/internal/dynamo"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	dx := dyn.Derive(x, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

// Integrate takes a single Euler step across the whole span.
func (e *Euler) Integrate(dyn dynamo.System, x dynamo.State, t, span float64) (dynamo.State, error) {
	if err := checkDim(dyn, x); err != nil {
		return nil, err
	}
	return validated(e.Step(dyn, x, t, span))
}
