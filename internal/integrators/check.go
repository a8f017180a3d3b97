package integrators

import "github.com/san-kum/kinsim/internal/dynamo"

func checkDim(dyn dynamo.System, x dynamo.State) error {
	if len(x) != dyn.StateDim() {
		return dynamo.ErrDimensionMismatch
	}
	return nil
}

func validated(next dynamo.State) (dynamo.State, error) {
	if !next.IsValid() {
		return nil, dynamo.ErrInvalidState
	}
	return next, nil
}
