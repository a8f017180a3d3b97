package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/kinsim/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decay struct{ k float64 }

func (d *decay) StateDim() int { return 1 }

func (d *decay) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{-d.k * x[0]}
}

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

func TestRK45_IntegrateLandsOnSpan(t *testing.T) {
	integ := NewRK45()
	dyn := &decay{k: 1.0}

	x, err := integ.Integrate(dyn, dynamo.State{1.0}, 0, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-1.0), x[0], 1e-5)
}

func TestRK45_IntegrateStiffRate(t *testing.T) {
	// A large span against a fast rate forces rejected and shortened steps.
	integ := NewRK45()
	dyn := &decay{k: 50.0}

	x, err := integ.Integrate(dyn, dynamo.State{1.0}, 0, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-25.0), x[0], 1e-8)
}

func TestRK45_IntegrateZeroSpan(t *testing.T) {
	x0 := dynamo.State{0.3}
	x, err := NewRK45().Integrate(&decay{k: 1}, x0, 2.0, 0)
	require.NoError(t, err)
	assert.Equal(t, x0, x)
}

func TestRK45_IntegrateMaxSteps(t *testing.T) {
	integ := NewRK45WithTolerance(1e-12, 1e-15, 2)
	_, err := integ.Integrate(&decay{k: 100.0}, dynamo.State{1.0}, 0, 10.0)
	assert.ErrorIs(t, err, dynamo.ErrMaxSteps)
}

func TestRK45_IntegrateStepTooSmall(t *testing.T) {
	integ := NewRK45()
	integ.MinStep = 1.0
	_, err := integ.Integrate(&decay{k: 100.0}, dynamo.State{1.0}, 0, 10.0)
	assert.ErrorIs(t, err, dynamo.ErrStepTooSmall)
}

func TestRK45_IntegrateDimensionMismatch(t *testing.T) {
	_, err := NewRK45().Integrate(&decay{k: 1}, dynamo.State{1.0, 2.0}, 0, 1.0)
	assert.ErrorIs(t, err, dynamo.ErrDimensionMismatch)
}

func TestRK45_ZeroDerivativeIsExact(t *testing.T) {
	x0 := dynamo.State{5.0, 1.0}
	x, err := NewRK45().Integrate(&frozen{}, x0, 0, 0.37)
	require.NoError(t, err)
	assert.Equal(t, 5.0, x[0])
	assert.Equal(t, 1.0, x[1])
}

type frozen struct{}

func (f *frozen) StateDim() int                                 { return 2 }
func (f *frozen) Derive(x dynamo.State, t float64) dynamo.State { return dynamo.State{0, 0} }

func TestRK45_EnergyConservation(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	initialEnergy := dyn.Energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 1000; i++ {
		var err error
		x, err = integrator.Integrate(dyn, x, float64(i)*dt, dt)
		require.NoError(t, err)
	}

	drift := math.Abs(dyn.Energy(x)-initialEnergy) / initialEnergy
	if drift > 1e-5 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_AdaptiveStep(t *testing.T) {
	integrator := NewRK45WithTolerance(1e-8, 1e-10, 0)
	dyn := &harmonicOscillator{}

	x, newDt, err := integrator.StepAdaptive(dyn, dynamo.State{1.0, 0.0}, 0, 0.1)
	require.NoError(t, err)
	assert.True(t, x.IsValid(), "StepAdaptive produced invalid state")
	assert.Greater(t, newDt, 0.0)
}

func TestRK45_DefaultsForNonPositiveTolerance(t *testing.T) {
	r := NewRK45WithTolerance(0, -1, 0)
	assert.Equal(t, DefaultRelTol, r.RelTol)
	assert.Equal(t, DefaultAbsTol, r.AbsTol)
	assert.Equal(t, DefaultMaxSteps, r.MaxSteps)
}
