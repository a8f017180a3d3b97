package integrators

import (
	"math"

	"github.com/san-kum/kinsim/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

const (
	DefaultRelTol   = 1e-6
	DefaultAbsTol   = 1e-9
	DefaultMinStep  = 1e-12
	DefaultMaxSteps = 10000
)

// RK45 is an embedded Dormand-Prince 5(4) integrator. Integrate sub-steps
// with error control and always finishes exactly on the end of its span.
type RK45 struct {
	RelTol   float64
	AbsTol   float64
	MinStep  float64
	MaxSteps int

	safety   float64
	minScale float64
	maxScale float64

	k     [7]dynamo.State
	stage dynamo.State
}

func NewRK45() *RK45 {
	return NewRK45WithTolerance(DefaultRelTol, DefaultAbsTol, DefaultMaxSteps)
}

// NewRK45WithTolerance returns an RK45 with the given error tolerances and
// substep budget. Non-positive values fall back to the defaults.
func NewRK45WithTolerance(relTol, absTol float64, maxSteps int) *RK45 {
	if relTol <= 0 {
		relTol = DefaultRelTol
	}
	if absTol <= 0 {
		absTol = DefaultAbsTol
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &RK45{
		RelTol:   relTol,
		AbsTol:   absTol,
		MinStep:  DefaultMinStep,
		MaxSteps: maxSteps,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK45) ensureScratch(n int) {
	if len(r.stage) != n {
		for i := range r.k {
			r.k[i] = make(dynamo.State, n)
		}
		r.stage = make(dynamo.State, n)
	}
}

// attempt takes one trial step of size dt and returns the fifth-order result
// together with the weighted error norm (<= 1 means acceptable).
func (r *RK45) attempt(dyn dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, float64) {
	n := len(x)
	r.ensureScratch(n)
	k1, k2, k3, k4, k5, k6, k7 := r.k[0], r.k[1], r.k[2], r.k[3], r.k[4], r.k[5], r.k[6]

	copy(k1, dyn.Derive(x, t))

	for i := 0; i < n; i++ {
		r.stage[i] = x[i] + dt*b21*k1[i]
	}
	copy(k2, dyn.Derive(r.stage, t+a2*dt))

	for i := 0; i < n; i++ {
		r.stage[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	copy(k3, dyn.Derive(r.stage, t+a3*dt))

	for i := 0; i < n; i++ {
		r.stage[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	copy(k4, dyn.Derive(r.stage, t+a4*dt))

	for i := 0; i < n; i++ {
		r.stage[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	copy(k5, dyn.Derive(r.stage, t+a5*dt))

	for i := 0; i < n; i++ {
		r.stage[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	copy(k6, dyn.Derive(r.stage, t+dt))

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	copy(k7, dyn.Derive(xNew, t+dt))

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := r.AbsTol + r.RelTol*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	return xNew, errMax
}

// nextScale returns the factor applied to the step size after an attempt
// with the given error norm.
func (r *RK45) nextScale(errNorm float64) float64 {
	switch {
	case math.IsNaN(errNorm) || math.IsInf(errNorm, 0):
		return r.minScale
	case errNorm > 1:
		return math.Max(r.minScale, r.safety*math.Pow(errNorm, -0.25))
	case errNorm > 0:
		return math.Min(r.maxScale, r.safety*math.Pow(errNorm, -0.2))
	default:
		return r.maxScale
	}
}

func (r *RK45) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	xNew, _ := r.attempt(dyn, x, t, dt)
	return xNew
}

// StepAdaptive takes one step of size dt and suggests the size of the next one.
func (r *RK45) StepAdaptive(dyn dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, float64, error) {
	xNew, errNorm := r.attempt(dyn, x, t, dt)
	if !xNew.IsValid() {
		return nil, dt * r.minScale, dynamo.ErrInvalidState
	}
	return xNew, dt * r.nextScale(errNorm), nil
}

// Integrate advances x from t to t+span. The first trial step covers the
// whole span; rejected steps shrink until the error estimate is within
// tolerance. It fails with ErrStepTooSmall or ErrMaxSteps rather than
// returning an unconverged state.
func (r *RK45) Integrate(dyn dynamo.System, x dynamo.State, t, span float64) (dynamo.State, error) {
	if err := checkDim(dyn, x); err != nil {
		return nil, err
	}
	if span <= 0 {
		return x.Clone(), nil
	}

	end := t + span
	cur := x.Clone()
	tc := t
	h := span

	for steps := 0; steps < r.MaxSteps; steps++ {
		last := false
		if remaining := end - tc; h >= remaining {
			h = remaining
			last = true
		}

		xNew, errNorm := r.attempt(dyn, cur, tc, h)
		if errNorm <= 1 && xNew.IsValid() {
			if last {
				return xNew, nil
			}
			cur = xNew
			tc += h
			h *= r.nextScale(errNorm)
			continue
		}

		h *= r.nextScale(errNorm)
		if h < r.MinStep {
			return nil, dynamo.ErrStepTooSmall
		}
	}

	return nil, dynamo.ErrMaxSteps
}
