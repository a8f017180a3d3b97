package kinetics

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/kinsim/internal/dynamo"
	"github.com/san-kum/kinsim/internal/network"
)

type Options struct {
	// Dt is the spacing of recorded time points.
	Dt float64
	// PinConstants restores constant species to their pre-step value after
	// every step, discarding any numerical drift from the integrator.
	PinConstants bool
}

func DefaultOptions() Options {
	return Options{
		Dt:           0.01,
		PinConstants: true,
	}
}

// Engine borrows a network and extends its history. It is not safe for
// concurrent use.
type Engine struct {
	net        *network.Network
	integrator dynamo.SpanIntegrator
	opts       Options
	flux       []float64
	observers  []Observer
}

// Observer sees every row appended to the history during Simulate.
type Observer interface {
	Observe(x dynamo.State, t float64)
}

func New(net *network.Network, integrator dynamo.SpanIntegrator, opts Options) (*Engine, error) {
	if net == nil || integrator == nil {
		return nil, fmt.Errorf("kinetics: network and integrator are required: %w", dynamo.ErrInvalidConfig)
	}
	if opts.Dt <= 0 || math.IsNaN(opts.Dt) || math.IsInf(opts.Dt, 0) {
		return nil, fmt.Errorf("kinetics: dt must be positive, got %f: %w", opts.Dt, dynamo.ErrInvalidConfig)
	}
	return &Engine{
		net:        net,
		integrator: integrator,
		opts:       opts,
		flux:       make([]float64, net.NumReactions()+1),
	}, nil
}

func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

func (e *Engine) Network() *network.Network { return e.net }
func (e *Engine) Options() Options          { return e.opts }

// StateDim counts every species index, sentinel included.
func (e *Engine) StateDim() int { return e.net.NumSpecies() + 1 }

// Flux returns the instantaneous rate of every reaction for state x.
// x must have StateDim entries.
func (e *Engine) Flux(x dynamo.State) []float64 {
	out := make([]float64, e.net.NumReactions()+1)
	e.fillFlux(x, out)
	return out
}

func (e *Engine) fillFlux(x dynamo.State, flux []float64) {
	reactants := e.net.Reactants()
	for r := range flux {
		f := e.net.RateConstant(r)
		for _, s := range reactants.Row(r) {
			f *= x[s]
		}
		flux[r] = f
	}
}

// Derivative returns dX/dt for state x. It depends only on x and on the
// network's current rate constants, flags and topology.
func (e *Engine) Derivative(x dynamo.State) dynamo.State {
	e.fillFlux(x, e.flux)

	producedBy := e.net.ProducedBy()
	consumedBy := e.net.ConsumedBy()
	dx := make(dynamo.State, e.StateDim())
	for i := range dx {
		if e.net.IsConstant(i) {
			continue
		}
		sum := 0.0
		for _, r := range producedBy.Row(i) {
			sum += e.flux[r]
		}
		for _, r := range consumedBy.Row(i) {
			sum -= e.flux[r]
		}
		dx[i] = sum
	}
	return dx
}

// Derive lets the engine serve as the right-hand side of an integrator.
func (e *Engine) Derive(x dynamo.State, t float64) dynamo.State {
	return e.Derivative(x)
}

var epsilon = math.Nextafter(1, 2) - 1

// StepCount is the number of rows Simulate(duration) appends: duration/dt
// rounded up. Ratios within a few ulps of an integer, the rounding error of
// the division, are taken as exact.
func StepCount(duration, dt float64) int {
	if duration <= 0 || dt <= 0 {
		return 0
	}
	ratio := duration / dt
	if r := math.Round(ratio); math.Abs(ratio-r) <= 4*epsilon*math.Max(1, r) {
		return int(r)
	}
	return int(math.Ceil(ratio))
}

// Simulate advances the history from its last time point t0 in steps of dt
// until at least t0+duration is covered. The final point may overshoot
// t0+duration by less than one dt. An integrator failure stops the run;
// rows appended before the failure are kept.
func (e *Engine) Simulate(duration float64) error {
	return e.SimulateContext(context.Background(), duration)
}

// SimulateContext is Simulate with cancellation checked before every step.
// Rows recorded before cancellation are kept.
func (e *Engine) SimulateContext(ctx context.Context, duration float64) error {
	h := e.net.History()
	if len(h.Latest()) != e.StateDim() {
		return dynamo.ErrDimensionMismatch
	}

	dt := e.opts.Dt
	t0 := h.LatestTime()
	n := StepCount(duration, dt)

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := t0 + float64(i)*dt
		x := h.Latest().Clone()

		next, err := e.integrator.Integrate(e, x, t, dt)
		if err != nil {
			return &dynamo.SimulationError{Step: i + 1, Time: t, State: x, Wrapped: err}
		}

		if e.opts.PinConstants {
			for s := range next {
				if e.net.IsConstant(s) {
					next[s] = x[s]
				}
			}
		}

		tNext := t0 + float64(i+1)*dt
		if err := h.Append(tNext, next); err != nil {
			return &dynamo.SimulationError{Step: i + 1, Time: t, State: x, Wrapped: err}
		}
		for _, o := range e.observers {
			o.Observe(next, tNext)
		}
	}

	return nil
}
