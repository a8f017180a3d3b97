package kinetics_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kinsim/internal/dynamo"
	"github.com/san-kum/kinsim/internal/integrators"
	"github.com/san-kum/kinsim/internal/kinetics"
	"github.com/san-kum/kinsim/internal/network"
)

// decayNetwork is A -> B with rate k.
func decayNetwork(a0, k float64) *network.Network {
	b := network.NewBuilder()
	a := b.AddSpecies(network.Species{Name: "A", Concentration: a0})
	bb := b.AddSpecies(network.Species{Name: "B"})
	b.AddReaction(network.Reaction{Name: "decay", Reactants: []int{a}, Products: []int{bb}, Rate: k})
	net, err := b.Build()
	Expect(err).NotTo(HaveOccurred())
	return net
}

func newEngine(net *network.Network, integ dynamo.SpanIntegrator, dt float64) *kinetics.Engine {
	opts := kinetics.DefaultOptions()
	opts.Dt = dt
	eng, err := kinetics.New(net, integ, opts)
	Expect(err).NotTo(HaveOccurred())
	return eng
}

// failingIntegrator succeeds a fixed number of times, then fails.
type failingIntegrator struct {
	okCalls int
	calls   int
}

var errNoConvergence = errors.New("no convergence")

func (f *failingIntegrator) Integrate(dyn dynamo.System, x dynamo.State, t, span float64) (dynamo.State, error) {
	f.calls++
	if f.calls > f.okCalls {
		return nil, errNoConvergence
	}
	return x.Clone(), nil
}

type recorder struct {
	times []float64
}

func (r *recorder) Observe(x dynamo.State, t float64) { r.times = append(r.times, t) }

var _ = Describe("Engine", func() {
	Describe("construction", func() {
		It("rejects a non-positive dt", func() {
			for _, dt := range []float64{0, -0.1, math.NaN()} {
				_, err := kinetics.New(decayNetwork(1, 1), integrators.NewRK45(), kinetics.Options{Dt: dt})
				Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
			}
		})

		It("requires a network and an integrator", func() {
			_, err := kinetics.New(nil, integrators.NewRK45(), kinetics.DefaultOptions())
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
			_, err = kinetics.New(decayNetwork(1, 1), nil, kinetics.DefaultOptions())
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})
	})

	Describe("Derivative", func() {
		It("follows first-order decay for A -> B", func() {
			k := 0.7
			eng := newEngine(decayNetwork(1, k), integrators.NewRK45(), 0.01)
			for _, a := range []float64{0, 0.3, 1, 12.5} {
				dx := eng.Derivative(dynamo.State{1, a, 4})
				Expect(dx[1]).To(BeNumerically("~", -k*a, 1e-15))
				Expect(dx[2]).To(BeNumerically("~", k*a, 1e-15))
				Expect(dx[0]).To(BeZero())
			}
		})

		It("is zero when every species is empty", func() {
			b := network.NewBuilder()
			s1 := b.AddSpecies(network.Species{Name: "A"})
			s2 := b.AddSpecies(network.Species{Name: "B"})
			s3 := b.AddSpecies(network.Species{Name: "C"})
			b.AddReaction(network.Reaction{Name: "bind", Reactants: []int{s1, s2}, Products: []int{s3}, Rate: 3})
			b.AddReaction(network.Reaction{Name: "split", Reactants: []int{s3}, Products: []int{s1, s2}, Rate: 2})
			net, err := b.Build()
			Expect(err).NotTo(HaveOccurred())

			eng := newEngine(net, integrators.NewRK45(), 0.01)
			Expect(eng.Derivative(dynamo.State{1, 0, 0, 0})).To(Equal(dynamo.State{0, 0, 0, 0}))
		})

		It("fires a zero-order reaction without any reactant mass", func() {
			b := network.NewBuilder()
			s := b.AddSpecies(network.Species{Name: "S"})
			b.AddReaction(network.Reaction{Name: "inflow", Products: []int{s}, Rate: 0.4})
			net, err := b.Build()
			Expect(err).NotTo(HaveOccurred())

			eng := newEngine(net, integrators.NewRK45(), 0.01)
			Expect(eng.Flux(dynamo.State{1, 0})).To(Equal([]float64{0, 0.4}))
			Expect(eng.Derivative(dynamo.State{1, 0})[1]).To(Equal(0.4))
		})

		It("counts repeated reactants in both the rate law and the consumption", func() {
			b := network.NewBuilder()
			a := b.AddSpecies(network.Species{Name: "A"})
			d := b.AddSpecies(network.Species{Name: "A2"})
			b.AddReaction(network.Reaction{Name: "dimerize", Reactants: []int{a, a}, Products: []int{d}, Rate: 0.5})
			net, err := b.Build()
			Expect(err).NotTo(HaveOccurred())

			eng := newEngine(net, integrators.NewRK45(), 0.01)
			dx := eng.Derivative(dynamo.State{1, 3, 0})
			Expect(dx[1]).To(BeNumerically("~", -2*0.5*9, 1e-12))
			Expect(dx[2]).To(BeNumerically("~", 0.5*9, 1e-12))
		})

		It("is zero for constant species whatever the state", func() {
			net := decayNetwork(1, 2)
			Expect(net.SetConstant([]int{1}, true)).To(Succeed())
			eng := newEngine(net, integrators.NewRK45(), 0.01)

			for _, x := range []dynamo.State{{1, 1, 0}, {1, 100, -3}, {1, -2, 7}} {
				dx := eng.Derivative(x)
				Expect(dx[0]).To(BeZero())
				Expect(dx[1]).To(BeZero())
				Expect(dx[2]).To(BeNumerically("~", 2*x[1], 1e-12))
			}
		})

		It("reads rate constants as they are at call time", func() {
			net := decayNetwork(1, 1)
			eng := newEngine(net, integrators.NewRK45(), 0.01)
			Expect(net.SetRateConstants([]int{1}, []float64{3})).To(Succeed())
			Expect(eng.Derivative(dynamo.State{1, 2, 0})[1]).To(BeNumerically("~", -6, 1e-12))
		})

		It("does not modify its input", func() {
			eng := newEngine(decayNetwork(1, 1), integrators.NewRK45(), 0.01)
			x := dynamo.State{1, 0.5, 0.5}
			eng.Derivative(x)
			Expect(x).To(Equal(dynamo.State{1, 0.5, 0.5}))
		})
	})

	Describe("Simulate", func() {
		DescribeTable("appends ceil(duration/dt) rows and ends on a multiple of dt",
			func(duration, dt float64, rows int) {
				net := decayNetwork(1, 1)
				eng := newEngine(net, integrators.NewRK45(), dt)
				Expect(eng.Simulate(duration)).To(Succeed())

				h := net.History()
				Expect(h.Len()).To(Equal(rows + 1))
				Expect(kinetics.StepCount(duration, dt)).To(Equal(rows))
				Expect(h.LatestTime()).To(BeNumerically("~", float64(rows)*dt, 1e-12))
				if rows > 0 {
					Expect(h.LatestTime()).To(BeNumerically(">=", duration-1e-12))
					Expect(h.LatestTime() - duration).To(BeNumerically("<", dt))
				}
			},
			Entry("exact multiple", 1.0, 0.01, 100),
			Entry("overshoot by a partial step", 0.015, 0.01, 2),
			Entry("half step remainder", 0.25, 0.1, 3),
			Entry("float noise in the ratio", 0.3, 0.1, 3),
			Entry("just above a multiple of dt", 1.0000000001, 0.001, 1001),
			Entry("duration shorter than dt", 0.001, 0.5, 1),
			Entry("zero duration", 0.0, 0.1, 0),
			Entry("negative duration", -1.0, 0.1, 0),
		)

		It("rounds up durations that are only slightly above a multiple of dt", func() {
			Expect(kinetics.StepCount(1000000.0005, 1)).To(Equal(1000001))
			Expect(kinetics.StepCount(0.7, 0.1)).To(Equal(7))
			Expect(kinetics.StepCount(1e6, 1)).To(Equal(1000000))
		})

		It("continues from the last recorded time point", func() {
			net := decayNetwork(1, 1)
			eng := newEngine(net, integrators.NewRK45(), 0.1)
			Expect(eng.Simulate(1.0)).To(Succeed())
			Expect(eng.Simulate(0.5)).To(Succeed())

			h := net.History()
			Expect(h.Len()).To(Equal(16))
			Expect(h.LatestTime()).To(BeNumerically("~", 1.5, 1e-12))
			times := h.Times()
			for i := 1; i < len(times); i++ {
				Expect(times[i]).To(BeNumerically(">", times[i-1]))
			}
		})

		It("conserves mass and follows exp(-t) for A -> B", func() {
			net := decayNetwork(1, 1)
			eng := newEngine(net, integrators.NewRK45(), 0.01)
			Expect(eng.Simulate(1.0)).To(Succeed())

			h := net.History()
			Expect(h.Len()).To(Equal(101))
			for i := 0; i < h.Len(); i++ {
				row := h.Row(i)
				Expect(row[0]).To(Equal(1.0))
				Expect(row[1] + row[2]).To(BeNumerically("~", 1.0, 1e-9))
				Expect(row[1]).To(BeNumerically("~", math.Exp(-h.Time(i)), 1e-5))
				if i > 0 {
					prev := h.Row(i - 1)
					Expect(row[1]).To(BeNumerically("<=", prev[1]))
					Expect(row[2]).To(BeNumerically(">=", prev[2]))
				}
			}
		})

		DescribeTable("keeps a pinned species exactly at its set value",
			func(pin bool) {
				b := network.NewBuilder()
				a := b.AddSpecies(network.Species{Name: "A", Concentration: 1})
				cat := b.AddSpecies(network.Species{Name: "B", Concentration: 0.2})
				c := b.AddSpecies(network.Species{Name: "C"})
				b.AddReaction(network.Reaction{Name: "r", Reactants: []int{a, cat}, Products: []int{c}, Rate: 0.3})
				net, err := b.Build()
				Expect(err).NotTo(HaveOccurred())

				Expect(net.SetConstant([]int{cat}, true)).To(Succeed())
				Expect(net.SetConcentrations([]int{cat}, []float64{5.0})).To(Succeed())

				eng, err := kinetics.New(net, integrators.NewRK45(), kinetics.Options{Dt: 0.05, PinConstants: pin})
				Expect(err).NotTo(HaveOccurred())
				Expect(eng.Simulate(2.0)).To(Succeed())

				h := net.History()
				for i := 0; i < h.Len(); i++ {
					Expect(h.Row(i)[cat]).To(Equal(5.0))
				}
				final := h.Latest()
				Expect(final[a]).To(BeNumerically("~", math.Exp(-1.5*h.LatestTime()), 1e-5))
				Expect(final[c]).To(BeNumerically(">", 0))
			},
			Entry("with pinning", true),
			Entry("relying on the zero derivative", false),
		)

		It("does not clamp negative concentrations", func() {
			net := decayNetwork(1, 1)
			eng := newEngine(net, integrators.NewEuler(), 1.5)
			Expect(eng.Simulate(1.5)).To(Succeed())

			final := net.History().Latest()
			Expect(final[1]).To(BeNumerically("~", -0.5, 1e-12))
			Expect(final[2]).To(BeNumerically("~", 1.5, 1e-12))
		})

		It("stops on integrator failure and keeps the rows already recorded", func() {
			net := decayNetwork(1, 1)
			integ := &failingIntegrator{okCalls: 2}
			eng := newEngine(net, integ, 0.1)

			err := eng.Simulate(1.0)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, errNoConvergence)).To(BeTrue())

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Step).To(Equal(3))
			Expect(simErr.Time).To(BeNumerically("~", 0.2, 1e-12))
			Expect(net.History().Len()).To(Equal(3))
			Expect(integ.calls).To(Equal(3))
		})

		It("uses concentrations set between runs", func() {
			net := decayNetwork(1, 1)
			eng := newEngine(net, integrators.NewRK45(), 0.1)
			Expect(eng.Simulate(0.5)).To(Succeed())

			Expect(net.SetConcentrations([]int{1, 2}, []float64{2, 0})).To(Succeed())
			Expect(eng.Simulate(0.5)).To(Succeed())

			h := net.History()
			Expect(h.Row(5)[1]).To(Equal(2.0))
			Expect(h.Latest()[1]).To(BeNumerically("~", 2*math.Exp(-0.5), 1e-5))
		})

		It("reports every appended row to observers", func() {
			net := decayNetwork(1, 1)
			eng := newEngine(net, integrators.NewRK4(), 0.25)
			rec := &recorder{}
			eng.AddObserver(rec)

			Expect(eng.Simulate(1.0)).To(Succeed())
			Expect(rec.times).To(HaveLen(4))
			Expect(rec.times[3]).To(BeNumerically("~", 1.0, 1e-12))
		})

		It("stops when the context is cancelled", func() {
			net := decayNetwork(1, 1)
			eng := newEngine(net, integrators.NewRK4(), 0.1)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := eng.SimulateContext(ctx, 1.0)
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(net.History().Len()).To(Equal(1))
		})
	})
})
