// Package dynamo provides core simulation primitives for kinetic systems.
//
// The package defines the fundamental interfaces and types shared by the
// reaction network, the kinetics engine and the numerical integrators:
//
//   - [State]: vector representing system state (one entry per species)
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: single fixed-size step
//   - [SpanIntegrator]: advances a state across a whole interval
//
// # Example
//
//	net, _ := modelfile.ParseFile("decay.model")
//	eng, _ := kinetics.New(net, integrators.NewRK45(), kinetics.DefaultOptions())
//	err := eng.Simulate(1.0)
//
// # Thread Safety
//
// Nothing in this module is safe for concurrent use. A network, its history
// and the engine driving it belong to a single goroutine.
package dynamo
