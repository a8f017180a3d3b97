// Package kinetics computes mass-action derivatives for a reaction network
// and drives a span integrator to extend the network's concentration history.
//
// The flux of reaction r is its rate constant times the product of the
// concentrations of its reactants. The derivative of species i is the sum
// of the fluxes of the reactions producing it minus the sum of the fluxes of
// the reactions consuming it, forced to zero for constant species.
// Concentrations are never clamped: a state that goes negative stays
// negative.
package kinetics
