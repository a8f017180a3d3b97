// Package network holds the topology and mutable state of a reaction network.
//
// Species and reactions are numbered from 1. Index 0 of each table is a
// sentinel: species 0 has a fixed concentration of 1.0 and is always
// constant, reaction 0 has a fixed rate constant of 0.0. Variable-arity rows
// (the reactants of a reaction, the reactions that produce or consume a
// species) are stored as rectangular [IndexMatrix] values right-padded with
// the sentinel, so padding never contributes to a rate-law product or to a
// flux sum.
//
// The topology is fixed once [Builder.Build] returns. Concentrations, rate
// constants and constancy flags may be changed in place between simulation
// runs; the participation matrices are never recomputed.
package network
