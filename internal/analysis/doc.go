// Package analysis inspects recorded concentration histories.
//
//   - [Phase]: trajectory of one species against another
//   - [PhaseToASCII]: terminal scatter plot of a trajectory
//   - [DominantPeriod]: period of sustained oscillations from the power spectrum
//   - [SettlingTime]: first time after which a species stays within a band of its final value
//
// Oscillating networks such as Lotka-Volterra trace closed orbits in
// phase space and show a clear spectral peak:
//
//	period, ok := analysis.DominantPeriod(times, prey)
//	if ok {
//	    // sustained oscillation with this period
//	}
package analysis
