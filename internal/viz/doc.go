// Package viz is the terminal viewer behind `kinsim live`.
//
// [Model] is a Bubble Tea program that advances an experiment a slice of
// simulated time per frame and charts the summed concentration of the
// selected species with asciigraph.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the network from its config
//	Tab   - Select the next reaction
//	Up/K  - Raise the selected rate constant by 5%
//	Down/J - Lower the selected rate constant by 5%
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
