package network

import (
	"fmt"

	"github.com/san-kum/kinsim/internal/dynamo"
)

// Network is a reaction network: static topology plus the mutable rate
// constants, constancy flags and concentration history.
type Network struct {
	speciesNames  []string
	reactionNames []string

	constant []bool
	rates    []float64

	reactants  IndexMatrix // one row per reaction, species indices
	producedBy IndexMatrix // one row per species, reaction indices
	consumedBy IndexMatrix // one row per species, reaction indices

	history *History
}

// NumSpecies is the number of real species, excluding the sentinel.
func (n *Network) NumSpecies() int { return len(n.speciesNames) - 1 }

// NumReactions is the number of real reactions, excluding the sentinel.
func (n *Network) NumReactions() int { return len(n.reactionNames) - 1 }

func (n *Network) SpeciesName(i int) string  { return n.speciesNames[i] }
func (n *Network) ReactionName(i int) string { return n.reactionNames[i] }

func (n *Network) IsConstant(i int) bool      { return n.constant[i] }
func (n *Network) RateConstant(i int) float64 { return n.rates[i] }

// ConstantMask returns 1 for constant species and 0 otherwise, sentinel included.
func (n *Network) ConstantMask() []float64 {
	mask := make([]float64, len(n.constant))
	for i, c := range n.constant {
		if c {
			mask[i] = 1
		}
	}
	return mask
}

// RateConstants returns a copy of the rate constants, sentinel included.
func (n *Network) RateConstants() []float64 {
	out := make([]float64, len(n.rates))
	copy(out, n.rates)
	return out
}

func (n *Network) Reactants() IndexMatrix  { return n.reactants }
func (n *Network) ProducedBy() IndexMatrix { return n.producedBy }
func (n *Network) ConsumedBy() IndexMatrix { return n.consumedBy }

// Products returns the species produced by reaction r, one entry per molecule.
func (n *Network) Products(r int) []int {
	var out []int
	for s := 1; s < n.producedBy.Rows(); s++ {
		for _, ri := range n.producedBy.Row(s) {
			if ri == r {
				out = append(out, s)
			}
		}
	}
	return out
}

func (n *Network) History() *History { return n.history }

// Concentrations returns a copy of the current concentration row.
func (n *Network) Concentrations() dynamo.State { return n.history.Latest().Clone() }

// SetRateConstants overwrites the rate constants of the given reactions.
// Every index is checked before anything is written.
func (n *Network) SetRateConstants(reactions []int, values []float64) error {
	if err := checkIndices(reactions, values, len(n.rates)); err != nil {
		return fmt.Errorf("set rate constants: %w", err)
	}
	for i, r := range reactions {
		n.rates[r] = values[i]
	}
	return nil
}

// SetConcentrations overwrites the given species in the current (latest)
// history row. Earlier rows are left untouched.
func (n *Network) SetConcentrations(species []int, values []float64) error {
	if err := checkIndices(species, values, len(n.constant)); err != nil {
		return fmt.Errorf("set concentrations: %w", err)
	}
	row := n.history.Latest()
	for i, s := range species {
		row[s] = values[i]
	}
	return nil
}

// SetConstant flags or unflags species as constant.
func (n *Network) SetConstant(species []int, constant bool) error {
	for _, s := range species {
		if err := checkIndex(s, len(n.constant)); err != nil {
			return fmt.Errorf("set constant: %w", err)
		}
	}
	for _, s := range species {
		n.constant[s] = constant
	}
	return nil
}

// CheckSpecies reports the first index that SetConcentrations or
// SetConstant would reject, without changing anything.
func (n *Network) CheckSpecies(species []int) error {
	for _, s := range species {
		if err := checkIndex(s, len(n.constant)); err != nil {
			return err
		}
	}
	return nil
}

// CheckReactions is CheckSpecies for rate constant indices.
func (n *Network) CheckReactions(reactions []int) error {
	for _, r := range reactions {
		if err := checkIndex(r, len(n.rates)); err != nil {
			return err
		}
	}
	return nil
}

func checkIndices(indices []int, values []float64, size int) error {
	if len(indices) != len(values) {
		return ErrDimensionMismatch
	}
	for _, i := range indices {
		if err := checkIndex(i, size); err != nil {
			return err
		}
	}
	return nil
}

func checkIndex(i, size int) error {
	if i == Sentinel {
		return ErrSentinelIndex
	}
	if i < 0 || i >= size {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return nil
}
