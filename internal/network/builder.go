package network

import (
	"fmt"

	"github.com/san-kum/kinsim/internal/dynamo"
)

// Species is a modelled molecular entity.
type Species struct {
	Name          string
	Constant      bool
	Concentration float64
}

// Reaction is a mass-action transformation. Reactants enter the rate law
// and are consumed; products are produced. A species listed twice counts
// twice in both places. An empty Reactants list is a zero-order reaction.
type Reaction struct {
	Name      string
	Reactants []int
	Products  []int
	Rate      float64
}

// Builder accumulates species and reactions and produces a Network.
type Builder struct {
	species   []Species
	reactions []Reaction
}

func NewBuilder() *Builder {
	return &Builder{}
}

// AddSpecies appends a species and returns its index (starting at 1).
func (b *Builder) AddSpecies(s Species) int {
	b.species = append(b.species, s)
	return len(b.species)
}

// AddReaction appends a reaction and returns its index (starting at 1).
func (b *Builder) AddReaction(r Reaction) int {
	r.Reactants = append([]int(nil), r.Reactants...)
	r.Products = append([]int(nil), r.Products...)
	b.reactions = append(b.reactions, r)
	return len(b.reactions)
}

func (b *Builder) NumSpecies() int { return len(b.species) }

// Build validates species references and lays out the index matrices.
func (b *Builder) Build() (*Network, error) {
	n := len(b.species)
	if n == 0 {
		return nil, ErrEmptyNetwork
	}

	for ri, r := range b.reactions {
		for _, list := range [][]int{r.Reactants, r.Products} {
			for _, s := range list {
				if s < 1 || s > n {
					return nil, fmt.Errorf("reaction %d (%s): species %d: %w", ri+1, r.Name, s, ErrInvalidSpecies)
				}
			}
		}
	}

	m := len(b.reactions)
	net := &Network{
		speciesNames:  make([]string, n+1),
		reactionNames: make([]string, m+1),
		constant:      make([]bool, n+1),
		rates:         make([]float64, m+1),
	}

	x0 := make(dynamo.State, n+1)
	x0[Sentinel] = 1.0
	net.constant[Sentinel] = true
	for i, s := range b.species {
		net.speciesNames[i+1] = s.Name
		net.constant[i+1] = s.Constant
		x0[i+1] = s.Concentration
	}

	reactantRows := make([][]int, m+1)
	producedBy := make([][]int, n+1)
	consumedBy := make([][]int, n+1)
	for i, r := range b.reactions {
		ri := i + 1
		net.reactionNames[ri] = r.Name
		net.rates[ri] = r.Rate
		reactantRows[ri] = r.Reactants
		for _, s := range r.Reactants {
			consumedBy[s] = append(consumedBy[s], ri)
		}
		for _, s := range r.Products {
			producedBy[s] = append(producedBy[s], ri)
		}
	}

	net.reactants = NewIndexMatrix(reactantRows)
	net.producedBy = NewIndexMatrix(producedBy)
	net.consumedBy = NewIndexMatrix(consumedBy)
	net.history = newHistory(0, x0)

	return net, nil
}
