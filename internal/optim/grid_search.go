// Package optim estimates rate constants by exhaustive grid search.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/kinsim/internal/experiment"
	"gonum.org/v1/gonum/floats"
)

var ErrNoCandidate = errors.New("optim: no grid point could be evaluated")

// Objective scores a finished experiment; lower is better.
type Objective func(exp *experiment.Experiment, res *experiment.Result) (float64, error)

type GridSearch struct {
	reactions []int
	ranges    [][]float64
}

// NewGridSearch searches the cartesian product of ranges, ranges[i] being
// the candidate values of reactions[i].
func NewGridSearch(reactions []int, ranges [][]float64) (*GridSearch, error) {
	if len(reactions) != len(ranges) {
		return nil, fmt.Errorf("optim: %d reactions for %d ranges", len(reactions), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: empty range for reaction %d", reactions[i])
		}
	}
	return &GridSearch{reactions: reactions, ranges: ranges}, nil
}

// Search builds and runs one experiment per grid point and returns the
// rate constants with the lowest objective. Points whose experiment fails
// are skipped; the last such error is returned only if every point failed.
func (g *GridSearch) Search(
	ctx context.Context,
	build func(rates map[int]float64) (*experiment.Experiment, error),
	objective Objective,
) (map[int]float64, float64, error) {
	best := math.Inf(1)
	var bestRates map[int]float64
	var lastErr error

	var walk func(depth int, current map[int]float64) error
	walk = func(depth int, current map[int]float64) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if depth == len(g.reactions) {
			score, err := evaluate(ctx, current, build, objective)
			if err != nil {
				lastErr = err
				return nil
			}
			if score < best {
				best = score
				bestRates = copyRates(current)
			}
			return nil
		}

		for _, v := range g.ranges[depth] {
			next := copyRates(current)
			next[g.reactions[depth]] = v
			if err := walk(depth+1, next); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(0, map[int]float64{}); err != nil {
		return nil, 0, err
	}
	if bestRates == nil {
		if lastErr != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrNoCandidate, lastErr)
		}
		return nil, 0, ErrNoCandidate
	}
	return bestRates, best, nil
}

func evaluate(
	ctx context.Context,
	rates map[int]float64,
	build func(map[int]float64) (*experiment.Experiment, error),
	objective Objective,
) (float64, error) {
	exp, err := build(rates)
	if err != nil {
		return 0, err
	}
	res, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	score, err := objective(exp, res)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(score) {
		return 0, fmt.Errorf("optim: objective is NaN for %v", rates)
	}
	return score, nil
}

func copyRates(m map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}
