package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/kinsim/internal/config"
	"github.com/san-kum/kinsim/internal/experiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decayBuilder(reg *experiment.Registry) func(map[int]float64) (*experiment.Experiment, error) {
	return func(rates map[int]float64) (*experiment.Experiment, error) {
		cfg := config.DefaultConfig()
		cfg.Model = "decay"
		cfg.Duration = 2
		cfg.Dt = 0.1
		cfg.RateConstants = rates
		return experiment.New(cfg, reg)
	}
}

// observed decay A -> B with k = 1.5, sampled off the simulation grid
func observedDecay(k float64) ([]float64, [][]float64) {
	times := []float64{0, 0.25, 0.55, 1.05, 1.95}
	rows := make([][]float64, len(times))
	for i, t := range times {
		a := math.Exp(-k * t)
		rows[i] = []float64{0, a, 1 - a}
	}
	return times, rows
}

func TestGridSearchRecoversRate(t *testing.T) {
	times, rows := observedDecay(1.5)
	gs, err := NewGridSearch([]int{1}, [][]float64{Linspace(0.5, 2.5, 9)})
	require.NoError(t, err)

	best, score, err := gs.Search(context.Background(), decayBuilder(experiment.NewRegistry()), SquaredError(times, rows, []int{1, 2}))
	require.NoError(t, err)
	assert.InDelta(t, 1.5, best[1], 1e-12)
	assert.Less(t, score, 1e-3)
}

func TestGridSearchSkipsFailingPoints(t *testing.T) {
	times, rows := observedDecay(1.0)
	gs, err := NewGridSearch([]int{1}, [][]float64{{-1, 1}})
	require.NoError(t, err)

	build := decayBuilder(experiment.NewRegistry())
	rejectNegative := func(rates map[int]float64) (*experiment.Experiment, error) {
		if rates[1] < 0 {
			return nil, errors.New("negative rate")
		}
		return build(rates)
	}

	best, _, err := gs.Search(context.Background(), rejectNegative, SquaredError(times, rows, []int{1}))
	require.NoError(t, err)
	assert.Equal(t, 1.0, best[1])

	gs, err = NewGridSearch([]int{1}, [][]float64{{-1, -2}})
	require.NoError(t, err)
	_, _, err = gs.Search(context.Background(), rejectNegative, SquaredError(times, rows, []int{1}))
	assert.True(t, errors.Is(err, ErrNoCandidate))
}

func TestGridSearchCancelled(t *testing.T) {
	gs, err := NewGridSearch([]int{1}, [][]float64{{1, 2}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = gs.Search(ctx, decayBuilder(experiment.NewRegistry()), func(*experiment.Experiment, *experiment.Result) (float64, error) {
		return 0, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSquaredErrorOutsideSpan(t *testing.T) {
	exp, err := decayBuilder(experiment.NewRegistry())(nil)
	require.NoError(t, err)
	res, err := exp.Run(context.Background())
	require.NoError(t, err)

	_, err = SquaredError([]float64{5}, [][]float64{{0, 1, 0}}, []int{1})(exp, res)
	assert.Error(t, err)
}

func TestNewGridSearchValidates(t *testing.T) {
	_, err := NewGridSearch([]int{1, 2}, [][]float64{{1}})
	assert.Error(t, err)
	_, err = NewGridSearch([]int{1}, [][]float64{{}})
	assert.Error(t, err)
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, Linspace(0, 1, 3))
	assert.Equal(t, []float64{2}, Linspace(2, 3, 1))
}
