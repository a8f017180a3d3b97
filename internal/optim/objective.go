package optim

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/kinsim/internal/experiment"
)

// SquaredError compares the simulated history with observations taken at
// arbitrary times. Simulated values are linearly interpolated to each
// observation time; observations outside the simulated span are an error.
// Only the listed species are compared.
func SquaredError(times []float64, rows [][]float64, species []int) Objective {
	return func(exp *experiment.Experiment, _ *experiment.Result) (float64, error) {
		h := exp.Network().History()
		simTimes := h.Times()

		total := 0.0
		for i, t := range times {
			j := sort.SearchFloat64s(simTimes, t)
			if j == len(simTimes) || (j == 0 && simTimes[0] != t) {
				return 0, fmt.Errorf("observation at t=%g outside simulated span [%g, %g]", t, simTimes[0], simTimes[len(simTimes)-1])
			}

			for _, s := range species {
				if s < 1 || s >= h.Width() || s >= len(rows[i]) {
					return 0, fmt.Errorf("species %d out of range", s)
				}
				sim := h.Row(j)[s]
				if simTimes[j] != t {
					t0, t1 := simTimes[j-1], simTimes[j]
					w := (t - t0) / (t1 - t0)
					sim = (1-w)*h.Row(j - 1)[s] + w*h.Row(j)[s]
				}
				d := sim - rows[i][s]
				total += d * d
			}
		}

		if math.IsInf(total, 0) {
			return 0, fmt.Errorf("squared error overflowed")
		}
		return total, nil
	}
}
