package network

import "github.com/san-kum/kinsim/internal/dynamo"

// History is the append-only record of (time, concentrations) pairs. The
// last row is the current state of the network. Each row has one column per
// species index, sentinel included.
type History struct {
	width int
	times []float64
	rows  []dynamo.State
}

func newHistory(t0 float64, x0 dynamo.State) *History {
	return &History{
		width: len(x0),
		times: []float64{t0},
		rows:  []dynamo.State{x0.Clone()},
	}
}

// Append records a new row. The row is copied.
func (h *History) Append(t float64, x dynamo.State) error {
	if len(x) != h.width {
		return ErrDimensionMismatch
	}
	if t < h.LatestTime() {
		return ErrTimeOrder
	}
	h.times = append(h.times, t)
	h.rows = append(h.rows, x.Clone())
	return nil
}

func (h *History) Len() int   { return len(h.times) }
func (h *History) Width() int { return h.width }

func (h *History) Time(i int) float64 { return h.times[i] }

// Row returns the concentrations recorded at position i. The slice is owned by the history.
func (h *History) Row(i int) dynamo.State { return h.rows[i] }

func (h *History) LatestTime() float64 { return h.times[len(h.times)-1] }

// Latest returns the current state. The slice is owned by the history.
func (h *History) Latest() dynamo.State { return h.rows[len(h.rows)-1] }

// Times returns a copy of the recorded time points.
func (h *History) Times() []float64 {
	out := make([]float64, len(h.times))
	copy(out, h.times)
	return out
}

// Column returns the concentration of one species at every recorded time.
func (h *History) Column(species int) ([]float64, error) {
	if species < 0 || species >= h.width {
		return nil, ErrIndexOutOfRange
	}
	out := make([]float64, len(h.rows))
	for i, r := range h.rows {
		out[i] = r[species]
	}
	return out, nil
}

// Matrix returns a copy of the concentration-by-time data, one row per time point.
func (h *History) Matrix() [][]float64 {
	out := make([][]float64, len(h.rows))
	for i, r := range h.rows {
		out[i] = r.Clone()
	}
	return out
}
