// Package plot renders concentration histories as terminal charts.
package plot

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/floats"
)

type Options struct {
	Height int
	Width  int
	// MaxPoints downsamples long histories before plotting. Zero keeps every point.
	MaxPoints int
	Caption   string
}

func DefaultOptions() Options {
	return Options{
		Height:    12,
		Width:     80,
		MaxPoints: 400,
	}
}

// SumSeries adds up the concentrations of the given species at every time
// point. rows is concentration-by-time, one column per species index.
func SumSeries(rows [][]float64, species []int) ([]float64, error) {
	out := make([]float64, len(rows))
	picked := make([]float64, len(species))
	for i, r := range rows {
		for j, s := range species {
			if s < 0 || s >= len(r) {
				return nil, fmt.Errorf("plot: species %d out of range [0,%d)", s, len(r))
			}
			picked[j] = r[s]
		}
		out[i] = floats.Sum(picked)
	}
	return out, nil
}

// Render plots the summed concentration of species against time.
func Render(times []float64, rows [][]float64, species []int, opts Options) (string, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("plot: no data to plot")
	}
	if len(species) == 0 {
		return "", fmt.Errorf("plot: no species selected")
	}

	series, err := SumSeries(rows, species)
	if err != nil {
		return "", err
	}
	series = Downsample(series, opts.MaxPoints)

	caption := opts.Caption
	if caption == "" {
		caption = fmt.Sprintf("sum of species %s", joinInts(species))
	}
	if len(times) > 0 {
		caption += fmt.Sprintf(" (t=%.4g..%.4g)", times[0], times[len(times)-1])
	}

	graphOpts := []asciigraph.Option{asciigraph.Caption(caption)}
	if opts.Height > 0 {
		graphOpts = append(graphOpts, asciigraph.Height(opts.Height))
	}
	if opts.Width > 0 {
		graphOpts = append(graphOpts, asciigraph.Width(opts.Width))
	}

	return asciigraph.Plot(series, graphOpts...), nil
}

// Downsample keeps at most n evenly spaced points, always including the last one.
func Downsample(data []float64, n int) []float64 {
	if n <= 1 || len(data) <= n {
		return data
	}
	out := make([]float64, n)
	stride := float64(len(data)-1) / float64(n-1)
	for i := range out {
		out[i] = data[int(float64(i)*stride+0.5)]
	}
	return out
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, "+")
}
