package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitudes of the non-negative frequency bins
// of data after removing its mean and zero-padding to a power of two.
func PowerSpectrum(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n <<= 1
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	if len(data) > 0 {
		mean /= float64(len(data))
	}

	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod estimates the oscillation period of a series sampled at
// evenly spaced times. ok is false when there are too few samples or no
// bin beyond the zero frequency carries power.
func DominantPeriod(times, series []float64) (period float64, ok bool) {
	if len(times) != len(series) || len(series) < 8 {
		return 0, false
	}
	dt := times[1] - times[0]
	if dt <= 0 {
		return 0, false
	}

	ps := PowerSpectrum(series)
	best, bestPower := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestPower {
			best, bestPower = k, ps[k]
		}
	}
	if best == 0 || bestPower < 1e-12 {
		return 0, false
	}

	n := 2 * len(ps)
	return float64(n) * dt / float64(best), true
}

// SettlingTime returns the first recorded time after which series stays
// within tol (relative to its final value, absolute when that is zero).
func SettlingTime(times, series []float64, tol float64) float64 {
	if len(series) == 0 {
		return 0
	}
	final := series[len(series)-1]
	band := tol * math.Abs(final)
	if final == 0 {
		band = tol
	}

	settled := len(series) - 1
	for i := len(series) - 1; i >= 0; i-- {
		if math.Abs(series[i]-final) > band {
			break
		}
		settled = i
	}
	return times[settled]
}
