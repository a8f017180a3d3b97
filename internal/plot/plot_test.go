package plot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rows = [][]float64{
	{1, 1.0, 0.0, 2},
	{1, 0.5, 0.5, 2},
	{1, 0.25, 0.75, 2},
}

func TestSumSeries(t *testing.T) {
	got, err := SumSeries(rows, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, got)

	got, err = SumSeries(rows, []int{1})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0.5, 0.25}, got)

	_, err = SumSeries(rows, []int{4})
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	out, err := Render([]float64{0, 0.5, 1}, rows, []int{1}, DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, out, "sum of species 1 (t=0..1)")
	assert.Greater(t, len(strings.Split(out, "\n")), 3)

	_, err = Render(nil, nil, []int{1}, DefaultOptions())
	assert.Error(t, err)
	_, err = Render([]float64{0}, rows[:1], nil, DefaultOptions())
	assert.Error(t, err)
}

func TestDownsample(t *testing.T) {
	data := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, data, Downsample(data, 0))
	assert.Equal(t, data, Downsample(data, 20))

	got := Downsample(data, 3)
	assert.Equal(t, []float64{0, 5, 10}, got)
}
