package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/kinsim/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSeries(t *testing.T) {
	times := []float64{0, 1}
	rows := [][]float64{{1, 1, 0}, {1, 0.4, 0.6}}

	series, err := TimeSeries(times, rows, []int{1, 2}, []string{"A", "B"})
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "B", series[1].Name)
	assert.Equal(t, analysis.Point{X: 1, Y: 0.6}, series[1].Points[1])

	_, err = TimeSeries(times, rows, []int{3}, nil)
	assert.Error(t, err)
}

func TestWriteSVG(t *testing.T) {
	series := []Series{
		{Name: "A<1>", Points: []analysis.Point{{X: 0, Y: 1}, {X: 1, Y: 0.5}, {X: 2, Y: 0.25}}},
		{Name: "B", Points: []analysis.Point{{X: 0, Y: 0}, {X: 1, Y: 0.5}, {X: 2, Y: 0.75}}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, series, 400, 200))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Equal(t, 2, strings.Count(out, "<path"))
	assert.Contains(t, out, "A&lt;1&gt;")
	assert.Contains(t, out, `d="M0.0,`)
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestWriteSVGNeedsPoints(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteSVG(&buf, []Series{{Name: "A", Points: []analysis.Point{{X: 0, Y: 1}}}}, 10, 10))
}
