package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGathererTextfile(t *testing.T) {
	g := NewGatherer()
	g.Record("decay_1234abcd", "decay", 101, map[string]float64{
		"mass_drift":  1e-12,
		"nonnegative": 1,
	})

	assert.Equal(t, 2, testutil.CollectAndCount(g.values))
	assert.Equal(t, 101.0, testutil.ToFloat64(g.steps.WithLabelValues("decay_1234abcd", "decay")))

	path := filepath.Join(t.TempDir(), "kinsim.prom")
	require.NoError(t, g.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `kinsim_run_metric{metric="nonnegative",model="decay",run="decay_1234abcd"} 1`), text)
	assert.True(t, strings.Contains(text, "# TYPE kinsim_run_steps gauge"), text)
}
