package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/kinsim/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*cobra.Command, *simFlags) {
	t.Helper()
	f := &simFlags{}
	cmd := &cobra.Command{Use: "run"}
	addSimFlags(cmd, f)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, f
}

func TestResolveConfigDefaults(t *testing.T) {
	cmd, f := parse(t)
	cfg, err := resolveConfig(cmd, nil, f)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestResolveConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: reversible\ndt: 0.5\nduration: 3\nrate_constants:\n  1: 4\n"), 0644))

	cmd, f := parse(t, "--config", path, "--time", "7", "--k", "2=0.25", "--pin-constants=false")
	cfg, err := resolveConfig(cmd, nil, f)
	require.NoError(t, err)

	assert.Equal(t, "reversible", cfg.Model)
	assert.Equal(t, 0.5, cfg.Dt)
	assert.Equal(t, 7.0, cfg.Duration)
	assert.Equal(t, map[int]float64{1: 4, 2: 0.25}, cfg.RateConstants)
	assert.False(t, cfg.PinConstants)
}

func TestResolveConfigModelArgument(t *testing.T) {
	cmd, f := parse(t)
	cfg, err := resolveConfig(cmd, []string{"lotka_volterra"}, f)
	require.NoError(t, err)
	assert.Equal(t, "lotka_volterra", cfg.Model)
	assert.Empty(t, cfg.ModelFile)

	cfg, err = resolveConfig(cmd, []string{"nets/enzyme.txt"}, f)
	require.NoError(t, err)
	assert.Equal(t, "nets/enzyme.txt", cfg.ModelSource())
}

func TestBuiltInNameWinsOverFile(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("decay", []byte("#molecules\nX,0,1\n"), 0644))

	cmd, f := parse(t)
	cfg, err := resolveConfig(cmd, []string{"decay"}, f)
	require.NoError(t, err)
	assert.Equal(t, "decay", cfg.Model)
	assert.Empty(t, cfg.ModelFile)

	cfg, err = resolveConfig(cmd, []string{"./decay"}, f)
	require.NoError(t, err)
	assert.Equal(t, "./decay", cfg.ModelFile)

	assert.Contains(t, newRunCmd().Long, `"./decay"`)
}

func TestResolveConfigPreset(t *testing.T) {
	cmd, f := parse(t, "--preset", "fast", "--dt", "0.02")
	cfg, err := resolveConfig(cmd, []string{"decay"}, f)
	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.RateConstants[1])
	assert.Equal(t, 0.02, cfg.Dt)

	cmd, f = parse(t, "--preset", "nope")
	_, err = resolveConfig(cmd, []string{"decay"}, f)
	assert.Error(t, err)
}

func TestResolveConfigRejectsBadOverrides(t *testing.T) {
	cmd, f := parse(t, "--conc", "A=1")
	_, err := resolveConfig(cmd, nil, f)
	assert.Error(t, err)

	cmd, f = parse(t, "--k", "0=1")
	_, err = resolveConfig(cmd, nil, f)
	assert.ErrorIs(t, err, config.ErrInvalid)

	cmd, f = parse(t, "--dt", "-1")
	_, err = resolveConfig(cmd, nil, f)
	assert.ErrorIs(t, err, config.ErrInvalid)
}
