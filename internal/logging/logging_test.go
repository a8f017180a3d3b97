package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestJSONWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := newLogger(Config{Level: "info", Service: "kinsim"}, &buf, false)
	require.NoError(t, err)
	defer closeFn()

	logger.Debug("hidden")
	logger.Info("run finished", "steps", 101)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "run finished", rec["msg"])
	assert.Equal(t, "kinsim", rec["service"])
	assert.Equal(t, 101.0, rec["steps"])
}

func TestTextOnTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := newLogger(Config{Level: "debug"}, &buf, true)
	require.NoError(t, err)

	logger.Debug("parsed model", "species", 2)
	assert.True(t, strings.Contains(buf.String(), "species=2"), buf.String())
}

func TestLogFileReceivesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinsim.log")
	var buf bytes.Buffer
	logger, closeFn, err := newLogger(Config{Level: "warn", File: path}, &buf, true)
	require.NoError(t, err)

	logger.Info("skipped")
	logger.Warn("negative concentration", "species", 1)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"msg":"negative concentration"`)
	assert.Contains(t, buf.String(), "negative concentration")
}
