package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentdesk/internal/config"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desk.log")

	l, err := New(config.LogConfig{File: path, Level: "debug", Format: "json"})
	require.NoError(t, err)
	l.Debug("students loaded")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"students loaded"`)
	assert.Contains(t, string(data), `"timestamp"`)
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desk.log")

	l, err := New(config.LogConfig{File: path, Level: "warn", Format: "console"})
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "hidden"))
	assert.Contains(t, string(data), "shown")
}

func TestNew_EmptyFileIsNop(t *testing.T) {
	l, err := New(config.LogConfig{})
	require.NoError(t, err)
	assert.NotNil(t, l)
	l.Info("discarded")
}
