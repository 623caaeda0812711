package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sensei.log")

	logger, err := New(path, "debug")
	require.NoError(t, err)

	logger.Info("backend call", zap.String("path", "/quiz/generate"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.Contains(t, line, `"msg":"backend call"`)
	assert.Contains(t, line, `"path":"/quiz/generate"`)
	assert.Contains(t, line, `"level":"info"`)
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensei.log")

	logger, err := New(path, "warn")
	require.NoError(t, err)
	logger.Info("dropped")
	logger.Warn("kept")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "x.log"), "loud")
	assert.Error(t, err)
}

func TestDefaultLogPath(t *testing.T) {
	t.Setenv("SENSEI_LOG_FILE", "")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	p, err := DefaultLogPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/state/sensei/sensei.log", p)

	t.Setenv("SENSEI_LOG_FILE", "/var/log/custom.log")
	p, err = DefaultLogPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/log/custom.log", p)
}
