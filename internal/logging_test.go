package darkgraph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "darkgraph.log")
	log, err := NewLogger(file, "debug")
	require.NoError(t, err)

	log.Debugw("reloading", "seq", 7)
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "reloading")
	assert.Contains(t, string(data), "seq")
}

func TestNewLoggerWithoutFile(t *testing.T) {
	log, err := NewLogger("", "not-a-level")
	require.NoError(t, err)
	log.Infow("discarded")
}

func TestNewLoggerRejectsLevel(t *testing.T) {
	_, err := NewLogger(filepath.Join(t.TempDir(), "x.log"), "loud")
	assert.ErrorContains(t, err, "invalid log level")
}
