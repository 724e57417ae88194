package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "data/calendar.jsonl", cfg.Calendar.Path)
	assert.Equal(t, "09:00", cfg.Calendar.WindowStart)
	assert.Equal(t, "18:00", cfg.Calendar.WindowEnd)
	assert.Equal(t, 30, cfg.Calendar.StepMinutes)
	assert.False(t, cfg.OpenAI.Enabled())
}

func TestLoadFromOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
calendar:
  window_start: "08:00"
  step_minutes: 15
`), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "08:00", cfg.Calendar.WindowStart)
	assert.Equal(t, "18:00", cfg.Calendar.WindowEnd)
	assert.Equal(t, 15, cfg.Calendar.StepMinutes)
}

func TestLoadFromRejectsInvalidStep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
calendar:
  step_minutes: -5
`), 0644))

	_, err := LoadFrom(path)
	require.Error(t, err)
}

func TestLoadFromRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("calendar: ["), 0644))

	_, err := LoadFrom(path)
	require.Error(t, err)
}
