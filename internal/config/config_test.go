package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// isolate points the home directory at an empty temp dir so a developer's
// real ~/.cadence never leaks into tests.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{
		"CADENCE_CONFIG", "CADENCE_DB", "CADENCE_MAX_WINDOW_DAYS", "CADENCE_AGENDA_WORKERS",
		"CADENCE_LOG_LEVEL", "CADENCE_LOG_USE_CASES", "CADENCE_METRICS_TEXTFILE",
	} {
		t.Setenv(k, "")
	}
	return home
}

func TestDefaultConfig(t *testing.T) {
	home := isolate(t)

	cfg := DefaultConfig()

	assert.Equal(t, filepath.Join(home, ".cadence", "cadence.db"), cfg.DBPath)
	assert.Equal(t, 1096, cfg.MaxWindowDays)
	assert.Equal(t, 4, cfg.AgendaWorkers)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.Log.UseCases)
	assert.Empty(t, cfg.Metrics.Textfile)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	isolate(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, DefaultMaxWindowDays, cfg.MaxWindowDays)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
db_path: /tmp/plans.db
max_window_days: 400
log:
  level: debug
  use_cases: true
metrics:
  textfile: /tmp/cadence.prom
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/plans.db", cfg.DBPath)
	assert.Equal(t, 400, cfg.MaxWindowDays)
	assert.Equal(t, DefaultAgendaWorkers, cfg.AgendaWorkers, "unset keys keep defaults")
	assert.True(t, cfg.Log.UseCases)
	assert.Equal(t, "/tmp/cadence.prom", cfg.Metrics.Textfile)

	lvl, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)
}

func TestLoad_ConfigEnvSelectsFile(t *testing.T) {
	isolate(t)
	t.Setenv("CADENCE_CONFIG", writeConfig(t, "agenda_workers: 9\n"))

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 9, cfg.AgendaWorkers)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "db_path: /from/file.db\nmax_window_days: 400\n")
	t.Setenv("CADENCE_DB", "/from/env.db")
	t.Setenv("CADENCE_MAX_WINDOW_DAYS", "30")
	t.Setenv("CADENCE_AGENDA_WORKERS", "not-a-number")
	t.Setenv("CADENCE_LOG_USE_CASES", "true")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.DBPath)
	assert.Equal(t, 30, cfg.MaxWindowDays)
	assert.Equal(t, DefaultAgendaWorkers, cfg.AgendaWorkers, "invalid override ignored")
	assert.True(t, cfg.Log.UseCases)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero window", "max_window_days: 0\n"},
		{"negative workers", "agenda_workers: -1\n"},
		{"unknown level", "log:\n  level: chatty\n"},
		{"empty db path", "db_path: \"\"\n"},
		{"bad yaml", "max_window_days: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
