package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/spell/internal/logging"
	"github.com/roach88/spell/internal/store"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultDatabase, cfg.Database)
	assert.Equal(t, store.DefaultCapacities(), cfg.StoreCapacities())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.JSON)
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
database: /data/spell.sqlite
capacity:
  logs: 100
log:
  level: debug
  json: true
`))
	require.NoError(t, err)
	assert.Equal(t, "/data/spell.sqlite", cfg.Database)
	assert.Equal(t, store.Capacities{Logs: 100, Mailbox: 50, ErrorParticles: 50}, cfg.StoreCapacities())
	assert.Equal(t, LogConfig{Level: "debug", JSON: true}, cfg.Log)
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	_, err := Parse([]byte("databse: /tmp/x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "databse")
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		inPath string
	}{
		{"zero capacity", "capacity:\n  logs: 0\n", "capacity.logs"},
		{"negative mailbox", "capacity:\n  mailbox: -3\n", "capacity.mailbox"},
		{"unknown level", "log:\n  level: chatty\n", "log.level"},
		{"empty database", "database: \"\"\n", "database"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
			assert.Contains(t, err.Error(), tt.inPath)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spell.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity:\n  error_particles: 5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Capacity.ErrorParticles)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLogging(t *testing.T) {
	cfg := Default()
	cfg.Log = LogConfig{Level: "warn", JSON: true}

	lc := cfg.Logging(os.Stderr)
	assert.Equal(t, logging.WarnLevel, lc.Level)
	assert.True(t, lc.JSONOutput)
	assert.Equal(t, os.Stderr, lc.Output)
}
