package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contactgraph/internal/ingest"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "contactgraph.db", cfg.Store.SQLitePath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 1, cfg.Audit.SharedChannelThreshold)
	assert.Empty(t, cfg.Sources)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
store:
  driver: sqlite
  sqlite_path: /tmp/graph.db
log:
  level: debug
  format: console
audit:
  shared_channel_threshold: 3
sources:
  - id: qozb
    path: /data/qozb.xlsx
    shape: property
    tags: [qozb]
  - id: family-office
    path: /data/fo.csv
    shape: firm
    tags: [family_office]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "/tmp/graph.db", cfg.Store.SQLitePath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.Audit.SharedChannelThreshold)

	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, ingest.ShapeProperty, cfg.Sources[0].Shape)
	assert.Equal(t, []string{"family_office"}, cfg.Sources[1].Tags)
}

func TestLoad_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONTACTGRAPH_STORE_DRIVER", "sqlite")
	t.Setenv("CONTACTGRAPH_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "bogus"}))
}
