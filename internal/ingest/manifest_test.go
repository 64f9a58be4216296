package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
sources:
  - id: qozb
    path: data/qozb.xlsx
    shape: property
    tags: [qozb]
  - id: outreach
    path: data/contacts.csv
    shape: contacts
`)

	sources, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	assert.Equal(t, "qozb", sources[0].ID)
	assert.Equal(t, ShapeProperty, sources[0].Shape)
	assert.Equal(t, []string{"qozb"}, sources[0].Tags)
	assert.Equal(t, "data/contacts.csv", sources[1].Path)
	assert.Equal(t, ShapeContacts, sources[1].Shape)
}

func TestLoadManifest_Errors(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadManifest(writeManifest(t, "sources: []\n"))
	assert.ErrorContains(t, err, "no sources")

	_, err = LoadManifest(writeManifest(t, "sources:\n  - path: a.csv\n"))
	assert.ErrorContains(t, err, "no id")

	_, err = LoadManifest(writeManifest(t, "sources:\n  - id: a\n"))
	assert.ErrorContains(t, err, "no path")

	_, err = LoadManifest(writeManifest(t, "sources: {not: a list}\n"))
	assert.Error(t, err)
}
