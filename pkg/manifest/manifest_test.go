package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagegate-dev/stagegate/pkg/manifest"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_FullManifest(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, `{
  "name": "generated-frontend",
  "version": "0.1.0",
  "dependencies": {"react": "^18.2.0", "axios": "^1.0.0"},
  "devDependencies": {"typescript": "^5.0.0", "vite": "^5.0.0"},
  "scripts": {"dev": "vite", "build": "tsc && vite build"}
}`)

	m, err := manifest.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "generated-frontend", m.Name)
	assert.True(t, m.HasDependency("react"))
	assert.True(t, m.HasDependency("typescript"))
	assert.False(t, m.HasDependency("lodash"))
	assert.True(t, m.HasScript("dev"))
	assert.False(t, m.HasScript("test"))

	declared := m.Declared()
	assert.Len(t, declared, 4)
	assert.Contains(t, declared, "axios")
	assert.Contains(t, declared, "vite")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := manifest.Load(filepath.Join(t.TempDir(), "package.json"))
	require.Error(t, err)
}

func TestLoad_InvalidJSON(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, "{not json")

	_, err := manifest.Load(path)
	require.Error(t, err)
}

func TestDeclared_EmptySets(t *testing.T) {
	t.Parallel()

	m := &manifest.Manifest{}

	assert.Empty(t, m.Declared())
}
