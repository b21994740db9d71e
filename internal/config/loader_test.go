package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagegate-dev/stagegate/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".stagegate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultRoot, cfg.Root)
	assert.Equal(t, config.DefaultERDPath, cfg.ERDPath)
	assert.Equal(t, config.DefaultOpenAPIPath, cfg.OpenAPIPath)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, cfg.Stages)
	assert.Equal(t, config.DefaultFormat, cfg.Format)
	assert.True(t, cfg.Color)
	assert.Equal(t, config.DefaultBaselineDir, cfg.Baseline.Dir)
	assert.Equal(t, config.DefaultBaselineCodec, cfg.Baseline.Codec)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfig(t, `
root: /srv/generated
stages: [2, 5]
format: json
engine:
  excluded_dirs: [vendor]
  loader_concurrency: 4
baseline:
  codec: lz4
  update: true
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/generated", cfg.Root)
	assert.Equal(t, []int{2, 5}, cfg.Stages)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, []string{"vendor"}, cfg.Engine.ExcludedDirs)
	assert.Equal(t, 4, cfg.Engine.LoaderConcurrency)
	assert.Equal(t, "lz4", cfg.Baseline.Codec)
	assert.True(t, cfg.Baseline.Update)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("STAGEGATE_FORMAT", "yaml")
	t.Setenv("STAGEGATE_ROOT", "/tmp/tree")

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "/tmp/tree", cfg.Root)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultFormat, cfg.Format)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	_, err := config.LoadConfig(writeConfig(t, "root: [unclosed"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() config.Config {
		return config.Config{
			Stages:   []int{1},
			Format:   "console",
			Baseline: config.BaselineConfig{Codec: "json"},
		}
	}

	cfg := base()
	require.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Stages = []int{0}
	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidStage)

	cfg = base()
	cfg.Stages = []int{6}
	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidStage)

	cfg = base()
	cfg.Format = "xml"
	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidFormat)

	cfg = base()
	cfg.Baseline.Codec = "zstd"
	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidCodec)

	cfg = base()
	cfg.Engine.LoaderConcurrency = -1
	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidConcurrency)

	cfg = base()
	cfg.Observability.SampleRatio = 1.5
	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidSampleRatio)
}
