package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mend-ai/mend/internal/types"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mend.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeConfigFile(t, `
generator:
  type: ollama
  model: mistral
  base_url: http://127.0.0.1:11434
completion:
  max_retries: 5
  timeout_seconds: 120
log:
  level: debug
  format: json
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mistral", cfg.Generator.Model)
	assert.Equal(t, 5, cfg.Completion.MaxRetries)
	assert.Equal(t, 120, cfg.Completion.TimeoutSeconds)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoader_Load_FillsDefaults(t *testing.T) {
	path := writeConfigFile(t, `
generator:
  model: phi3
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "phi3", cfg.Generator.Model)
	assert.Equal(t, "ollama", cfg.Generator.Type)
	assert.Equal(t, DefaultConfig().Completion.MaxRetries, cfg.Completion.MaxRetries)
}

func TestLoader_Load_MissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.CONFIG_LOAD_FAILED))
}

func TestLoader_Load_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "generator: [unclosed")

	_, err := NewLoader().Load(path)
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.CONFIG_LOAD_FAILED))
}

func TestLoader_Load_InvalidValues(t *testing.T) {
	path := writeConfigFile(t, `
completion:
  max_retries: 0
`)

	_, err := NewLoader().Load(path)
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.CONFIG_VALIDATION_FAILED))
}

func TestLoader_LoadWithDefaults_NoFile(t *testing.T) {
	cfg, err := NewLoader().LoadWithDefaults("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Generator.Model, cfg.Generator.Model)
}

func TestLoader_LoadWithDefaults_MissingPathTolerated(t *testing.T) {
	cfg, err := NewLoader().LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Generator.Type)
}

func TestLoader_LoadWithDefaults_ExistingFileUsed(t *testing.T) {
	path := writeConfigFile(t, `
generator:
  model: gemma
`)

	cfg, err := NewLoader().LoadWithDefaults(path)
	require.NoError(t, err)
	assert.Equal(t, "gemma", cfg.Generator.Model)
}

func TestLoader_EnvOverride(t *testing.T) {
	t.Setenv("MEND_GENERATOR_MODEL", "env-model")

	cfg, err := NewLoader().LoadWithDefaults("")
	require.NoError(t, err)
	assert.Equal(t, "env-model", cfg.Generator.Model)
}
