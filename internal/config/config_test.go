package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mend-ai/mend/internal/llm"
	"github.com/mend-ai/mend/internal/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "ollama", cfg.Generator.Type)
	assert.Equal(t, "http://localhost:11434", cfg.Generator.BaseURL)
	assert.Equal(t, "llama3", cfg.Generator.Model)
	assert.Equal(t, llm.DefaultMaxRetries, cfg.Completion.MaxRetries)
	assert.Equal(t, int(llm.DefaultTimeout/time.Second), cfg.Completion.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Log.Level)

	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_UnknownGeneratorType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator.Type = "smoke-signals"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.CONFIG_VALIDATION_FAILED))
}

func TestConfig_Validate_BadRetries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Completion.MaxRetries = 0

	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_BadTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Completion.TimeoutSeconds = 0

	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_BadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "whisper"

	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate_BadLogFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Format = "xml"

	assert.Error(t, cfg.Validate())
}

func TestConfig_GeneratorConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator.Model = "mistral"
	cfg.Generator.Temperature = 0.2
	cfg.Generator.MaxTokens = 512

	gc := cfg.GeneratorConfig()
	assert.Equal(t, "ollama", gc.Type)
	assert.Equal(t, "mistral", gc.Model)
	assert.Equal(t, 0.2, gc.Temperature)
	assert.Equal(t, 512, gc.MaxTokens)
}

func TestConfig_ControllerOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Completion.MaxRetries = 5

	opts := cfg.ControllerOptions()
	assert.Len(t, opts, 3)
}
