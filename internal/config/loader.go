package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/mend-ai/mend/internal/types"
)

// envPrefix namespaces the environment overrides (MEND_GENERATOR_MODEL,
// MEND_COMPLETION_MAX_RETRIES, ...).
const envPrefix = "MEND"

// Loader loads configuration from files with environment overrides.
type Loader interface {
	Load(path string) (*Config, error)
	LoadWithDefaults(path string) (*Config, error)
}

// viperLoader implements Loader using Viper.
type viperLoader struct{}

// NewLoader creates a new Loader instance.
func NewLoader() Loader {
	return &viperLoader{}
}

// Load loads configuration from the specified YAML file, applies MEND_*
// environment overrides, and validates the result. Returns an error if the
// file doesn't exist or cannot be parsed.
func (l *viperLoader) Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED,
			"failed to read config file "+path, err)
	}

	return unmarshalAndValidate(v)
}

// LoadWithDefaults behaves like Load, but a missing file yields the default
// configuration (still with environment overrides applied).
func (l *viperLoader) LoadWithDefaults(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return l.Load(path)
		} else if !os.IsNotExist(err) {
			return nil, types.WrapError(types.CONFIG_LOAD_FAILED,
				"failed to stat config file "+path, err)
		}
	}

	return unmarshalAndValidate(newViper())
}

// newViper builds a viper instance with defaults and env binding in place.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("generator.type", defaults.Generator.Type)
	v.SetDefault("generator.base_url", defaults.Generator.BaseURL)
	v.SetDefault("generator.model", defaults.Generator.Model)
	v.SetDefault("generator.temperature", defaults.Generator.Temperature)
	v.SetDefault("generator.max_tokens", defaults.Generator.MaxTokens)
	v.SetDefault("completion.max_retries", defaults.Completion.MaxRetries)
	v.SetDefault("completion.timeout_seconds", defaults.Completion.TimeoutSeconds)
	v.SetDefault("completion.continuation_prompt", defaults.Completion.ContinuationPrompt)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED,
			"failed to unmarshal config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
