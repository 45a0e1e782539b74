// Package config loads and validates the mend configuration.
package config

import (
	"fmt"
	"time"

	"github.com/mend-ai/mend/internal/llm"
	"github.com/mend-ai/mend/internal/types"
)

// Config is the root configuration for the mend CLI.
type Config struct {
	Generator  GeneratorSettings  `yaml:"generator" mapstructure:"generator"`
	Completion CompletionSettings `yaml:"completion" mapstructure:"completion"`
	Log        LogSettings        `yaml:"log" mapstructure:"log"`
}

// GeneratorSettings selects and configures the model backend.
type GeneratorSettings struct {
	Type        string  `yaml:"type" mapstructure:"type"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// CompletionSettings tunes the completion controller.
type CompletionSettings struct {
	MaxRetries         int    `yaml:"max_retries" mapstructure:"max_retries"`
	TimeoutSeconds     int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	ContinuationPrompt string `yaml:"continuation_prompt" mapstructure:"continuation_prompt"`
}

// LogSettings configures structured logging.
type LogSettings struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Generator: GeneratorSettings{
			Type:    "ollama",
			BaseURL: "http://localhost:11434",
			Model:   "llama3",
		},
		Completion: CompletionSettings{
			MaxRetries:         llm.DefaultMaxRetries,
			TimeoutSeconds:     int(llm.DefaultTimeout / time.Second),
			ContinuationPrompt: llm.DefaultContinuationPrompt,
		},
		Log: LogSettings{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the configuration for values the rest of the system cannot
// work with.
func (c *Config) Validate() error {
	switch c.Generator.Type {
	case "", "ollama", "mock":
	default:
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("unknown generator type %q", c.Generator.Type))
	}

	if c.Completion.MaxRetries < 1 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("completion.max_retries must be at least 1, got %d", c.Completion.MaxRetries))
	}

	if c.Completion.TimeoutSeconds < 1 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("completion.timeout_seconds must be at least 1, got %d", c.Completion.TimeoutSeconds))
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("unknown log level %q", c.Log.Level))
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("unknown log format %q", c.Log.Format))
	}

	return nil
}

// GeneratorConfig converts the generator settings into the llm package's
// construction config.
func (c *Config) GeneratorConfig() llm.GeneratorConfig {
	return llm.GeneratorConfig{
		Type:        c.Generator.Type,
		BaseURL:     c.Generator.BaseURL,
		Model:       c.Generator.Model,
		Temperature: c.Generator.Temperature,
		MaxTokens:   c.Generator.MaxTokens,
	}
}

// ControllerOptions converts the completion settings into controller
// options.
func (c *Config) ControllerOptions() []llm.ControllerOption {
	return []llm.ControllerOption{
		llm.WithMaxRetries(c.Completion.MaxRetries),
		llm.WithTimeout(time.Duration(c.Completion.TimeoutSeconds) * time.Second),
		llm.WithContinuationPrompt(c.Completion.ContinuationPrompt),
	}
}
