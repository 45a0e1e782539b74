// Package llm contains the completion layer for small local models: the
// generator abstraction, the completion controller that compensates for
// truncation, looping, and upstream failures, and the text heuristics the
// controller relies on.
package llm

import (
	"context"

	"github.com/mend-ai/mend/internal/types"
)

// Generation is the raw output of a single generation call.
type Generation struct {
	// Text is the unstructured model output.
	Text string `json:"text"`

	// Model is the model that produced the text, when known.
	Model string `json:"model,omitempty"`
}

// Generator is the text-generation capability the completion controller
// wraps. Implementations talk to a model server (or a test double); the
// controller owns timeout, retry, and continuation behavior on top.
type Generator interface {
	// Name returns the generator name (e.g., "ollama", "mock")
	Name() string

	// Generate produces text for the given prompt. This is a blocking call
	// that resolves with the full response or an error carrying a
	// descriptive message.
	Generate(ctx context.Context, prompt string) (*Generation, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (*Generation, error)

// Name returns the fixed name of function-backed generators.
func (f GeneratorFunc) Name() string { return "func" }

// Generate calls the wrapped function.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (*Generation, error) {
	return f(ctx, prompt)
}

// HealthChecker is implemented by generators that can cheaply probe their
// backing server before the first generation.
type HealthChecker interface {
	Health(ctx context.Context) types.HealthStatus
}

// GeneratorConfig configures construction of a concrete generator.
type GeneratorConfig struct {
	// Type selects the generator implementation ("ollama", "mock").
	Type string `yaml:"type" mapstructure:"type"`

	// BaseURL is the model server address. Empty selects the
	// implementation's default.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Model is the model identifier to generate with.
	Model string `yaml:"model" mapstructure:"model"`

	// Temperature controls randomness of the output (0 leaves the server
	// default in place).
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`

	// MaxTokens limits the generated length (0 leaves the server default).
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
}
