package providers

import (
	"fmt"

	"github.com/mend-ai/mend/internal/llm"
	"github.com/mend-ai/mend/internal/types"
)

// NewGenerator creates a generator based on the configuration. An empty type
// selects ollama, the only real local backend.
func NewGenerator(cfg llm.GeneratorConfig) (llm.Generator, error) {
	switch cfg.Type {
	case "", "ollama":
		return NewOllamaGenerator(cfg)

	case "mock":
		return NewMockTextGenerator("Mock response."), nil

	default:
		return nil, types.NewError(llm.ErrProviderNotFound,
			fmt.Sprintf("unknown generator type: %s", cfg.Type))
	}
}
