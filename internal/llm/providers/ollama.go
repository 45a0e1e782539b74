// Package providers contains concrete Generator implementations.
package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/mend-ai/mend/internal/llm"
	"github.com/mend-ai/mend/internal/types"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaGenerator implements llm.Generator for local Ollama models.
//
// Ollama has no native structured output support; callers needing JSON
// should run the response through the jsonrepair decoder.
type OllamaGenerator struct {
	client  *ollama.LLM
	config  llm.GeneratorConfig
	baseURL string
	httpc   *http.Client
}

// NewOllamaGenerator creates a new Ollama-backed generator.
func NewOllamaGenerator(cfg llm.GeneratorConfig) (*OllamaGenerator, error) {
	serverURL := cfg.BaseURL
	if serverURL == "" {
		serverURL = defaultOllamaURL
	}

	opts := []ollama.Option{
		ollama.WithServerURL(serverURL),
	}

	if cfg.Model != "" {
		opts = append(opts, ollama.WithModel(cfg.Model))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("ollama", err)
	}

	return &OllamaGenerator{
		client:  client,
		config:  cfg,
		baseURL: strings.TrimRight(serverURL, "/"),
		httpc:   &http.Client{Timeout: 5 * time.Second},
	}, nil
}

// Name returns the generator name
func (g *OllamaGenerator) Name() string {
	return "ollama"
}

// Generate sends the prompt to the Ollama server and returns the full
// response text.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (*llm.Generation, error) {
	var callOpts []llms.CallOption
	if g.config.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(g.config.Temperature))
	}
	if g.config.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(g.config.MaxTokens))
	}

	text, err := llms.GenerateFromSinglePrompt(ctx, g.client, prompt, callOpts...)
	if err != nil {
		return nil, llm.TranslateError("ollama", err)
	}

	return &llm.Generation{
		Text:  text,
		Model: g.config.Model,
	}, nil
}

// Health probes the Ollama server's version endpoint.
func (g *OllamaGenerator) Health(ctx context.Context) types.HealthStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/version", nil)
	if err != nil {
		return types.Unhealthy(fmt.Sprintf("failed to build health request: %v", err))
	}

	resp, err := g.httpc.Do(req)
	if err != nil {
		return types.Unhealthy(fmt.Sprintf("ollama server unreachable at %s: %v", g.baseURL, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Degraded(fmt.Sprintf("ollama server returned status %d", resp.StatusCode))
	}

	return types.Healthy("ollama server reachable")
}
