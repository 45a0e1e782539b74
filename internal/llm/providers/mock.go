package providers

import (
	"context"
	"sync"
	"time"

	"github.com/mend-ai/mend/internal/llm"
	"github.com/mend-ai/mend/internal/types"
)

// MockResponse is one scripted reply of a MockGenerator: either text or an
// error.
type MockResponse struct {
	Text string
	Err  error
}

// MockGenerator implements llm.Generator for testing and dry runs. Responses
// are served in order, cycling when exhausted, and every prompt is recorded.
type MockGenerator struct {
	mu        sync.Mutex
	responses []MockResponse
	index     int
	prompts   []string
	delay     time.Duration
}

// NewMockGenerator creates a mock generator serving the given responses.
func NewMockGenerator(responses ...MockResponse) *MockGenerator {
	return &MockGenerator{
		responses: responses,
	}
}

// NewMockTextGenerator creates a mock generator from plain reply strings.
func NewMockTextGenerator(texts ...string) *MockGenerator {
	responses := make([]MockResponse, len(texts))
	for i, t := range texts {
		responses[i] = MockResponse{Text: t}
	}
	return NewMockGenerator(responses...)
}

// WithDelay makes every Generate call block for d before replying.
func (g *MockGenerator) WithDelay(d time.Duration) *MockGenerator {
	g.delay = d
	return g
}

// Name returns the generator name
func (g *MockGenerator) Name() string {
	return "mock"
}

// Generate serves the next scripted response and records the prompt.
func (g *MockGenerator) Generate(ctx context.Context, prompt string) (*llm.Generation, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)

	if len(g.responses) == 0 {
		g.mu.Unlock()
		return nil, llm.NewProviderUnavailableError("mock", nil)
	}

	resp := g.responses[g.index%len(g.responses)]
	g.index++
	delay := g.delay
	g.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &llm.Generation{
		Text:  resp.Text,
		Model: "mock-model",
	}, nil
}

// Prompts returns a copy of every prompt this generator has seen.
func (g *MockGenerator) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.prompts))
	copy(out, g.prompts)
	return out
}

// CallCount returns how many times Generate was invoked.
func (g *MockGenerator) CallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// Health always reports healthy.
func (g *MockGenerator) Health(ctx context.Context) types.HealthStatus {
	return types.Healthy("mock generator")
}
