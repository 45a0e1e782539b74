package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimplifyPrompt_QuotedQuery(t *testing.T) {
	prompt := `You are a helpful assistant.

Query: "what is the capital of France?"

Use the context below to answer.`

	out := SimplifyPrompt(prompt)
	assert.Contains(t, out, "Extract information to answer: what is the capital of France?")
	assert.Contains(t, out, "just the facts")
}

func TestSimplifyPrompt_BareQuestionMarker(t *testing.T) {
	out := SimplifyPrompt("Question: how tall is Everest\nContext: mountains")
	assert.Contains(t, out, "Extract information to answer: how tall is Everest")
}

func TestSimplifyPrompt_UserAsksMarker(t *testing.T) {
	out := SimplifyPrompt("User asks: why is the sky blue")
	assert.Contains(t, out, "Extract information to answer: why is the sky blue")
}

func TestSimplifyPrompt_MarkerCaseInsensitive(t *testing.T) {
	out := SimplifyPrompt("QUERY: list the planets")
	assert.Contains(t, out, "Extract information to answer: list the planets")
}

func TestSimplifyPrompt_NoMarkerFallsBack(t *testing.T) {
	out := SimplifyPrompt("Tell me a story about dragons.")
	assert.Contains(t, out, "Extract information to answer: the user's question")
}

func TestSimplifyPrompt_AlwaysShorterShape(t *testing.T) {
	out := SimplifyPrompt("Query: ping")
	assert.Contains(t, out, "No thinking, no analysis")
}
