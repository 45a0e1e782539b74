package llm

import (
	"fmt"
	"regexp"
	"strings"
)

// queryPattern extracts the user's question from a composed prompt. It
// matches a Query:/Question:/User asks: marker followed by quoted or bare
// text up to the end of the line.
var queryPattern = regexp.MustCompile(`(?i)(?:query|question|user\s+asks)\s*:\s*"?([^"\n]+)"?`)

// simplifiedPromptTemplate trades instruction-following depth for
// reliability: after an upstream rejection the model gets the shortest
// possible task description.
const simplifiedPromptTemplate = "Extract information to answer: %s\n\n" +
	"Provide a direct, simple answer with key facts only.\n" +
	"No thinking, no analysis, just the facts."

// SimplifyPrompt reduces a composed prompt to a minimal fact-extraction
// instruction around the embedded user query. When no query marker is found
// a generic placeholder is used.
func SimplifyPrompt(prompt string) string {
	query := "the user's question"
	if m := queryPattern.FindStringSubmatch(prompt); m != nil {
		if extracted := strings.TrimSpace(m[1]); extracted != "" {
			query = extracted
		}
	}

	return fmt.Sprintf(simplifiedPromptTemplate, query)
}
