package llm

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"
)

var (
	// contentFieldPattern captures a complete "content":"..." value,
	// honoring escaped characters inside the string.
	contentFieldPattern = regexp.MustCompile(`"content"\s*:\s*"((?:[^"\\]|\\.)*)"`)

	// partialObjectTailPattern grabs the trailing unterminated object of a
	// truncated JSON payload embedded in an error message.
	partialObjectTailPattern = regexp.MustCompile(`\{[^{}]*$`)

	// openContentPattern captures a "content" value whose closing quote was
	// cut off.
	openContentPattern = regexp.MustCompile(`"content"\s*:\s*"((?:[^"\\]|\\.)*)`)
)

// ExtractPartialContent salvages the content field from an error whose
// message embeds partial structured output, as local model servers do when
// they reject their own response mid-stream. It tries a complete
// "content":"..." capture first, then falls back to locating a content field
// inside the trailing truncated object. The second return value reports
// whether anything was recovered. It never panics.
func ExtractPartialContent(err error) (content string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Default().Debug("partial content extraction failed", "panic", r)
			content, ok = "", false
		}
	}()

	if err == nil {
		return "", false
	}

	msg := err.Error()

	if m := contentFieldPattern.FindStringSubmatch(msg); m != nil {
		return unescapeJSONString(m[1]), true
	}

	if tail := partialObjectTailPattern.FindString(msg); tail != "" {
		if m := openContentPattern.FindStringSubmatch(tail); m != nil {
			return unescapeJSONString(m[1]), true
		}
	}

	return "", false
}

// unescapeJSONString resolves JSON string escapes in a captured fragment.
// The strict decoder handles every valid escape; a fragment it rejects gets
// a best-effort replacement of the common ones.
func unescapeJSONString(s string) string {
	var decoded string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &decoded); err == nil {
		return decoded
	}

	replacer := strings.NewReplacer(
		`\"`, `"`,
		`\n`, "\n",
		`\t`, "\t",
		`\r`, "\r",
		`\\`, `\`,
	)
	return replacer.Replace(s)
}
