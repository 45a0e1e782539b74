package jsonrepair

import (
	"encoding/json"
	"regexp"
	"strings"
)

// codeBlockPattern matches markdown code blocks with optional language tag.
// Captures: (1) optional language, (2) content.
var codeBlockPattern = regexp.MustCompile(`(?s)` + "```" + `(\w*)\s*\n(.+?)\n` + "```")

// extractFromCodeBlock finds valid JSON in markdown code blocks.
// Blocks tagged with a non-JSON language are skipped; untagged blocks are
// considered when their content looks like JSON.
func extractFromCodeBlock(response string) (string, bool) {
	matches := codeBlockPattern.FindAllStringSubmatch(response, -1)

	for _, match := range matches {
		if len(match) < 3 {
			continue
		}

		lang := strings.ToLower(match[1])
		content := strings.TrimSpace(match[2])

		if lang != "" && lang != "json" {
			continue
		}

		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			if isValidJSON(content) {
				return content, true
			}
		}
	}

	return "", false
}

// firstSpan locates the first open..close span in s, greedily: from the
// first opener through the last closer. The greedy reach lets the repair
// chain see everything between, so adjacent unseparated objects are repaired
// as a whole instead of one being peeled out. When the input is truncated
// and no closer exists, the open-ended tail is returned so the repair
// pipeline gets a chance to close it.
func firstSpan(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return "", false
	}

	rest := s[start:]
	if end := strings.LastIndexByte(rest[1:], close); end >= 0 {
		return rest[:end+2], true
	}
	return rest, true
}

// stringMask returns a per-byte mask marking bytes that sit inside a
// double-quoted string literal (the quotes themselves included).
func stringMask(s string) []bool {
	mask := make([]bool, len(s))
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			mask[i] = true
			escaped = false
			continue
		}
		if inString && c == '\\' {
			mask[i] = true
			escaped = true
			continue
		}
		if c == '"' {
			mask[i] = true
			inString = !inString
			continue
		}
		mask[i] = inString
	}

	return mask
}

// isValidJSON checks if a string is valid JSON.
func isValidJSON(s string) bool {
	var js json.RawMessage
	return json.Unmarshal([]byte(s), &js) == nil
}
