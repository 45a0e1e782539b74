package llm

import (
	"regexp"
	"strings"
)

var (
	// fillerTailPattern matches a run of repeated emphatic filler words at
	// the end of a response ("... really really really").
	fillerTailPattern = regexp.MustCompile(`(?i)(\s+(?:really|very|honestly|seriously|actually)[.!,]*){2,}$`)

	// ellipsisTailPattern matches trailing ellipsis runs, ASCII or unicode.
	ellipsisTailPattern = regexp.MustCompile(`(\.{3,}|\x{2026}+)\s*$`)
)

// SanitizeResponse applies lightweight cosmetic cleanup to a completed
// response: trims whitespace, drops trailing emphatic filler and ellipsis
// runs, and balances a leading opening brace or bracket whose partner never
// arrived. It does not attempt structural JSON repair; that is the decoder's
// job.
func SanitizeResponse(text string) string {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return cleaned
	}

	cleaned = fillerTailPattern.ReplaceAllString(cleaned, "")
	cleaned = ellipsisTailPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return cleaned
	}

	switch {
	case strings.HasPrefix(cleaned, "{") && !strings.HasSuffix(cleaned, "}"):
		cleaned += "}"
	case strings.HasPrefix(cleaned, "[") && !strings.HasSuffix(cleaned, "]"):
		cleaned += "]"
	}

	return cleaned
}
