package llm

import "strings"

// maxOverlapTokens caps how many trailing/leading tokens are compared when
// stitching a continuation onto a partial response.
const maxOverlapTokens = 10

// CombinePartialResponses merges a partial response with its continuation.
// Both texts are tokenized on whitespace and the largest overlap (up to
// maxOverlapTokens) where the tail of first case-insensitively equals the
// head of second is consumed once. The scan always runs to the cap so the
// largest overlap wins, not the first. With no overlap the texts are joined
// with a blank line.
//
// The merged result is space-joined, so internal whitespace of the inputs is
// normalized.
func CombinePartialResponses(first, second string) string {
	firstTrimmed := strings.TrimSpace(first)
	secondTrimmed := strings.TrimSpace(second)

	if firstTrimmed == "" {
		return secondTrimmed
	}
	if secondTrimmed == "" {
		return firstTrimmed
	}

	firstWords := strings.Fields(firstTrimmed)
	secondWords := strings.Fields(secondTrimmed)

	limit := maxOverlapTokens
	if len(firstWords) < limit {
		limit = len(firstWords)
	}
	if len(secondWords) < limit {
		limit = len(secondWords)
	}

	overlap := 0
	for n := 1; n <= limit; n++ {
		if tokensMatch(firstWords[len(firstWords)-n:], secondWords[:n]) {
			overlap = n
		}
	}

	if overlap == 0 {
		return firstTrimmed + "\n\n" + secondTrimmed
	}

	merged := append(append([]string{}, firstWords...), secondWords[overlap:]...)
	return strings.Join(merged, " ")
}

// tokensMatch compares two equal-length token slices case-insensitively.
func tokensMatch(a, b []string) bool {
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}
