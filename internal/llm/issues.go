package llm

import "strings"

// IssueReason identifies the failure pattern detected in a response.
type IssueReason string

const (
	IssueRepetitiveLoop   IssueReason = "RepetitiveLoop"
	IssueAbruptEnding     IssueReason = "AbruptEnding"
	IssueIncompleteJSON   IssueReason = "IncompleteJSON"
	IssueUnclosedThinking IssueReason = "UnclosedThinking"
)

// CompletionIssue is the result of response issue detection. It is consumed
// immediately to decide between returning the text and requesting a
// continuation.
type CompletionIssue struct {
	HasIssue bool
	Reason   IssueReason
}

const (
	// repetitionThreshold is the run length at which a repeated word counts
	// as a generation loop.
	repetitionThreshold = 6

	// abruptLengthThreshold is the minimum length before a non-terminal
	// ending counts as truncation; short answers legitimately end anywhere.
	abruptLengthThreshold = 100

	thinkOpenMarker  = "<think>"
	thinkCloseMarker = "</think>"
)

// DetectResponseIssues inspects generated text for the failure patterns of
// small local models. Checks run in fixed order (repetition loop, abrupt
// ending, unbalanced braces, unclosed thinking block) and the first match
// wins, so a text exhibiting several conditions reports only the first.
// This masking is deliberate and kept for compatibility.
func DetectResponseIssues(text string) CompletionIssue {
	if hasRepetitiveLoop(text) {
		return CompletionIssue{HasIssue: true, Reason: IssueRepetitiveLoop}
	}

	if endsAbruptly(text) {
		return CompletionIssue{HasIssue: true, Reason: IssueAbruptEnding}
	}

	if strings.Contains(text, "{") && !strings.Contains(text, "}") {
		return CompletionIssue{HasIssue: true, Reason: IssueIncompleteJSON}
	}

	if strings.Contains(text, thinkOpenMarker) && !strings.Contains(text, thinkCloseMarker) {
		return CompletionIssue{HasIssue: true, Reason: IssueUnclosedThinking}
	}

	return CompletionIssue{}
}

// hasRepetitiveLoop reports whether any single word repeats at least
// repetitionThreshold times in a row, case-insensitively.
func hasRepetitiveLoop(text string) bool {
	words := strings.Fields(text)
	if len(words) < repetitionThreshold {
		return false
	}

	run := 1
	prev := strings.ToLower(words[0])
	for _, w := range words[1:] {
		cur := strings.ToLower(w)
		if cur == prev {
			run++
			if run >= repetitionThreshold {
				return true
			}
			continue
		}
		run = 1
		prev = cur
	}

	return false
}

// endsAbruptly reports whether a long response stops without sentence-ending
// punctuation.
func endsAbruptly(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= abruptLengthThreshold {
		return false
	}

	last := trimmed[len(trimmed)-1]
	switch last {
	case '.', '!', '?':
		return false
	}
	return true
}
