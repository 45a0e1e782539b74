package jsonrepair

import (
	"regexp"
	"strings"
)

var (
	adjacentObjectPattern = regexp.MustCompile(`}\s*{`)
	adjacentStringPattern = regexp.MustCompile(`"\s+"`)
	ellipsisTailPattern   = regexp.MustCompile(`\.{3,}\s*$`)
	commaRunPattern       = regexp.MustCompile(`,(\s*,)+`)
	commaBeforeCloser     = regexp.MustCompile(`,\s*([}\]])`)
)

// repairArrayElements applies best-effort fixes for the element-level damage
// small models produce inside arrays: missing separators between elements,
// truncated trailing strings, and truncated trailing objects. It never
// panics; any internal failure degrades to returning the input unchanged.
func repairArrayElements(s string) (out string) {
	defer func() {
		if recover() != nil {
			out = s
		}
	}()

	out = s

	// Missing separator between adjacent objects: }{ -> },{
	out = adjacentObjectPattern.ReplaceAllString(out, "},{")

	// Missing separator between adjacent string elements: "a" "b" -> "a", "b"
	out = adjacentStringPattern.ReplaceAllString(out, `", "`)

	// A string cut off before its closing quote leaves an odd number of
	// unescaped quotes. Drop any trailing ellipsis the model emitted while
	// trailing off, then close the string.
	if unescapedQuoteCount(out)%2 == 1 {
		out = ellipsisTailPattern.ReplaceAllString(out, "")
		out = strings.TrimRight(out, " \t\r\n")
		out += `"`
	}

	// A truncated trailing object leaves more opens than closes; append the
	// missing closers.
	if opens, closes := braceCounts(out); opens > closes {
		out += strings.Repeat("}", opens-closes)
	}

	// Collapse comma runs and drop a comma left dangling before a closer.
	out = commaRunPattern.ReplaceAllString(out, ",")
	out = commaBeforeCloser.ReplaceAllString(out, "$1")

	return out
}

// unescapedQuoteCount counts double quotes that are not preceded by a
// backslash escape.
func unescapedQuoteCount(s string) int {
	count := 0
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if c == '"' {
			count++
		}
	}
	return count
}

// braceCounts counts opening and closing braces outside string literals.
func braceCounts(s string) (opens, closes int) {
	mask := stringMask(s)
	for i := 0; i < len(s); i++ {
		if mask[i] {
			continue
		}
		switch s[i] {
		case '{':
			opens++
		case '}':
			closes++
		}
	}
	return opens, closes
}
