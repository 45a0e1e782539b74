package jsonrepair

import (
	"regexp"
	"strings"
)

var (
	trailingBackslashPattern = regexp.MustCompile(`\\+$`)
	backslashRunQuotePattern = regexp.MustCompile(`\\{2,}"`)
)

// validEscapeChars are the characters that may legally follow a backslash in
// a JSON string.
const validEscapeChars = `"\/bfnrtu`

// repairEscapes fixes backslash damage in a JSON-like candidate: stray
// backslashes that begin invalid escape sequences, malformed unicode
// escapes, and truncated trailing backslash runs. Like the other repair
// steps it never panics.
func repairEscapes(s string) (out string) {
	defer func() {
		if recover() != nil {
			out = s
		}
	}()

	// Walk the string consuming escape pairs. A backslash followed by a
	// character that is not a valid escape is itself escaped, but only when
	// the next character is alphanumeric; doubling before punctuation tends
	// to make things worse, so those are left alone. A \u escape without
	// exactly 4 hex digits behind it also gets its backslash doubled.
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		next := s[i+1]
		switch {
		case next == 'u':
			if hasHexDigits(s[i+2:], 4) {
				b.WriteString(`\u`)
				i++
			} else {
				b.WriteString(`\\`)
			}
		case strings.IndexByte(validEscapeChars, next) >= 0:
			b.WriteByte(c)
			b.WriteByte(next)
			i++
		case isAlphanumeric(next):
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}
	out = b.String()

	// A trailing run of backslashes is truncation debris.
	out = trailingBackslashPattern.ReplaceAllString(out, "")

	// A run of backslashes immediately before a closing quote collapses to
	// exactly one escaping backslash.
	out = backslashRunQuotePattern.ReplaceAllString(out, `\"`)

	return out
}

// hasHexDigits reports whether s starts with at least n hex digits.
func hasHexDigits(s string, n int) bool {
	if len(s) < n {
		return false
	}
	for i := 0; i < n; i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
