package jsonrepair

import (
	"log/slog"
	"regexp"
	"strings"
)

// transform is a single named repair step. Every step is a pure
// string -> string function; a step that cannot improve its input must
// return it unchanged.
type transform struct {
	name string
	fn   func(string) string
}

// cleanupTransforms is the ordered repair chain applied to a JSON-like
// candidate before re-parsing. The order is load-bearing: later steps assume
// the normalization done by earlier ones (smart quotes must be normalized
// before single-quote conversion, bare keys must be quoted before bare
// values, and so on). Do not reorder casually.
var cleanupTransforms = []transform{
	{"normalize_smart_quotes", normalizeSmartQuotes},
	{"strip_trailing_commas", stripTrailingCommas},
	{"escape_inner_quotes", escapeInnerQuotes},
	{"strip_comments", stripComments},
	{"strip_code_fences", stripCodeFences},
	{"quote_bare_keys", quoteBareKeys},
	{"quote_bare_values", quoteBareValues},
	{"repair_array_elements", repairArrayElements},
	{"repair_escapes", repairEscapes},
	{"convert_single_quotes", convertSingleQuotes},
	{"quote_multiword_values", quoteMultiwordValues},
}

// Cleanup runs the full repair chain over a candidate JSON-like string.
// Individual steps never abort the chain: a panicking step is logged and its
// input is passed through unchanged.
func Cleanup(candidate string) string {
	for _, t := range cleanupTransforms {
		candidate = applySafely(t, candidate)
	}
	return candidate
}

// applySafely runs one transform, degrading to the unmodified input if the
// transform panics.
func applySafely(t transform, in string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Default().Debug("repair step failed, passing input through",
				"step", t.name, "panic", r)
			out = in
		}
	}()
	return t.fn(in)
}

var smartQuoteReplacer = strings.NewReplacer(
	"“", `"`, // left double
	"”", `"`, // right double
	"„", `"`, // low double
	"‘", "'", // left single
	"’", "'", // right single
)

// normalizeSmartQuotes replaces curly/typographic quotes with straight ones.
func normalizeSmartQuotes(s string) string {
	return smartQuoteReplacer.Replace(s)
}

var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

// stripTrailingCommas removes a comma that directly precedes a closing
// brace or bracket.
func stripTrailingCommas(s string) string {
	return replaceUnmasked(trailingCommaPattern, s, "$1")
}

// replaceUnmasked applies a regexp replacement only to matches that start
// outside string literals, so repairs aimed at structure never rewrite
// string content.
func replaceUnmasked(re *regexp.Regexp, s, repl string) string {
	mask := stringMask(s)

	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringIndex(s, -1) {
		if loc[0] < last || mask[loc[0]] {
			continue
		}
		b.WriteString(s[last:loc[0]])
		b.WriteString(re.ReplaceAllString(s[loc[0]:loc[1]], repl))
		last = loc[1]
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// innerQuotePattern matches an unescaped quote embedded mid-value between two
// quoted fragments on one line: "a"b"c",  ->  "a\"b\"c",
// The middle fragment must contain at least one non-space character and no
// structural characters, so adjacent string values ("a" "b") and ordinary
// key/value pairs ("a": "b") are left alone. Backslashes are excluded from
// every fragment so already-escaped text is not escaped twice.
var innerQuotePattern = regexp.MustCompile(
	`"([^"\\\n]*)"([^"\\\n:,{}\[\]]*[^\s"\\\n:,{}\[\]][^"\\\n:,{}\[\]]*)"([^"\\\n]*)"(\s*[,}\]])`)

func escapeInnerQuotes(s string) string {
	return innerQuotePattern.ReplaceAllString(s, `"$1\"$2\"$3"$4`)
}

var (
	blockCommentPattern    = regexp.MustCompile(`(?s)/\*.*?\*/`)
	fullLineCommentPattern = regexp.MustCompile(`(?m)^[ \t]*//[^\n]*`)
	trailingCommentPattern = regexp.MustCompile(`([,{}\[\]"][ \t]+)//[^\n]*`)
)

// stripComments removes // line comments and /* */ block comments. Line
// comments are only stripped when they follow a structural character, which
// keeps URLs such as "http://..." inside string values intact.
func stripComments(s string) string {
	s = blockCommentPattern.ReplaceAllString(s, "")
	s = fullLineCommentPattern.ReplaceAllString(s, "")
	s = trailingCommentPattern.ReplaceAllString(s, "$1")
	return s
}

var (
	fenceOpenPattern  = regexp.MustCompile("^```+[A-Za-z]*[ \t]*\n?")
	fenceClosePattern = regexp.MustCompile("\n?```+[ \t]*$")
)

// stripCodeFences removes markdown code-fence markers at the string edges.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = fenceOpenPattern.ReplaceAllString(s, "")
	s = fenceClosePattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

var bareKeyPattern = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)

// quoteBareKeys wraps unquoted object keys in double quotes: word: -> "word":
func quoteBareKeys(s string) string {
	return replaceUnmasked(bareKeyPattern, s, `$1"$2":`)
}

var bareWordValuePattern = regexp.MustCompile(`(:\s*)([A-Za-z_][A-Za-z0-9_]*)(\s*[,}\]])`)

// quoteBareValues wraps bare single-word values in double quotes. The JSON
// literals true/false/null stay bare.
func quoteBareValues(s string) string {
	mask := stringMask(s)

	var b strings.Builder
	last := 0
	for _, loc := range bareWordValuePattern.FindAllStringSubmatchIndex(s, -1) {
		if loc[0] < last || mask[loc[0]] {
			continue
		}

		word := s[loc[4]:loc[5]]
		switch word {
		case "true", "false", "null":
			continue
		}

		b.WriteString(s[last:loc[0]])
		b.WriteString(s[loc[2]:loc[3]])
		b.WriteString(`"`)
		b.WriteString(word)
		b.WriteString(`"`)
		b.WriteString(s[loc[6]:loc[7]])
		last = loc[1]
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

var (
	singleQuotedKeyPattern   = regexp.MustCompile(`'([^'"\\\n]*)'(\s*:)`)
	singleQuotedValuePattern = regexp.MustCompile(`(:\s*)'([^'"\\\n]*)'`)
	singleQuotedElemPattern  = regexp.MustCompile(`([\[,]\s*)'([^'"\\\n]*)'(\s*[,\]])`)
)

// convertSingleQuotes rewrites single-quoted keys and values as
// double-quoted. Apostrophes inside double-quoted strings are not touched
// because the content class rejects embedded double quotes. The element
// rewrite consumes the separating comma, so it repeats until no match is
// left rather than relying on one non-overlapping pass.
func convertSingleQuotes(s string) string {
	s = singleQuotedKeyPattern.ReplaceAllString(s, `"$1"$2`)
	s = singleQuotedValuePattern.ReplaceAllString(s, `$1"$2"`)
	for {
		next := singleQuotedElemPattern.ReplaceAllString(s, `$1"$2"$3`)
		if next == s {
			return next
		}
		s = next
	}
}

var (
	multiwordValuePattern = regexp.MustCompile(`(:[ \t]*)([^\s",}\]][^,}\]\n]*)`)
	numberValuePattern    = regexp.MustCompile(`^-?\d+(\.\d+)?([eE][+-]?\d+)?$`)
)

// quoteMultiwordValues wraps bare values that run up to the next structural
// delimiter in double quotes, escaping any quotes embedded in them. Values
// that already look like numbers, literals, arrays, objects, or quoted
// strings are left alone, as is anything that sits inside an existing string
// literal.
func quoteMultiwordValues(s string) string {
	mask := stringMask(s)

	var b strings.Builder
	last := 0
	for _, loc := range multiwordValuePattern.FindAllStringSubmatchIndex(s, -1) {
		if loc[0] < last || mask[loc[0]] {
			continue
		}

		prefix := s[loc[2]:loc[3]]
		value := s[loc[4]:loc[5]]

		trimmed := strings.TrimRight(value, " \t")
		trailing := value[len(trimmed):]
		if trimmed == "" || looksStructured(trimmed) {
			continue
		}

		b.WriteString(s[last:loc[0]])
		b.WriteString(prefix)
		b.WriteString(`"`)
		b.WriteString(strings.ReplaceAll(trimmed, `"`, `\"`))
		b.WriteString(`"`)
		b.WriteString(trailing)
		last = loc[1]
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// looksStructured reports whether a bare value already parses as something
// other than an unquoted string and should not be wrapped in quotes.
func looksStructured(value string) bool {
	switch value {
	case "true", "false", "null":
		return true
	}
	if numberValuePattern.MatchString(value) {
		return true
	}
	switch value[0] {
	case '"', '\'', '{', '[':
		return true
	}
	return false
}
