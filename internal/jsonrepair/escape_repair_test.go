package jsonrepair

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairEscapes_InvalidEscapeDoubled(t *testing.T) {
	assert.Equal(t, `{"path": "C:\\Windows"}`, repairEscapes(`{"path": "C:\Windows"}`))
}

func TestRepairEscapes_ValidEscapesUntouched(t *testing.T) {
	in := `{"a": "line\nbreak", "b": "tab\there", "c": "quote\"end", "d": "back\\slash"}`
	assert.Equal(t, in, repairEscapes(in))
}

func TestRepairEscapes_ValidUnicodeUntouched(t *testing.T) {
	in := `{"ch": "\u0041\u00e9"}`
	assert.Equal(t, in, repairEscapes(in))
}

func TestRepairEscapes_MalformedUnicodeDoubled(t *testing.T) {
	assert.Equal(t, `{"ch": "\\u12X"}`, repairEscapes(`{"ch": "\u12X"}`))
}

func TestRepairEscapes_TrailingBackslashRemoved(t *testing.T) {
	assert.Equal(t, `{"a": "text`, repairEscapes(`{"a": "text\`))
}

func TestRepairEscapes_BackslashRunBeforeQuote(t *testing.T) {
	// Four backslashes piled up against the closing quote collapse to one
	// escaping backslash.
	assert.Equal(t, `{"a": "x\"}`, repairEscapes(`{"a": "x\\\\"}`))
}

func TestRepairEscapes_PunctuationEscapeLeftAlone(t *testing.T) {
	in := `{"a": "odd \- dash"}`
	assert.Equal(t, in, repairEscapes(in))
}

func TestRepairEscapes_Idempotent(t *testing.T) {
	inputs := []string{
		`{"path": "C:\Windows"}`,
		`{"ch": "\u12X"}`,
		`{"a": "line\nbreak"}`,
		`{"ch": "\u0041"}`,
		`{"a": "odd \- dash"}`,
	}

	for _, input := range inputs {
		once := repairEscapes(input)
		assert.Equal(t, once, repairEscapes(once), "not idempotent for %q", input)
	}
}
