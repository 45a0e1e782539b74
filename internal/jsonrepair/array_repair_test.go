package jsonrepair

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairArrayElements_AdjacentObjects(t *testing.T) {
	assert.Equal(t, `[{"a":1},{"b":2}]`, repairArrayElements(`[{"a":1}{"b":2}]`))
}

func TestRepairArrayElements_AdjacentStrings(t *testing.T) {
	assert.Equal(t, `["a", "b", "c"]`, repairArrayElements(`["a" "b", "c"]`))
}

func TestRepairArrayElements_ClosesTruncatedString(t *testing.T) {
	assert.Equal(t, `{"a": "cut off"}`, repairArrayElements(`{"a": "cut off`))
}

func TestRepairArrayElements_DropsEllipsisBeforeClosing(t *testing.T) {
	assert.Equal(t, `{"a": "trailing off"}`, repairArrayElements(`{"a": "trailing off...`))
}

func TestRepairArrayElements_AppendsMissingBraces(t *testing.T) {
	assert.Equal(t, `{"a": {"b": 1}}`, repairArrayElements(`{"a": {"b": 1`))
}

func TestRepairArrayElements_CollapsesCommaRuns(t *testing.T) {
	assert.Equal(t, `[1, 2]`, repairArrayElements(`[1,, 2]`))
}

func TestRepairArrayElements_DropsDanglingComma(t *testing.T) {
	assert.Equal(t, `[1, 2]`, repairArrayElements(`[1, 2,]`))
}

func TestRepairArrayElements_ValidInputUntouched(t *testing.T) {
	in := `[{"a": 1}, {"b": 2}, "three"]`
	assert.Equal(t, in, repairArrayElements(in))
}

func TestRepairArrayElements_BracesInsideStringsIgnored(t *testing.T) {
	in := `{"tpl": "use {name} here"}`
	assert.Equal(t, in, repairArrayElements(in))
}

func TestUnescapedQuoteCount(t *testing.T) {
	assert.Equal(t, 4, unescapedQuoteCount(`{"a": "b"}`))
	assert.Equal(t, 2, unescapedQuoteCount(`"say \"hi\""`))
	assert.Equal(t, 0, unescapedQuoteCount(`no quotes`))
}

func TestBraceCounts(t *testing.T) {
	opens, closes := braceCounts(`{"a": {"b": "{not counted}"}}`)
	assert.Equal(t, 2, opens)
	assert.Equal(t, 2, closes)
}
