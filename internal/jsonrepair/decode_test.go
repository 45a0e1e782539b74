package jsonrepair

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mend-ai/mend/internal/types"
)

func TestDecode_ValidObject(t *testing.T) {
	result, err := Decode(`{"summary": "test", "count": 42}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"summary": "test", "count": float64(42)}, result)
}

func TestDecode_ValidArray(t *testing.T) {
	result, err := Decode(`[{"item": 1}, {"item": 2}]`)
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"item": float64(1)},
		map[string]any{"item": float64(2)},
	}, result)
}

func TestDecode_ValidInputMatchesStrictParse(t *testing.T) {
	// Already-valid input must decode to exactly the strict parse; the
	// repair chain must not get a chance to change it.
	inputs := []string{
		`{"a": 1, "b": [true, null, "x"]}`,
		`[1, 2.5, -3e2]`,
		`{"nested": {"deep": {"msg": "use {braces} and [brackets] freely"}}}`,
		`{"escaped": "he said \"hi\" and left"}`,
		`{"url": "http://example.com/a//b"}`,
	}

	for _, input := range inputs {
		var expected any
		require.NoError(t, json.Unmarshal([]byte(input), &expected), input)

		result, err := Decode(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, result, input)
	}
}

func TestDecode_TrailingComma(t *testing.T) {
	result, err := Decode(`{"a": 1, "b": 2,}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1), "b": float64(2)}, result)
}

func TestDecode_BareMultiwordValue(t *testing.T) {
	result, err := Decode(`{"a": create patterns now}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "create patterns now"}, result)
}

func TestDecode_ObjectWithTrailingNoise(t *testing.T) {
	result, err := Decode(`{"x": 1} extra noise`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": float64(1)}, result)
}

func TestDecode_LeadingAndTrailingProse(t *testing.T) {
	response := `Here's your data:

{
  "result": "success",
  "count": 42
}

That's all the information I have.`

	result, err := Decode(response)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"result": "success", "count": float64(42)}, result)
}

func TestDecode_MarkdownJsonBlock(t *testing.T) {
	response := "Here's the summary:\n\n```json\n{\"status\": \"done\", \"items\": [\"a\", \"b\"]}\n```\n\nLet me know if you need more."

	result, err := Decode(response)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": "done", "items": []any{"a", "b"}}, result)
}

func TestDecode_SkipsNonJSONCodeBlock(t *testing.T) {
	response := "```bash\necho hello\n```\n\n```json\n{\"key\": \"value\"}\n```"

	result, err := Decode(response)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"key": "value"}, result)
}

func TestDecode_ObjectSpanPreferredOverEarlierArray(t *testing.T) {
	// The object span is always tried first, even when an array opens
	// earlier in the text and would also recover.
	result, err := Decode(`x [1, {"a":1},]`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, result)
}

func TestDecode_IgnoresFencedBlockInsideThinking(t *testing.T) {
	response := "<think>drafting:\n```json\n{\"draft\": true}\n```\nnot this one</think>\n" +
		`{"final": 2}`

	result, err := Decode(response)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"final": float64(2)}, result)
}

func TestDecode_StripsThinkingBlock(t *testing.T) {
	response := "<think>The user wants JSON. I should emit {incomplete thoughts here</think>\n" +
		`{"answer": 42}`

	result, err := Decode(response)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"answer": float64(42)}, result)
}

func TestDecode_TruncatedObject(t *testing.T) {
	result, err := Decode(`{"name": "scan", "status": "the run was cut off mid`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "scan", "status": "the run was cut off mid"}, result)
}

func TestDecode_TruncatedNestedObject(t *testing.T) {
	result, err := Decode(`{"outer": {"inner": "value`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"outer": map[string]any{"inner": "value"}}, result)
}

func TestDecode_BareKeys(t *testing.T) {
	result, err := Decode(`{name: "test", count: 3}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "test", "count": float64(3)}, result)
}

func TestDecode_SingleQuotes(t *testing.T) {
	result, err := Decode(`{'name': 'test'}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "test"}, result)
}

func TestDecode_SmartQuotes(t *testing.T) {
	result, err := Decode("{\u201cname\u201d: \u201ctest\u201d}")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "test"}, result)
}

func TestDecode_LineAndBlockComments(t *testing.T) {
	response := `{
  // the model annotated its own output
  "a": 1, /* inline note */
  "b": 2
}`

	result, err := Decode(response)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1), "b": float64(2)}, result)
}

func TestDecode_ArrayMissingSeparators(t *testing.T) {
	result, err := Decode(`["alpha" "beta", "gamma"]`)
	require.NoError(t, err)
	assert.Equal(t, []any{"alpha", "beta", "gamma"}, result)
}

func TestDecode_ArrayAdjacentObjects(t *testing.T) {
	result, err := Decode(`[{"id": 1}{"id": 2}]`)
	require.NoError(t, err)
	assert.Equal(t, []any{
		map[string]any{"id": float64(1)},
		map[string]any{"id": float64(2)},
	}, result)
}

func TestDecode_UnescapedInnerQuotes(t *testing.T) {
	result, err := Decode(`{"title": "The "Best" Option", "ok": true}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": `The "Best" Option`, "ok": true}, result)
}

func TestDecode_InvalidEscapeSequence(t *testing.T) {
	result, err := Decode(`{"path": "C:\Windows\System32"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"path": `C:\Windows\System32`}, result)
}

func TestDecode_NoStructuredData(t *testing.T) {
	_, err := Decode("This is just plain text with nothing structured in it.")
	require.Error(t, err)
	assert.True(t, types.HasCode(err, ErrDecodeFailed))
}

func TestDecode_EmptyString(t *testing.T) {
	_, err := Decode("")
	require.Error(t, err)
	assert.True(t, types.HasCode(err, ErrDecodeFailed))
}

func TestDecode_LiteralsStayUnquoted(t *testing.T) {
	result, err := Decode(`{enabled: true, missing: null, count: 2,}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"enabled": true, "missing": nil, "count": float64(2)}, result)
}

func TestDecodeAs_Struct(t *testing.T) {
	type decision struct {
		Action     string  `json:"action"`
		Confidence float64 `json:"confidence"`
	}

	response := "Decision below:\n```json\n{\"action\": \"proceed\", \"confidence\": 0.9}\n```"

	result, err := DecodeAs[decision](response)
	require.NoError(t, err)
	assert.Equal(t, "proceed", result.Action)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestDecodeAs_RepairedInput(t *testing.T) {
	type item struct {
		Name string `json:"name"`
	}

	result, err := DecodeAs[[]item](`[{"name": "first"}{"name": "second"}]`)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "first", result[0].Name)
	assert.Equal(t, "second", result[1].Name)
}

func TestDecodeAs_TypeMismatch(t *testing.T) {
	type target struct {
		Count int `json:"count"`
	}

	_, err := DecodeAs[target](`{"count": "not a number"}`)
	require.Error(t, err)
	assert.True(t, types.HasCode(err, ErrDecodeFailed))
}

func TestStripThinking_ClosedBlock(t *testing.T) {
	out := stripThinking("<think>step one\nstep two</think>\nfinal answer")
	assert.Equal(t, "final answer", out)
}

func TestStripThinking_UnclosedBlockLeftAlone(t *testing.T) {
	in := "<think>still going"
	assert.Equal(t, in, stripThinking(in))
}

func TestStripThinking_NoBlock(t *testing.T) {
	in := "no markers here"
	assert.Equal(t, in, stripThinking(in))
}

func BenchmarkDecode_Valid(b *testing.B) {
	response := `{"key": "value", "number": 42, "nested": {"inner": "data"}}`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Decode(response)
	}
}

func BenchmarkDecode_Repaired(b *testing.B) {
	response := `Sure! Here you go: {summary: "found 3 results", items: ["a" "b", "c"],}`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Decode(response)
	}
}
