// Package jsonrepair recovers structured data from the malformed JSON that
// small local models tend to emit: truncated objects, bare keys and values,
// stray quotes, markdown fences, and leftover reasoning text. It makes no
// guarantee about semantic correctness, only syntactic recoverability.
package jsonrepair

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mend-ai/mend/internal/types"
)

// Decode error code
const ErrDecodeFailed types.ErrorCode = "JSON_DECODE_FAILED"

// Thinking-block markers emitted by reasoning models. Everything up to and
// including the last closing marker is discarded before extraction.
const (
	thinkOpenMarker  = "<think>"
	thinkCloseMarker = "</think>"
)

// Decode parses a raw model response into structured data, tolerating the
// common malformations of small-model output.
//
// Strategy, in order, first success wins:
//  1. Strict parse of the whole (trimmed) text.
//  2. Strict parse of a fenced ```json block, when one is present and valid.
//  3. After stripping a closed thinking block: the first {...} span, run
//     through the repair chain and parsed.
//  4. The first [...] span, repaired and parsed; a non-array result is
//     wrapped in a single-element array.
//
// The object span is always tried before the array span, even when an array
// opens earlier in the text.
//
// When every strategy fails, Decode returns an ErrDecodeFailed error.
func Decode(text string) (any, error) {
	trimmed := strings.TrimSpace(text)

	if v, err := strictParse(trimmed); err == nil {
		return v, nil
	}

	remainder := stripThinking(trimmed)

	if candidate, found := extractFromCodeBlock(remainder); found {
		if v, err := strictParse(candidate); err == nil {
			return v, nil
		}
	}

	if span, found := firstSpan(remainder, '{', '}'); found {
		if v, err := strictParse(Cleanup(span)); err == nil {
			return v, nil
		}
	}

	if span, found := firstSpan(remainder, '[', ']'); found {
		if v, err := strictParse(Cleanup(span)); err == nil {
			if _, isArray := v.([]any); isArray {
				return v, nil
			}
			return []any{v}, nil
		}
	}

	return nil, types.NewError(ErrDecodeFailed,
		"unable to recover structured data from response")
}

// DecodeAs decodes a raw model response and unmarshals the recovered value
// into the provided type.
func DecodeAs[T any](text string) (T, error) {
	var result T

	value, err := Decode(text)
	if err != nil {
		return result, err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return result, types.WrapError(ErrDecodeFailed,
			"failed to re-encode recovered value", err)
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return result, types.WrapError(ErrDecodeFailed,
			fmt.Sprintf("recovered value does not fit target type %T", result), err)
	}

	return result, nil
}

// stripThinking discards a closed thinking block, keeping whatever follows
// the last closing marker. A block that never closes is left alone; issue
// detection upstream reports that case separately.
func stripThinking(s string) string {
	if !strings.Contains(s, thinkOpenMarker) {
		return s
	}
	idx := strings.LastIndex(s, thinkCloseMarker)
	if idx < 0 {
		return s
	}
	return strings.TrimSpace(s[idx+len(thinkCloseMarker):])
}

// strictParse is a strict JSON parse into an untyped value.
func strictParse(s string) (any, error) {
	if s == "" {
		return nil, fmt.Errorf("empty input")
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}
