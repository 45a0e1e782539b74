package llm

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mend-ai/mend/internal/types"
)

// LLM error codes follow the mend coded-error pattern
const (
	// Completion errors
	ErrGenerationTimeout types.ErrorCode = "LLM_GENERATION_TIMEOUT"
	ErrEmptyResponse     types.ErrorCode = "LLM_EMPTY_RESPONSE"
	ErrUpstreamRejected  types.ErrorCode = "LLM_UPSTREAM_REJECTED"
	ErrIncompleteSignal  types.ErrorCode = "LLM_INCOMPLETE_SIGNAL"
	ErrContextCanceled   types.ErrorCode = "LLM_CONTEXT_CANCELED"

	// Provider errors
	ErrProviderNotFound     types.ErrorCode = "LLM_PROVIDER_NOT_FOUND"
	ErrProviderInitFailed   types.ErrorCode = "LLM_PROVIDER_INIT_FAILED"
	ErrProviderUnavailable  types.ErrorCode = "LLM_PROVIDER_UNAVAILABLE"
	ErrProviderUnauthorized types.ErrorCode = "LLM_PROVIDER_UNAUTHORIZED"
	ErrProviderRateLimited  types.ErrorCode = "LLM_PROVIDER_RATE_LIMITED"
	ErrNetworkFailed        types.ErrorCode = "LLM_NETWORK_FAILED"

	// Tracking errors
	ErrUsageNotFound types.ErrorCode = "LLM_USAGE_NOT_FOUND"
)

// Upstream rejection and truncation signals are detected by message
// substring, because local model servers surface them as opaque error text.
const (
	invalidJSONSignal      = "Invalid JSON response"
	rejectedResponseSignal = "Ollama API rejected response"
	notDoneSignal          = `done": false`
	timeoutSignal          = "timeout"
)

// IsRetryable determines if an error is transient and may succeed on retry.
func IsRetryable(err error) bool {
	var mendErr *types.MendError
	if !errors.As(err, &mendErr) {
		return false
	}

	if mendErr.Retryable {
		return true
	}

	switch mendErr.Code {
	case ErrGenerationTimeout, ErrUpstreamRejected, ErrIncompleteSignal:
		return true
	case ErrNetworkFailed, ErrProviderUnavailable, ErrProviderRateLimited:
		return true
	case ErrEmptyResponse, ErrContextCanceled, ErrProviderUnauthorized:
		return false
	default:
		return false
	}
}

// NewGenerationTimeoutError creates a retryable error for a generation call
// that did not settle within the configured window.
func NewGenerationTimeoutError(timeout time.Duration) *types.MendError {
	return &types.MendError{
		Code:      ErrGenerationTimeout,
		Message:   fmt.Sprintf("generation timeout after %s", timeout),
		Retryable: true,
	}
}

// NewEmptyResponseError creates an error for a blank generation result.
// Empty responses are fatal; retrying the same prompt yields the same blank.
func NewEmptyResponseError(generator string) *types.MendError {
	return types.NewError(ErrEmptyResponse,
		"generator "+generator+" returned an empty response")
}

// NewUpstreamRejectedError creates a retryable error for a response the
// upstream server refused to deliver.
func NewUpstreamRejectedError(message string, cause error) *types.MendError {
	return &types.MendError{
		Code:      ErrUpstreamRejected,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// NewIncompleteSignalError creates a retryable error for a response the
// upstream marked as not done.
func NewIncompleteSignalError(message string, cause error) *types.MendError {
	return &types.MendError{
		Code:      ErrIncompleteSignal,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// NewProviderUnavailableError creates a retryable error for a provider that
// is temporarily unreachable.
func NewProviderUnavailableError(providerName string, cause error) *types.MendError {
	return &types.MendError{
		Code:      ErrProviderUnavailable,
		Message:   "provider temporarily unavailable: " + providerName,
		Retryable: true,
		Cause:     cause,
	}
}

// NewProviderUnauthorizedError creates an unauthorized provider error
func NewProviderUnauthorizedError(providerName string, cause error) *types.MendError {
	return &types.MendError{
		Code:    ErrProviderUnauthorized,
		Message: fmt.Sprintf("provider '%s' authentication failed", providerName),
		Cause:   cause,
	}
}

// NewRateLimitError creates a retryable error for rate limiting
func NewRateLimitError(providerName string) *types.MendError {
	return &types.MendError{
		Code:      ErrProviderRateLimited,
		Message:   "rate limit exceeded for provider: " + providerName,
		Retryable: true,
	}
}

// NewNetworkError creates a retryable error for network failures
func NewNetworkError(message string, cause error) *types.MendError {
	return &types.MendError{
		Code:      ErrNetworkFailed,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// TranslateError translates generic provider errors into mend errors based
// on error message content. Already-translated errors pass through.
func TranslateError(provider string, err error) error {
	if err == nil {
		return nil
	}

	var mendErr *types.MendError
	if errors.As(err, &mendErr) {
		return err
	}

	errMsg := err.Error()
	lowerMsg := strings.ToLower(errMsg)

	switch {
	case strings.Contains(errMsg, invalidJSONSignal) || strings.Contains(errMsg, rejectedResponseSignal):
		return NewUpstreamRejectedError(errMsg, err)
	case strings.Contains(errMsg, notDoneSignal):
		return NewIncompleteSignalError(errMsg, err)
	case strings.Contains(lowerMsg, "unauthorized") || strings.Contains(lowerMsg, "authentication") || strings.Contains(lowerMsg, "api key"):
		return NewProviderUnauthorizedError(provider, err)
	case strings.Contains(lowerMsg, "rate limit") || strings.Contains(lowerMsg, "too many requests"):
		return NewRateLimitError(provider)
	case strings.Contains(lowerMsg, timeoutSignal) || strings.Contains(lowerMsg, "deadline"):
		return types.WrapRetryableError(ErrGenerationTimeout, errMsg, err)
	case strings.Contains(lowerMsg, "network") || strings.Contains(lowerMsg, "connection"):
		return NewNetworkError(errMsg, err)
	default:
		return NewProviderUnavailableError(provider, err)
	}
}

// recoveryStrategy selects how the completion controller reshapes the prompt
// before the next attempt after a failed generation.
type recoveryStrategy int

const (
	// recoveryNone propagates the error without another attempt.
	recoveryNone recoveryStrategy = iota
	// recoverySimplifyPrompt waits, then retries with a stripped-down prompt.
	recoverySimplifyPrompt
	// recoveryRetryUnchanged waits, then retries the same prompt verbatim.
	recoveryRetryUnchanged
	// recoveryShortenPrompt waits, then retries with the prompt truncated.
	recoveryShortenPrompt
)

// String returns the tracker-facing name of the strategy.
func (s recoveryStrategy) String() string {
	switch s {
	case recoverySimplifyPrompt:
		return "simplify_prompt"
	case recoveryRetryUnchanged:
		return "retry_unchanged"
	case recoveryShortenPrompt:
		return "shorten_prompt"
	default:
		return "none"
	}
}

// recoveryFor maps a generation error to its retry strategy and the
// cooperative wait that precedes the retry. Checks run in fixed order and
// the first match wins; anything unrecognized propagates unchanged.
func recoveryFor(err error) (recoveryStrategy, time.Duration) {
	if err == nil {
		return recoveryNone, 0
	}

	msg := err.Error()

	switch {
	case types.HasCode(err, ErrUpstreamRejected),
		strings.Contains(msg, invalidJSONSignal),
		strings.Contains(msg, rejectedResponseSignal):
		return recoverySimplifyPrompt, 2 * time.Second

	case types.HasCode(err, ErrIncompleteSignal),
		strings.Contains(msg, notDoneSignal):
		return recoveryRetryUnchanged, time.Second

	case types.HasCode(err, ErrGenerationTimeout),
		strings.Contains(strings.ToLower(msg), timeoutSignal):
		return recoveryShortenPrompt, time.Second

	default:
		return recoveryNone, 0
	}
}
