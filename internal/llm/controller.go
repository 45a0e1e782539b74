package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mend-ai/mend/internal/types"
)

// Completion defaults. The long timeout reflects local models on modest
// hardware; callers wanting snappier failure pass WithTimeout.
const (
	DefaultMaxRetries         = 3
	DefaultTimeout            = 600 * time.Second
	DefaultContinuationPrompt = "Please complete your previous response starting from where you left off."

	// shortPromptLimit is the prompt prefix kept when recovering from a
	// generation timeout.
	shortPromptLimit = 500

	directAnswerInstruction = "Please provide a direct answer."
)

// Controller obtains a complete, well-formed text response from a Generator,
// compensating for the three failure modes of small local models: silent
// truncation, detectable looping, and outright upstream errors.
//
// A Controller is stateless between calls and safe for concurrent use.
type Controller struct {
	maxRetries         int
	timeout            time.Duration
	continuationPrompt string
	logger             *slog.Logger
	tracker            UsageTracker

	// sleep performs the cooperative inter-retry wait; tests replace it.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewController creates a Controller with the given options applied over the
// defaults.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		maxRetries:         DefaultMaxRetries,
		timeout:            DefaultTimeout,
		continuationPrompt: DefaultContinuationPrompt,
		logger:             slog.Default(),
		sleep:              contextSleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete runs the full completion protocol for a prompt:
//
//   - each generation races against the configured timeout; a timed-out
//     generation is abandoned, not cancelled
//   - a blank response fails immediately with ErrEmptyResponse
//   - a response with a detected issue triggers a continuation round whose
//     result is merged onto the partial text
//   - recognized upstream errors trigger a strategy-specific retry
//     (simplified prompt, unchanged prompt, or shortened prompt)
//
// One attempt counter bounds all retry paths together; once it reaches the
// retry limit the last text is returned as-is, or the last error is
// propagated verbatim.
func (c *Controller) Complete(ctx context.Context, gen Generator, prompt string) (string, error) {
	generationID := uuid.NewString()
	logger := c.logger.With("generation_id", generationID, "generator", gen.Name())

	attempt := 1
	current := prompt
	var partials []string

	for {
		if c.tracker != nil {
			c.tracker.RecordAttempt(generationID)
		}
		logger.Debug("generation attempt", "attempt", attempt, "prompt_len", len(current))

		text, err := c.generateOnce(ctx, gen, current)
		if err == nil {
			issue := DetectResponseIssues(text)
			if !issue.HasIssue || attempt >= c.maxRetries {
				if issue.HasIssue {
					logger.Debug("returning text with unresolved issue",
						"reason", issue.Reason, "attempt", attempt)
				}
				result := foldPartials(partials, text)
				if c.tracker != nil {
					c.tracker.RecordOutcome(generationID, nil)
				}
				return result, nil
			}

			logger.Debug("requesting continuation", "reason", issue.Reason, "attempt", attempt)
			if c.tracker != nil {
				c.tracker.RecordContinuation(generationID)
			}
			partials = append(partials, text)
			current = buildContinuationPrompt(current, text, c.continuationPrompt)
			attempt++
			continue
		}

		strategy, wait := recoveryFor(err)
		if strategy == recoveryNone || attempt >= c.maxRetries {
			logger.Debug("generation failed", "attempt", attempt, "error", err)
			if c.tracker != nil {
				c.tracker.RecordOutcome(generationID, err)
			}
			return "", err
		}

		logger.Debug("recovering from generation error",
			"strategy", strategy.String(), "wait", wait, "attempt", attempt, "error", err)
		if c.tracker != nil {
			c.tracker.RecordRecovery(generationID, strategy.String())
		}

		if sleepErr := c.sleep(ctx, wait); sleepErr != nil {
			return "", sleepErr
		}

		switch strategy {
		case recoverySimplifyPrompt:
			current = SimplifyPrompt(current)
		case recoveryShortenPrompt:
			current = shortenPrompt(current)
		}
		attempt++
	}
}

// generateOnce races one generation call against the timeout. The losing
// generation goroutine is not cancelled; its eventual result is discarded.
func (c *Controller) generateOnce(ctx context.Context, gen Generator, prompt string) (string, error) {
	type generateResult struct {
		gen *Generation
		err error
	}

	resultCh := make(chan generateResult, 1)
	go func() {
		g, err := gen.Generate(ctx, prompt)
		resultCh <- generateResult{gen: g, err: err}
	}()

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case r := <-resultCh:
		if r.err != nil {
			return "", r.err
		}
		if r.gen == nil || strings.TrimSpace(r.gen.Text) == "" {
			return "", NewEmptyResponseError(gen.Name())
		}
		return r.gen.Text, nil

	case <-timer.C:
		return "", NewGenerationTimeoutError(c.timeout)

	case <-ctx.Done():
		return "", types.WrapError(ErrContextCanceled, "generation canceled", ctx.Err())
	}
}

// foldPartials merges accumulated partial responses onto the final text,
// innermost continuation first, mirroring how the continuations were
// produced.
func foldPartials(partials []string, final string) string {
	result := final
	for i := len(partials) - 1; i >= 0; i-- {
		result = CombinePartialResponses(partials[i], result)
	}
	return result
}

// buildContinuationPrompt appends the partial output and the continuation
// instruction to the prompt that produced it.
func buildContinuationPrompt(prompt, partial, instruction string) string {
	return prompt + "\n\n" + partial + "\n\n" + instruction
}

// shortenPrompt truncates an oversized prompt to its prefix plus a
// direct-answer instruction. Prompts already at or under the limit are kept
// unchanged.
func shortenPrompt(prompt string) string {
	if len(prompt) <= shortPromptLimit {
		return prompt
	}
	return prompt[:shortPromptLimit] + "\n\n" + directAnswerInstruction
}

// contextSleep waits cooperatively, returning early if the context ends.
func contextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return types.WrapError(ErrContextCanceled, "retry wait canceled", ctx.Err())
	}
}
