package llm

import (
	"log/slog"
	"time"
)

// ControllerOption is a functional option for configuring a Controller.
type ControllerOption func(*Controller)

// WithMaxRetries bounds the shared attempt counter across continuation and
// error-recovery retries. Values below 1 are coerced to 1.
func WithMaxRetries(maxRetries int) ControllerOption {
	return func(c *Controller) {
		if maxRetries < 1 {
			maxRetries = 1
		}
		c.maxRetries = maxRetries
	}
}

// WithTimeout sets the window a single generation call may take before the
// controller abandons it.
func WithTimeout(timeout time.Duration) ControllerOption {
	return func(c *Controller) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithContinuationPrompt overrides the instruction appended when asking the
// model to resume a truncated response.
func WithContinuationPrompt(prompt string) ControllerOption {
	return func(c *Controller) {
		if prompt != "" {
			c.continuationPrompt = prompt
		}
	}
}

// WithLogger sets the structured logger used for per-attempt diagnostics.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracker attaches a usage tracker that records attempts, continuations,
// recoveries, and outcomes per generation.
func WithTracker(tracker UsageTracker) ControllerOption {
	return func(c *Controller) {
		c.tracker = tracker
	}
}
