package llm

import (
	"fmt"
	"sync"

	"github.com/mend-ai/mend/internal/types"
)

// GenerationRecord aggregates what happened during one Complete call.
type GenerationRecord struct {
	GenerationID  string         // Generation identifier
	Attempts      int            // Generation calls made
	Continuations int            // Continuation rounds requested
	Recoveries    map[string]int // Error recoveries by strategy name
	Completed     bool           // Whether a final text was returned
	Failed        bool           // Whether the call surfaced an error
	LastError     string         // Message of the surfaced error, if any
}

// UsageTracker records completion activity per generation. The controller
// calls it from a single goroutine per generation, but one tracker may serve
// many concurrent generations.
type UsageTracker interface {
	// RecordAttempt records one generation call for the given generation
	RecordAttempt(generationID string)

	// RecordContinuation records a continuation round
	RecordContinuation(generationID string)

	// RecordRecovery records an error recovery by strategy name
	RecordRecovery(generationID string, strategy string)

	// RecordOutcome records the final result; err is nil on success
	RecordOutcome(generationID string, err error)

	// Record retrieves the record for a generation.
	// Returns ErrUsageNotFound if nothing was recorded for this ID.
	Record(generationID string) (GenerationRecord, error)

	// Totals aggregates all records into one summary record
	Totals() GenerationRecord

	// Reset clears the record for a generation
	Reset(generationID string)
}

// DefaultUsageTracker implements UsageTracker with thread-safe operations.
type DefaultUsageTracker struct {
	mu      sync.RWMutex
	records map[string]*GenerationRecord
}

// NewUsageTracker creates an empty DefaultUsageTracker.
func NewUsageTracker() *DefaultUsageTracker {
	return &DefaultUsageTracker{
		records: make(map[string]*GenerationRecord),
	}
}

func (t *DefaultUsageTracker) record(generationID string) *GenerationRecord {
	rec, exists := t.records[generationID]
	if !exists {
		rec = &GenerationRecord{
			GenerationID: generationID,
			Recoveries:   make(map[string]int),
		}
		t.records[generationID] = rec
	}
	return rec
}

// RecordAttempt records one generation call.
func (t *DefaultUsageTracker) RecordAttempt(generationID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record(generationID).Attempts++
}

// RecordContinuation records a continuation round.
func (t *DefaultUsageTracker) RecordContinuation(generationID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record(generationID).Continuations++
}

// RecordRecovery records an error recovery by strategy name.
func (t *DefaultUsageTracker) RecordRecovery(generationID string, strategy string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record(generationID).Recoveries[strategy]++
}

// RecordOutcome records the final result of a generation.
func (t *DefaultUsageTracker) RecordOutcome(generationID string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec := t.record(generationID)
	if err != nil {
		rec.Failed = true
		rec.LastError = err.Error()
		return
	}
	rec.Completed = true
}

// Record retrieves the record for a generation.
// Returns ErrUsageNotFound if nothing was recorded for this ID.
func (t *DefaultUsageTracker) Record(generationID string) (GenerationRecord, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, exists := t.records[generationID]
	if !exists {
		return GenerationRecord{}, types.NewError(
			ErrUsageNotFound,
			fmt.Sprintf("no record found for generation %s", generationID),
		)
	}

	// Return a copy to prevent external modification
	out := *rec
	out.Recoveries = make(map[string]int, len(rec.Recoveries))
	for k, v := range rec.Recoveries {
		out.Recoveries[k] = v
	}
	return out, nil
}

// Totals aggregates all records into one summary record.
func (t *DefaultUsageTracker) Totals() GenerationRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	total := GenerationRecord{Recoveries: make(map[string]int)}
	for _, rec := range t.records {
		total.Attempts += rec.Attempts
		total.Continuations += rec.Continuations
		for k, v := range rec.Recoveries {
			total.Recoveries[k] += v
		}
		if rec.Completed {
			total.Completed = true
		}
		if rec.Failed {
			total.Failed = true
		}
	}
	return total
}

// Reset clears the record for a generation.
func (t *DefaultUsageTracker) Reset(generationID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, generationID)
}
