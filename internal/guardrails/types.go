package guardrails

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

// Stage identifies where in the turn pipeline a guardrail fired.
type Stage string

const (
	// StageInput scans the conversation before the model is invoked.
	StageInput Stage = "input"
	// StageOutput scans the final answer before release to the caller.
	StageOutput Stage = "output"
)

// Result is the outcome of one scanner invocation.
type Result struct {
	// Triggered indicates the scanner detected unsafe content.
	Triggered bool

	// Scanner is the name of the scanner that produced this result.
	Scanner string

	// Score is the severity in [0, 1]. Higher is more severe.
	Score float64

	// Reason is a human-readable description of what was detected.
	Reason string
}

// InputScanner inspects the conversation before the model is invoked.
type InputScanner interface {
	// Name returns the scanner identifier used in results and logs.
	Name() string

	// ValidateInput evaluates the conversation so far. Implementations
	// scan the latest user-authored text and must ignore media content
	// and non-user messages.
	ValidateInput(ctx context.Context, bag message.Bag) (Result, error)
}

// OutputScanner inspects the model's final textual answer.
type OutputScanner interface {
	Name() string

	// ValidateOutput evaluates the candidate answer text.
	ValidateOutput(ctx context.Context, answer string) (Result, error)
}

// BlockedError is returned when a scanner triggers. It aborts the call:
// a blocked input prevents the model invocation entirely, a blocked
// output prevents the caller from seeing the answer. The embedded Result
// remains available for audit logging via errors.As.
type BlockedError struct {
	Stage  Stage
	Result Result
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("guardrail %q blocked %s: %s (score %.2f)",
		e.Result.Scanner, e.Stage, e.Result.Reason, e.Result.Score)
}
