package agent

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/agentd/internal/message"
	"github.com/fyrsmithlabs/agentd/internal/provider"
)

// State is one phase of the turn-processing machine.
type State string

const (
	StatePreProcessing  State = "pre_processing"
	StateInvoking       State = "invoking"
	StateToolResolution State = "tool_resolution"
	StatePostProcessing State = "post_processing"
	StateDone           State = "done"
	StateBlocked        State = "blocked"
)

// defaultMaxToolIterations bounds the tool loop when the config leaves
// it unset.
const defaultMaxToolIterations = 10

// Config holds the agent's standing defaults. Per-call overrides come
// in through CallOptions.
type Config struct {
	// Model is the default model identifier passed to the provider.
	Model string `koanf:"model"`

	// MaxTokens is the default answer-length bound. Zero means
	// provider default.
	MaxTokens int64 `koanf:"max_tokens"`

	// Temperature is the default sampling temperature. Negative means
	// provider default.
	Temperature float64 `koanf:"temperature"`

	// MaxToolIterations caps the invoke/tool-resolution loop.
	MaxToolIterations int `koanf:"max_tool_iterations"`
}

// DefaultConfig returns the standing defaults.
func DefaultConfig() Config {
	return Config{
		Temperature:       -1,
		MaxToolIterations: defaultMaxToolIterations,
	}
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.MaxToolIterations < 0 {
		return fmt.Errorf("max_tool_iterations must not be negative")
	}
	return nil
}

// CallOptions are per-call overrides. Zero values defer to the agent's
// Config. SkipCompression and MaxToolIterations are orchestration
// flags: the loop consumes them and they never reach the provider.
type CallOptions struct {
	Model       string
	MaxTokens   int64
	Temperature float64

	// SkipCompression disables the compression hook for this call.
	SkipCompression bool

	// MaxToolIterations overrides the configured loop cap when > 0.
	MaxToolIterations int
}

// Result is the outcome of one completed Call.
type Result struct {
	// Answer is the model's final textual answer.
	Answer string

	// Bag is the full conversation after the call, including any
	// tool-calling turns and compression effects.
	Bag message.Bag

	// Usage aggregates token counts across every model invocation the
	// call performed.
	Usage provider.Usage

	// Iterations is the number of model invocations performed.
	Iterations int
}

// FatalError means the call aborted entirely: the tool loop exceeded
// its iteration cap.
type FatalError struct {
	// Iterations is the number of model invocations performed before
	// the cap was hit.
	Iterations int
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("tool loop exceeded %d iterations without a final answer", e.Iterations)
}

// ToolExecutor resolves one model-issued tool call into a result
// string. Satisfied by *toolbox.Toolbox.
type ToolExecutor interface {
	Execute(ctx context.Context, call message.ToolCall) (string, error)
}
