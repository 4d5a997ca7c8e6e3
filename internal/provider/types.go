package provider

import (
	"context"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

// Options are the per-invocation model parameters. They contain only
// what the provider needs; orchestration flags (compression skipping,
// iteration caps) are consumed by the agent loop and never reach here.
type Options struct {
	// Model is the provider-specific model identifier.
	Model string

	// MaxTokens bounds the answer length. Zero means provider default.
	MaxTokens int64

	// Temperature controls sampling. Negative means provider default.
	Temperature float64
}

// Usage carries token accounting for one invocation.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Answer is the model's response to one invocation: text and/or tool
// calls, plus usage metadata.
type Answer struct {
	Text      string
	ToolCalls []message.ToolCall
	Usage     Usage
}

// Provider invokes a language model with a conversation.
type Provider interface {
	// Invoke sends the bag and returns the model's answer. Blocking;
	// timeouts are the provider's responsibility via ctx.
	Invoke(ctx context.Context, bag message.Bag, opts Options) (*Answer, error)
}
