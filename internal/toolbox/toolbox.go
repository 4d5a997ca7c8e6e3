package toolbox

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/agentd/internal/message"
	"github.com/fyrsmithlabs/agentd/internal/policy"
	"github.com/fyrsmithlabs/agentd/internal/provider"
)

// Toolbox dispatches tool calls through the policy gate to registered
// tools.
type Toolbox struct {
	registry *Registry
	gate     *policy.Gate
	logger   *zap.Logger
}

// New creates a Toolbox. The gate may be nil, in which case every call
// runs ungated; a nil registry is a configuration error.
func New(registry *Registry, gate *policy.Gate, logger *zap.Logger) (*Toolbox, error) {
	if registry == nil {
		return nil, fmt.Errorf("toolbox: registry is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Toolbox{registry: registry, gate: gate, logger: logger}, nil
}

// Descriptors returns the registered tools in the form the provider
// advertises to the model.
func (tb *Toolbox) Descriptors() []provider.ToolDescriptor {
	tools := tb.registry.List()
	descs := make([]provider.ToolDescriptor, 0, len(tools))
	for _, tool := range tools {
		descs = append(descs, provider.ToolDescriptor{
			Name:        tool.Name(),
			Description: tool.Description(),
			Schema:      tool.Schema(),
		})
	}
	return descs
}

// Execute resolves and runs one tool call. The returned string is the
// tool's result, or a denial sentinel (DeniedByPolicy/DeniedByUser)
// when the gate blocks the call; denials carry a nil error.
func (tb *Toolbox) Execute(ctx context.Context, call message.ToolCall) (string, error) {
	tool, ok := tb.registry.Get(call.Name)
	if !ok {
		return "", fmt.Errorf("tool %q: %w", call.Name, ErrToolNotFound)
	}

	if tb.gate != nil {
		verdict, err := tb.gate.Authorize(ctx, call)
		if err != nil {
			return "", fmt.Errorf("authorize tool %q: %w", call.Name, err)
		}
		if !verdict.Allowed {
			tb.logger.Info("tool call blocked",
				zap.String("tool", call.Name),
				zap.String("reason", verdict.Reason),
			)
			if verdict.Reason == policy.ReasonDeniedByUser {
				return DeniedByUser, nil
			}
			return DeniedByPolicy, nil
		}
	}

	tb.logger.Debug("executing tool",
		zap.String("tool", call.Name),
		zap.String("call_id", call.ID),
	)

	result, err := tool.Call(ctx, call.Args)
	if err != nil {
		return "", fmt.Errorf("tool %q: %w", call.Name, err)
	}
	return result, nil
}
