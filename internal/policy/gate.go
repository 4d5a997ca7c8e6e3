package policy

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

// Denial reasons surfaced to the model via tool-result messages.
const (
	ReasonDeniedByPolicy = "denied by policy"
	ReasonDeniedByUser   = "denied by user"
)

// Verdict is the gate's answer for one tool call.
type Verdict struct {
	// Allowed reports whether the call may run.
	Allowed bool

	// Reason is set when the call is blocked.
	Reason string
}

// Gate authorizes tool calls before execution. It consults the policy
// first; the confirmation handler is involved only for AskUser
// decisions, and results marked remember are written back into the
// policy so later calls to the same tool skip the handler.
type Gate struct {
	policy  *ToolPolicy
	handler ConfirmationHandler
	logger  *zap.Logger
}

// NewGate creates the gate. The handler may be nil, in which case
// AskUser decisions resolve to denial.
func NewGate(p *ToolPolicy, handler ConfirmationHandler, logger *zap.Logger) (*Gate, error) {
	if p == nil {
		return nil, fmt.Errorf("gate: policy is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{policy: p, handler: handler, logger: logger}, nil
}

// Authorize resolves whether the tool call may run. Denial is a normal
// outcome, not an error; the error return covers handler failures only.
func (g *Gate) Authorize(ctx context.Context, call message.ToolCall) (Verdict, error) {
	switch g.policy.Decide(call.Name) {
	case Deny:
		g.logger.Info("tool call denied by policy", zap.String("tool", call.Name))
		return Verdict{Reason: ReasonDeniedByPolicy}, nil

	case Allow:
		return Verdict{Allowed: true}, nil

	default: // AskUser
		if g.handler == nil {
			g.logger.Warn("no confirmation handler configured, denying tool call",
				zap.String("tool", call.Name))
			return Verdict{Reason: ReasonDeniedByUser}, nil
		}

		result, err := g.handler.RequestConfirmation(ctx, call)
		if err != nil {
			return Verdict{}, fmt.Errorf("confirmation handler for tool %q: %w", call.Name, err)
		}

		if result.Remember {
			d := Deny
			if result.Confirmed {
				d = Allow
			}
			g.policy.Remember(call.Name, d)
			g.logger.Info("remembered tool decision",
				zap.String("tool", call.Name),
				zap.String("decision", string(d)),
			)
		}

		if !result.Confirmed {
			return Verdict{Reason: ReasonDeniedByUser}, nil
		}
		return Verdict{Allowed: true}, nil
	}
}
