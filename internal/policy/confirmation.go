package policy

import (
	"context"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

// ConfirmationResult is a human's answer to a tool confirmation prompt.
// The four canonical values are confirmed once, denied once, always
// (confirmed and remembered), and never (denied and remembered).
type ConfirmationResult struct {
	Confirmed bool
	Remember  bool
}

// ConfirmOnce allows this call only.
func ConfirmOnce() ConfirmationResult { return ConfirmationResult{Confirmed: true} }

// DenyOnce denies this call only.
func DenyOnce() ConfirmationResult { return ConfirmationResult{} }

// ConfirmAlways allows this call and remembers the decision.
func ConfirmAlways() ConfirmationResult { return ConfirmationResult{Confirmed: true, Remember: true} }

// DenyNever denies this call and remembers the decision.
func DenyNever() ConfirmationResult { return ConfirmationResult{Remember: true} }

// ConfirmationHandler asks a human whether a tool call may run. It is
// consulted only when the policy returns AskUser.
type ConfirmationHandler interface {
	RequestConfirmation(ctx context.Context, call message.ToolCall) (ConfirmationResult, error)
}

// ConfirmationHandlerFunc adapts a function to ConfirmationHandler.
type ConfirmationHandlerFunc func(ctx context.Context, call message.ToolCall) (ConfirmationResult, error)

// RequestConfirmation implements ConfirmationHandler.
func (f ConfirmationHandlerFunc) RequestConfirmation(ctx context.Context, call message.ToolCall) (ConfirmationResult, error) {
	return f(ctx, call)
}
