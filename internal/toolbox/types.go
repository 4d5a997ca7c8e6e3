package toolbox

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for dispatch failures.
var (
	// ErrToolNotFound means the requested tool name is not registered.
	ErrToolNotFound = errors.New("tool not found")

	// ErrToolMisconfigured means a tool binding is unusable (empty name,
	// nil implementation, duplicate registration).
	ErrToolMisconfigured = errors.New("tool misconfigured")
)

// Denial results returned in place of tool output when the gate blocks
// a call. These are conversation content, not errors: the model reads
// them as the tool's result and can adjust its plan.
const (
	DeniedByPolicy = "Tool execution denied by policy."
	DeniedByUser   = "Tool execution denied by user."
)

// Tool is one callable capability exposed to the model.
type Tool interface {
	// Name is the unique identifier the model uses to call the tool.
	Name() string

	// Description tells the model what the tool does.
	Description() string

	// Schema is the JSON-schema object describing the tool's arguments.
	Schema() map[string]any

	// Call runs the tool. The result string flows back to the model
	// verbatim as a tool-result message.
	Call(ctx context.Context, args map[string]any) (string, error)
}

// Source supplies a set of tools, typically discovered from an external
// system such as an MCP server.
type Source interface {
	// Tools returns the tools this source currently provides.
	Tools() []Tool

	// Close releases the source's resources.
	Close() error
}

// Func adapts a plain function into a Tool.
type Func struct {
	ToolName        string
	ToolDescription string
	ToolSchema      map[string]any
	Fn              func(ctx context.Context, args map[string]any) (string, error)
}

func (f Func) Name() string           { return f.ToolName }
func (f Func) Description() string    { return f.ToolDescription }
func (f Func) Schema() map[string]any { return f.ToolSchema }

func (f Func) Call(ctx context.Context, args map[string]any) (string, error) {
	if f.Fn == nil {
		return "", fmt.Errorf("tool %q has nil function: %w", f.ToolName, ErrToolMisconfigured)
	}
	return f.Fn(ctx, args)
}
