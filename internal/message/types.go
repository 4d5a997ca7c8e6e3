package message

import (
	"strings"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	// RoleSystem is the instruction message, conventionally first in a Bag.
	RoleSystem Role = "system"
	// RoleUser is caller-authored input.
	RoleUser Role = "user"
	// RoleAssistant is model output (text and/or tool calls).
	RoleAssistant Role = "assistant"
	// RoleTool carries the result of a single tool call back to the model.
	RoleTool Role = "tool"
)

// PartType identifies the kind of a content part.
type PartType string

const (
	PartText  PartType = "text"
	PartImage PartType = "image"
	PartAudio PartType = "audio"
)

// ContentPart is one piece of user message content. Non-text parts carry
// raw media bytes; guardrail scanners skip them.
type ContentPart struct {
	Type      PartType
	Text      string
	MediaType string
	Data      []byte
}

// ToolCall is a model-issued request to run a named tool with arguments.
// Produced by the provider, consumed by the toolbox. Immutable.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// NewToolCall creates a ToolCall with a generated ID. Providers that
// return their own call IDs construct ToolCall directly instead.
func NewToolCall(name string, args map[string]any) ToolCall {
	return ToolCall{ID: uuid.NewString(), Name: name, Args: args}
}

// Message is one conversation turn. Exactly one variant applies per
// message, selected by Role:
//
//   - RoleSystem: Parts holds instruction text
//   - RoleUser: Parts holds text and/or media content
//   - RoleAssistant: Parts holds answer text, ToolCalls any requested calls
//   - RoleTool: Parts holds the tool's textual result, ToolCallID/ToolName
//     reference the originating call
//
// Construct messages through the constructors below; never modify a
// Message after it has been appended to a Bag.
type Message struct {
	Role      Role
	Parts     []ContentPart
	ToolCalls []ToolCall

	// Tool-result fields, set only when Role == RoleTool.
	ToolCallID string
	ToolName   string
}

// System creates a system instruction message.
func System(text string) Message {
	return Message{Role: RoleSystem, Parts: textParts(text)}
}

// User creates a plain-text user message.
func User(text string) Message {
	return Message{Role: RoleUser, Parts: textParts(text)}
}

// UserParts creates a user message with mixed content parts.
func UserParts(parts ...ContentPart) Message {
	return Message{Role: RoleUser, Parts: parts}
}

// Assistant creates a text-only assistant message.
func Assistant(text string) Message {
	return Message{Role: RoleAssistant, Parts: textParts(text)}
}

// AssistantToolCalls creates an assistant message requesting tool calls,
// with optional accompanying text.
func AssistantToolCalls(text string, calls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Parts: textParts(text), ToolCalls: calls}
}

// ToolResult creates a tool-result message referencing the given call.
func ToolResult(call ToolCall, result string) Message {
	return Message{
		Role:       RoleTool,
		Parts:      textParts(result),
		ToolCallID: call.ID,
		ToolName:   call.Name,
	}
}

// Text returns the concatenated text parts of the message. Media parts
// contribute nothing; a message with no text parts returns "".
func (m Message) Text() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if p.Type == PartText {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// HasText reports whether the message carries any non-empty text content.
func (m Message) HasText() bool {
	return strings.TrimSpace(m.Text()) != ""
}

func textParts(text string) []ContentPart {
	if text == "" {
		return nil
	}
	return []ContentPart{{Type: PartText, Text: text}}
}
