package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

func TestAnthropicConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AnthropicConfig
		wantErr bool
	}{
		{"valid", AnthropicConfig{APIKey: "sk-test", Model: "claude-sonnet-4-20250514"}, false},
		{"missing key", AnthropicConfig{Model: "claude-sonnet-4-20250514"}, true},
		{"missing model", AnthropicConfig{APIKey: "sk-test"}, true},
		{"negative rps", AnthropicConfig{APIKey: "sk-test", Model: "m", RequestsPerSecond: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConvertBagMapsRoles(t *testing.T) {
	call := message.ToolCall{ID: "call_1", Name: "read_file", Args: map[string]any{"path": "x"}}
	bag := message.NewBag(
		message.System("instructions"),
		message.User("hello"),
		message.AssistantToolCalls("let me check", call),
		message.ToolResult(call, "file contents"),
		message.Assistant("done"),
	)

	params := convertBag(bag)
	// System message is excluded; the rest map 1:1.
	require.Len(t, params, 4)

	// Assistant tool-call turn carries both text and tool_use blocks.
	assert.Len(t, params[1].Content, 2)
	require.NotNil(t, params[1].Content[1].OfToolUse)
	assert.Equal(t, "call_1", params[1].Content[1].OfToolUse.ID)

	// Tool results travel as user-role tool_result blocks.
	require.NotNil(t, params[2].Content[0].OfToolResult)
	assert.Equal(t, "call_1", params[2].Content[0].OfToolResult.ToolUseID)
}

func TestConvertBagSkipsMediaOnlyUserMessages(t *testing.T) {
	bag := message.NewBag(
		message.UserParts(message.ContentPart{
			Type: message.PartImage, MediaType: "image/png", Data: []byte{1},
		}),
		message.User("text"),
	)
	params := convertBag(bag)
	require.Len(t, params, 1)
}
