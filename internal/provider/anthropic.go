package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

const defaultMaxTokens = 4096

// AnthropicConfig configures the Anthropic bridge.
type AnthropicConfig struct {
	// APIKey authenticates against the Anthropic API.
	APIKey string `koanf:"api_key"`

	// Model is the default model when Options.Model is empty.
	Model string `koanf:"model"`

	// RequestsPerSecond rate-limits outbound calls. Zero disables
	// limiting.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// Validate checks the configuration.
func (c *AnthropicConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must be >= 0")
	}
	return nil
}

// Anthropic bridges the Provider contract to the Anthropic Messages API.
type Anthropic struct {
	client  anthropic.Client
	model   string
	tools   []ToolDescriptor
	limiter *rate.Limiter
}

// ToolDescriptor advertises one tool to the model.
type ToolDescriptor struct {
	Name        string
	Description string
	Schema      map[string]any
}

// NewAnthropic creates the bridge. Tool descriptors are advertised on
// every invocation; pass none for a tool-less conversation.
func NewAnthropic(cfg AnthropicConfig, tools []ToolDescriptor) (*Anthropic, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("anthropic config: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Anthropic{
		client:  anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:   cfg.Model,
		tools:   tools,
		limiter: limiter,
	}, nil
}

// Invoke implements Provider.
func (a *Anthropic) Invoke(ctx context.Context, bag message.Bag, opts Options) (*Answer, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("anthropic rate limiter: %w", err)
		}
	}

	model := opts.Model
	if model == "" {
		model = a.model
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  convertBag(bag),
	}
	if opts.Temperature >= 0 {
		params.Temperature = anthropic.Float(opts.Temperature)
	}
	if sys, ok := bag.SystemMessage(); ok && sys.HasText() {
		params.System = []anthropic.TextBlockParam{{Text: sys.Text()}}
	}
	for _, t := range a.tools {
		params.Tools = append(params.Tools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: t.Schema["properties"],
				},
			},
		})
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic invoke: %w", err)
	}
	return convertResponse(resp)
}

// convertBag maps the conversation to Anthropic message params. The
// system message is carried separately via MessageNewParams.System.
func convertBag(bag message.Bag) []anthropic.MessageParam {
	var out []anthropic.MessageParam
	for _, msg := range bag.Messages() {
		switch msg.Role {
		case message.RoleSystem:
			continue
		case message.RoleUser:
			if msg.HasText() {
				out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Text())))
			}
		case message.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if msg.HasText() {
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfText: &anthropic.TextBlockParam{Text: msg.Text()},
				})
			}
			for _, call := range msg.ToolCalls {
				input, err := json.Marshal(call.Args)
				if err != nil {
					continue
				}
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    call.ID,
						Name:  call.Name,
						Input: input,
					},
				})
			}
			if len(blocks) > 0 {
				out = append(out, anthropic.MessageParam{
					Role:    anthropic.MessageParamRoleAssistant,
					Content: blocks,
				})
			}
		case message.RoleTool:
			out = append(out, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{{
					OfToolResult: &anthropic.ToolResultBlockParam{
						ToolUseID: msg.ToolCallID,
						Content: []anthropic.ToolResultBlockParamContentUnion{{
							OfText: &anthropic.TextBlockParam{Text: msg.Text()},
						}},
					},
				}},
			})
		}
	}
	return out
}

func convertResponse(resp *anthropic.Message) (*Answer, error) {
	answer := &Answer{
		Usage: Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}
	for _, block := range resp.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			answer.Text += b.Text
		case anthropic.ToolUseBlock:
			var args map[string]any
			if err := json.Unmarshal(b.Input, &args); err != nil {
				return nil, fmt.Errorf("anthropic tool call %q: decode input: %w", b.Name, err)
			}
			answer.ToolCalls = append(answer.ToolCalls, message.ToolCall{
				ID:   b.ID,
				Name: b.Name,
				Args: args,
			})
		}
	}
	return answer, nil
}
