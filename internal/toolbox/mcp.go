package toolbox

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// MCPServerConfig describes one MCP server to launch over stdio.
type MCPServerConfig struct {
	// Name labels the server in logs and errors.
	Name string `koanf:"name"`

	// Command is the executable to launch.
	Command string `koanf:"command"`

	// Args are passed to the command.
	Args []string `koanf:"args"`
}

// Validate checks the config.
func (c *MCPServerConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Command == "" {
		return fmt.Errorf("command is required")
	}
	return nil
}

// MCPSource launches an MCP server subprocess, discovers its tools and
// exposes them through the Tool interface. Tool calls are forwarded to
// the server over the stdio session.
type MCPSource struct {
	name    string
	session *mcpsdk.ClientSession
	tools   []Tool
	logger  *zap.Logger
}

// NewMCPSource starts the server and lists its tools. The subprocess
// lives until Close.
func NewMCPSource(ctx context.Context, cfg MCPServerConfig, logger *zap.Logger) (*MCPSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("mcp server config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cmd := exec.Command(cfg.Command, cfg.Args...)
	cmd.Stderr = os.Stderr

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "agentd", Version: "v0.1.0"}, nil)
	session, err := client.Connect(ctx, &mcpsdk.CommandTransport{Command: cmd}, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to MCP server %q: %w", cfg.Name, err)
	}

	src := &MCPSource{name: cfg.Name, session: session, logger: logger}

	params := &mcpsdk.ListToolsParams{}
	for {
		list, err := session.ListTools(ctx, params)
		if err != nil {
			session.Close()
			return nil, fmt.Errorf("list tools from MCP server %q: %w", cfg.Name, err)
		}
		for _, t := range list.Tools {
			src.tools = append(src.tools, &mcpTool{
				source:      src,
				name:        t.Name,
				description: t.Description,
				schema:      schemaToMap(t.InputSchema),
			})
		}
		if list.NextCursor == "" {
			break
		}
		params.Cursor = list.NextCursor
	}

	logger.Info("connected to MCP server",
		zap.String("server", cfg.Name),
		zap.Int("tools", len(src.tools)),
	)
	return src, nil
}

// Tools implements Source.
func (s *MCPSource) Tools() []Tool { return s.tools }

// Close terminates the session and the server subprocess.
func (s *MCPSource) Close() error {
	if s.session == nil {
		return nil
	}
	return s.session.Close()
}

// mcpTool adapts one remote tool to the Tool interface.
type mcpTool struct {
	source      *MCPSource
	name        string
	description string
	schema      map[string]any
}

func (t *mcpTool) Name() string           { return t.name }
func (t *mcpTool) Description() string    { return t.description }
func (t *mcpTool) Schema() map[string]any { return t.schema }

// Call forwards the invocation to the MCP server and concatenates the
// text content of the result.
func (t *mcpTool) Call(ctx context.Context, args map[string]any) (string, error) {
	result, err := t.source.session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      t.name,
		Arguments: args,
	})
	if err != nil {
		return "", fmt.Errorf("call MCP tool %q on server %q: %w", t.name, t.source.name, err)
	}

	var out string
	for _, content := range result.Content {
		if text, ok := content.(*mcpsdk.TextContent); ok {
			out += text.Text
		}
	}
	if result.IsError {
		return "", fmt.Errorf("MCP tool %q reported an error: %s", t.name, out)
	}
	return out, nil
}

func schemaToMap(schema any) map[string]any {
	if schema == nil {
		return nil
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
