// Package config loads agentd configuration from YAML and environment
// variables.
package config

import (
	"fmt"

	"github.com/fyrsmithlabs/agentd/internal/agent"
	"github.com/fyrsmithlabs/agentd/internal/compression"
	"github.com/fyrsmithlabs/agentd/internal/guardrails"
	"github.com/fyrsmithlabs/agentd/internal/logging"
	"github.com/fyrsmithlabs/agentd/internal/policy"
	"github.com/fyrsmithlabs/agentd/internal/provider"
	"github.com/fyrsmithlabs/agentd/internal/telemetry"
	"github.com/fyrsmithlabs/agentd/internal/toolbox"
)

// Config is the full agentd configuration.
type Config struct {
	Logging     logging.Config             `koanf:"logging"`
	Telemetry   telemetry.Config           `koanf:"telemetry"`
	Provider    provider.AnthropicConfig   `koanf:"provider"`
	Agent       agent.Config               `koanf:"agent"`
	Compression CompressionConfig          `koanf:"compression"`
	Guardrails  GuardrailsConfig           `koanf:"guardrails"`
	Policy      policy.Config              `koanf:"policy"`
	MCPServers  []toolbox.MCPServerConfig  `koanf:"mcp_servers"`
}

// Compression strategy names accepted in config.
const (
	StrategyNone      = "none"
	StrategyWindow    = "window"
	StrategySummarize = "summarize"
	StrategyHybrid    = "hybrid"
)

// CompressionConfig selects and parameterizes the compression strategy.
type CompressionConfig struct {
	// Strategy is one of none, window, summarize, hybrid.
	Strategy string `koanf:"strategy"`

	Window     compression.WindowConfig     `koanf:"window"`
	Summarizer compression.SummarizerConfig `koanf:"summarizer"`
	Hybrid     compression.HybridConfig     `koanf:"hybrid"`
}

// Validate checks the compression section.
func (c *CompressionConfig) Validate() error {
	switch c.Strategy {
	case StrategyNone, StrategyWindow, StrategySummarize, StrategyHybrid:
		return nil
	default:
		return fmt.Errorf("unknown compression strategy %q", c.Strategy)
	}
}

// GuardrailsConfig enables and parameterizes the guardrail scanners.
type GuardrailsConfig struct {
	InjectionEnabled bool                        `koanf:"injection_enabled"`
	Injection        guardrails.InjectionConfig  `koanf:"injection"`

	InvisibleEnabled bool                        `koanf:"invisible_enabled"`
	Invisible        guardrails.InvisibleConfig  `koanf:"invisible"`

	// SecretsEnabled turns on secret-leak scanning of outgoing answers.
	SecretsEnabled bool `koanf:"secrets_enabled"`

	// InputPatterns and OutputPatterns are extra regex scanner
	// instances for each stage.
	InputPatterns  []guardrails.RegexConfig `koanf:"input_patterns"`
	OutputPatterns []guardrails.RegexConfig `koanf:"output_patterns"`
}

// Validate checks the regex scanner configs; scanner construction
// revalidates and compiles them.
func (c *GuardrailsConfig) Validate() error {
	for i := range c.InputPatterns {
		if err := c.InputPatterns[i].Validate(); err != nil {
			return fmt.Errorf("input_patterns[%d]: %w", i, err)
		}
	}
	for i := range c.OutputPatterns {
		if err := c.OutputPatterns[i].Validate(); err != nil {
			return fmt.Errorf("output_patterns[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Compression.Validate(); err != nil {
		return fmt.Errorf("compression: %w", err)
	}
	if err := c.Guardrails.Validate(); err != nil {
		return fmt.Errorf("guardrails: %w", err)
	}
	for i := range c.MCPServers {
		if err := c.MCPServers[i].Validate(); err != nil {
			return fmt.Errorf("mcp_servers[%d]: %w", i, err)
		}
	}
	// The provider section is validated at bridge construction, so a
	// config without an API key still loads for offline commands.
	return nil
}
