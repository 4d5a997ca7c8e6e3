package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/agentd/internal/agent"
	"github.com/fyrsmithlabs/agentd/internal/compression"
	"github.com/fyrsmithlabs/agentd/internal/config"
	"github.com/fyrsmithlabs/agentd/internal/guardrails"
	"github.com/fyrsmithlabs/agentd/internal/policy"
	"github.com/fyrsmithlabs/agentd/internal/provider"
	"github.com/fyrsmithlabs/agentd/internal/toolbox"
)

// buildInputProcessor assembles the pre-invocation guardrail chain in
// severity order: injection first, then invisible characters, then any
// caller patterns.
func buildInputProcessor(cfg config.GuardrailsConfig, logger *zap.Logger) (*guardrails.InputProcessor, error) {
	var scanners []guardrails.InputScanner

	if cfg.InjectionEnabled {
		s, err := guardrails.NewPromptInjectionScanner(cfg.Injection)
		if err != nil {
			return nil, fmt.Errorf("injection scanner: %w", err)
		}
		scanners = append(scanners, s)
	}
	if cfg.InvisibleEnabled {
		s, err := guardrails.NewInvisibleRuneScanner(cfg.Invisible)
		if err != nil {
			return nil, fmt.Errorf("invisible-rune scanner: %w", err)
		}
		scanners = append(scanners, s)
	}
	for _, rc := range cfg.InputPatterns {
		s, err := guardrails.NewRegexScanner(rc)
		if err != nil {
			return nil, err
		}
		scanners = append(scanners, s)
	}
	return guardrails.NewInputProcessor(logger, scanners...), nil
}

// buildOutputProcessor assembles the post-resolution chain: secret-leak
// scanning first, then caller patterns.
func buildOutputProcessor(cfg config.GuardrailsConfig, logger *zap.Logger) (*guardrails.OutputProcessor, error) {
	var scanners []guardrails.OutputScanner

	if cfg.SecretsEnabled {
		s, err := guardrails.NewSecretScanner()
		if err != nil {
			return nil, fmt.Errorf("secret scanner: %w", err)
		}
		scanners = append(scanners, s)
	}
	for _, rc := range cfg.OutputPatterns {
		s, err := guardrails.NewRegexScanner(rc)
		if err != nil {
			return nil, err
		}
		scanners = append(scanners, s)
	}
	return guardrails.NewOutputProcessor(logger, scanners...), nil
}

// buildCompressor returns nil when the strategy is "none".
func buildCompressor(cfg config.CompressionConfig, p provider.Provider, logger *zap.Logger) (*compression.Service, error) {
	var (
		strategy compression.Strategy
		err      error
	)
	switch cfg.Strategy {
	case config.StrategyNone:
		return nil, nil
	case config.StrategyWindow:
		strategy, err = compression.NewSlidingWindow(cfg.Window)
	case config.StrategySummarize:
		strategy, err = compression.NewSummarizer(cfg.Summarizer, p)
	case config.StrategyHybrid:
		var primary, secondary compression.Strategy
		primary, err = compression.NewSlidingWindow(cfg.Window)
		if err != nil {
			return nil, err
		}
		secondary, err = compression.NewSummarizer(cfg.Summarizer, p)
		if err != nil {
			return nil, err
		}
		strategy, err = compression.NewHybrid(cfg.Hybrid, primary, secondary)
	default:
		return nil, fmt.Errorf("unknown compression strategy %q", cfg.Strategy)
	}
	if err != nil {
		return nil, err
	}
	return compression.NewService(strategy, logger)
}

// buildToolbox connects the configured MCP servers and gates every call
// through the policy. The returned close function stops the server
// subprocesses.
func buildToolbox(ctx context.Context, cfg *config.Config, handler policy.ConfirmationHandler, logger *zap.Logger) (*toolbox.Toolbox, func(), error) {
	gate, err := policy.NewGate(policy.New(cfg.Policy), handler, logger)
	if err != nil {
		return nil, nil, err
	}

	registry := toolbox.NewRegistry()
	var sources []toolbox.Source
	closeAll := func() {
		for _, src := range sources {
			if err := src.Close(); err != nil {
				logger.Warn("closing tool source", zap.Error(err))
			}
		}
	}

	for _, serverCfg := range cfg.MCPServers {
		src, err := toolbox.NewMCPSource(ctx, serverCfg, logger)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sources = append(sources, src)
		if err := registry.RegisterAll(src.Tools()); err != nil {
			closeAll()
			return nil, nil, err
		}
	}

	tb, err := toolbox.New(registry, gate, logger)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	return tb, closeAll, nil
}

// buildAgent wires the full pipeline from config.
func buildAgent(ctx context.Context, cfg *config.Config, handler policy.ConfirmationHandler, logger *zap.Logger) (*agent.Agent, func(), error) {
	tb, closeTools, err := buildToolbox(ctx, cfg, handler, logger)
	if err != nil {
		return nil, nil, err
	}

	p, err := provider.NewAnthropic(cfg.Provider, tb.Descriptors())
	if err != nil {
		closeTools()
		return nil, nil, err
	}

	input, err := buildInputProcessor(cfg.Guardrails, logger)
	if err != nil {
		closeTools()
		return nil, nil, err
	}
	output, err := buildOutputProcessor(cfg.Guardrails, logger)
	if err != nil {
		closeTools()
		return nil, nil, err
	}

	opts := []agent.Option{
		agent.WithTools(tb),
		agent.WithInputHook(input),
		agent.WithOutputHook(output),
		agent.WithLogger(logger),
	}
	compressor, err := buildCompressor(cfg.Compression, p, logger)
	if err != nil {
		closeTools()
		return nil, nil, err
	}
	if compressor != nil {
		opts = append(opts, agent.WithCompressor(compressor))
	}

	a, err := agent.New(cfg.Agent, p, opts...)
	if err != nil {
		closeTools()
		return nil, nil, err
	}
	return a, closeTools, nil
}
