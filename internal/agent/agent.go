package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/agentd/internal/guardrails"
	"github.com/fyrsmithlabs/agentd/internal/message"
	"github.com/fyrsmithlabs/agentd/internal/provider"
)

const (
	tracerName = "github.com/fyrsmithlabs/agentd/internal/agent"
	meterName  = "agent"
)

// InputHook inspects or rewrites the conversation before the model is
// invoked. Satisfied by *guardrails.InputProcessor.
type InputHook interface {
	Run(ctx context.Context, bag message.Bag) error
}

// OutputHook inspects the final textual answer before release.
// Satisfied by *guardrails.OutputProcessor.
type OutputHook interface {
	Run(ctx context.Context, answer string) error
}

// Compressor shrinks the conversation when a threshold is exceeded.
// Satisfied by *compression.Service.
type Compressor interface {
	Maybe(ctx context.Context, bag message.Bag) (message.Bag, error)
}

// Agent runs the turn-processing state machine.
type Agent struct {
	cfg        Config
	provider   provider.Provider
	tools      ToolExecutor
	input      InputHook
	output     OutputHook
	compressor Compressor
	logger     *zap.Logger

	tracer trace.Tracer
	meter  metric.Meter

	callCounter    metric.Int64Counter
	callDuration   metric.Float64Histogram
	loopIterations metric.Int64Histogram
}

// Option configures an Agent.
type Option func(*Agent)

// WithTools sets the tool executor. Without one, model-issued tool
// calls abort the call.
func WithTools(tools ToolExecutor) Option {
	return func(a *Agent) { a.tools = tools }
}

// WithInputHook sets the pre-invocation hook.
func WithInputHook(hook InputHook) Option {
	return func(a *Agent) { a.input = hook }
}

// WithOutputHook sets the post-resolution hook.
func WithOutputHook(hook OutputHook) Option {
	return func(a *Agent) { a.output = hook }
}

// WithCompressor sets the compression hook, run after the input hook.
func WithCompressor(c Compressor) Option {
	return func(a *Agent) { a.compressor = c }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Agent) { a.logger = logger }
}

// New creates an Agent around a model provider.
func New(cfg Config, p provider.Provider, opts ...Option) (*Agent, error) {
	if p == nil {
		return nil, fmt.Errorf("agent: provider is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("agent config: %w", err)
	}
	if cfg.MaxToolIterations == 0 {
		cfg.MaxToolIterations = defaultMaxToolIterations
	}

	a := &Agent{
		cfg:      cfg,
		provider: p,
		logger:   zap.NewNop(),
		tracer:   otel.Tracer(tracerName),
		meter:    otel.Meter(meterName),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if err := a.initMetrics(); err != nil {
		return nil, fmt.Errorf("agent: init metrics: %w", err)
	}
	return a, nil
}

// Call runs one full turn: hooks, model invocations, tool resolution.
// The bag is owned by this call; callers must not modify it while Call
// is in flight.
func (a *Agent) Call(ctx context.Context, bag message.Bag, opts CallOptions) (*Result, error) {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "agent.call")
	defer span.End()

	result, err := a.run(ctx, span, bag, opts)

	status := "ok"
	if err != nil {
		span.RecordError(err)
		status = "error"
		var blocked *guardrails.BlockedError
		if errors.As(err, &blocked) {
			status = "blocked"
		}
	}
	a.callCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	a.callDuration.Record(ctx, time.Since(start).Seconds())
	return result, err
}

func (a *Agent) run(ctx context.Context, span trace.Span, bag message.Bag, opts CallOptions) (*Result, error) {
	a.transition(span, StatePreProcessing)

	if a.input != nil {
		if err := a.input.Run(ctx, bag); err != nil {
			a.transition(span, StateBlocked)
			return nil, err
		}
	}

	if a.compressor != nil && !opts.SkipCompression {
		var err error
		bag, err = a.compressor.Maybe(ctx, bag)
		if err != nil {
			return nil, err
		}
	}

	// Orchestration flags are consumed above; only model parameters
	// survive into the provider request.
	provOpts := a.providerOptions(opts)
	maxIterations := a.cfg.MaxToolIterations
	if opts.MaxToolIterations > 0 {
		maxIterations = opts.MaxToolIterations
	}

	var (
		usage      provider.Usage
		iterations int
		answer     *provider.Answer
	)

	for {
		if iterations >= maxIterations {
			a.logger.Error("tool loop iteration cap exceeded",
				zap.Int("iterations", iterations))
			return nil, &FatalError{Iterations: iterations}
		}

		a.transition(span, StateInvoking)
		var err error
		answer, err = a.provider.Invoke(ctx, bag, provOpts)
		if err != nil {
			return nil, fmt.Errorf("invoke model: %w", err)
		}
		iterations++
		usage.InputTokens += answer.Usage.InputTokens
		usage.OutputTokens += answer.Usage.OutputTokens

		if len(answer.ToolCalls) == 0 {
			break
		}

		a.transition(span, StateToolResolution)
		bag = bag.Append(message.AssistantToolCalls(answer.Text, answer.ToolCalls...))
		for _, call := range answer.ToolCalls {
			result, err := a.executeTool(ctx, call)
			if err != nil {
				return nil, err
			}
			bag = bag.Append(message.ToolResult(call, result))
		}
	}
	a.loopIterations.Record(ctx, int64(iterations))

	a.transition(span, StatePostProcessing)
	if a.output != nil {
		if err := a.output.Run(ctx, answer.Text); err != nil {
			a.transition(span, StateBlocked)
			return nil, err
		}
	}

	a.transition(span, StateDone)
	bag = bag.Append(message.Assistant(answer.Text))
	a.logger.Info("call completed",
		zap.Int("iterations", iterations),
		zap.Int64("input_tokens", usage.InputTokens),
		zap.Int64("output_tokens", usage.OutputTokens),
	)
	return &Result{
		Answer:     answer.Text,
		Bag:        bag,
		Usage:      usage,
		Iterations: iterations,
	}, nil
}

func (a *Agent) executeTool(ctx context.Context, call message.ToolCall) (string, error) {
	if a.tools == nil {
		return "", fmt.Errorf("model requested tool %q but no tools are configured", call.Name)
	}
	result, err := a.tools.Execute(ctx, call)
	if err != nil {
		return "", fmt.Errorf("resolve tool call: %w", err)
	}
	return result, nil
}

func (a *Agent) providerOptions(opts CallOptions) provider.Options {
	out := provider.Options{
		Model:       a.cfg.Model,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	}
	if opts.Model != "" {
		out.Model = opts.Model
	}
	if opts.MaxTokens > 0 {
		out.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature != 0 {
		out.Temperature = opts.Temperature
	}
	return out
}

func (a *Agent) transition(span trace.Span, s State) {
	span.AddEvent("state", trace.WithAttributes(attribute.String("state", string(s))))
	a.logger.Debug("state transition", zap.String("state", string(s)))
}

func (a *Agent) initMetrics() error {
	var err error

	a.callCounter, err = a.meter.Int64Counter(
		"agent.calls_total",
		metric.WithDescription("Total number of agent calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	a.callDuration, err = a.meter.Float64Histogram(
		"agent.call_duration_seconds",
		metric.WithDescription("End-to-end duration of agent calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1.0, 5.0, 15.0, 60.0, 300.0),
	)
	if err != nil {
		return err
	}

	a.loopIterations, err = a.meter.Int64Histogram(
		"agent.tool_loop_iterations",
		metric.WithDescription("Model invocations per completed call"),
		metric.WithUnit("1"),
	)
	return err
}
