package guardrails

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

// InputProcessor runs input scanners in list order against the
// conversation-so-far before the model is invoked. The first triggered
// result short-circuits the chain: no further scanners run, and the
// returned *BlockedError prevents the model from being invoked at all.
// Scanner order therefore determines which reason surfaces.
type InputProcessor struct {
	scanners []InputScanner
	logger   *zap.Logger
}

// NewInputProcessor creates the processor. A nil logger falls back to a
// no-op logger.
func NewInputProcessor(logger *zap.Logger, scanners ...InputScanner) *InputProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InputProcessor{scanners: scanners, logger: logger}
}

// Run evaluates every scanner until one triggers.
func (p *InputProcessor) Run(ctx context.Context, bag message.Bag) error {
	for _, s := range p.scanners {
		result, err := s.ValidateInput(ctx, bag)
		if err != nil {
			return fmt.Errorf("input scanner %q: %w", s.Name(), err)
		}
		if result.Triggered {
			p.logger.Warn("input guardrail triggered",
				zap.String("scanner", result.Scanner),
				zap.Float64("score", result.Score),
				zap.String("reason", result.Reason),
			)
			return &BlockedError{Stage: StageInput, Result: result}
		}
	}
	return nil
}

// OutputProcessor runs output scanners against the model's final textual
// answer, after the tool-call loop has fully resolved. It never sees
// intermediate tool-calling turns. A triggered scanner blocks the answer
// from reaching the caller while keeping the Result recoverable for
// audit logging.
type OutputProcessor struct {
	scanners []OutputScanner
	logger   *zap.Logger
}

// NewOutputProcessor creates the processor.
func NewOutputProcessor(logger *zap.Logger, scanners ...OutputScanner) *OutputProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutputProcessor{scanners: scanners, logger: logger}
}

// Run evaluates every scanner against the answer until one triggers.
func (p *OutputProcessor) Run(ctx context.Context, answer string) error {
	for _, s := range p.scanners {
		result, err := s.ValidateOutput(ctx, answer)
		if err != nil {
			return fmt.Errorf("output scanner %q: %w", s.Name(), err)
		}
		if result.Triggered {
			p.logger.Warn("output guardrail triggered",
				zap.String("scanner", result.Scanner),
				zap.Float64("score", result.Score),
				zap.String("reason", result.Reason),
			)
			return &BlockedError{Stage: StageOutput, Result: result}
		}
	}
	return nil
}
