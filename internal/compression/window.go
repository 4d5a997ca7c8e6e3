package compression

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

// WindowConfig configures the sliding-window strategy.
type WindowConfig struct {
	// Threshold is the non-system message count above which the window
	// applies.
	Threshold int `koanf:"threshold"`

	// Max is the number of most recent non-system messages to keep.
	Max int `koanf:"max"`
}

// Validate checks the configuration.
func (c *WindowConfig) Validate() error {
	if c.Max < 1 {
		return fmt.Errorf("max must be >= 1, got %d", c.Max)
	}
	if c.Threshold < c.Max {
		return fmt.Errorf("threshold (%d) must be >= max (%d)", c.Threshold, c.Max)
	}
	return nil
}

// SlidingWindow keeps only the most recent Max non-system messages once
// the count exceeds Threshold. The system message, if any, is always
// retained as the first element.
type SlidingWindow struct {
	cfg WindowConfig
}

// NewSlidingWindow creates the strategy.
func NewSlidingWindow(cfg WindowConfig) (*SlidingWindow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sliding window config: %w", err)
	}
	return &SlidingWindow{cfg: cfg}, nil
}

// Name implements Strategy.
func (s *SlidingWindow) Name() string { return "sliding_window" }

// ShouldCompress implements Strategy.
func (s *SlidingWindow) ShouldCompress(bag message.Bag) bool {
	return bag.NonSystemCount() > s.cfg.Threshold
}

// Compress implements Strategy.
func (s *SlidingWindow) Compress(ctx context.Context, bag message.Bag) (message.Bag, error) {
	nonSystem := bag.NonSystem()
	if len(nonSystem) <= s.cfg.Max {
		return bag, nil
	}
	recent := nonSystem[len(nonSystem)-s.cfg.Max:]

	var kept []message.Message
	if sys, ok := bag.SystemMessage(); ok {
		kept = append(kept, sys)
	}
	kept = append(kept, recent...)
	return message.NewBag(kept...), nil
}
