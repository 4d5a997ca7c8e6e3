package compression

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

// HybridConfig configures the hybrid strategy thresholds.
type HybridConfig struct {
	// PrimaryThreshold activates the primary strategy.
	PrimaryThreshold int `koanf:"primary_threshold"`

	// SecondaryThreshold activates the secondary strategy. The
	// secondary always takes precedence when both are exceeded.
	SecondaryThreshold int `koanf:"secondary_threshold"`
}

// Validate checks the configuration.
func (c *HybridConfig) Validate() error {
	if c.PrimaryThreshold < 1 {
		return fmt.Errorf("primary_threshold must be >= 1, got %d", c.PrimaryThreshold)
	}
	if c.SecondaryThreshold <= c.PrimaryThreshold {
		return fmt.Errorf("secondary_threshold (%d) must be > primary_threshold (%d)",
			c.SecondaryThreshold, c.PrimaryThreshold)
	}
	return nil
}

// Hybrid delegates to a cheap primary strategy (typically a sliding
// window) past the lower threshold and promotes a secondary strategy
// (typically summarization) past the higher one.
type Hybrid struct {
	cfg       HybridConfig
	primary   Strategy
	secondary Strategy
}

// NewHybrid creates the strategy.
func NewHybrid(cfg HybridConfig, primary, secondary Strategy) (*Hybrid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("hybrid config: %w", err)
	}
	if primary == nil || secondary == nil {
		return nil, fmt.Errorf("hybrid: primary and secondary strategies are required")
	}
	return &Hybrid{cfg: cfg, primary: primary, secondary: secondary}, nil
}

// Name implements Strategy.
func (h *Hybrid) Name() string { return "hybrid" }

// ShouldCompress implements Strategy.
func (h *Hybrid) ShouldCompress(bag message.Bag) bool {
	return bag.NonSystemCount() > h.cfg.PrimaryThreshold
}

// Compress implements Strategy. The secondary strategy wins whenever its
// threshold is exceeded, regardless of the primary.
func (h *Hybrid) Compress(ctx context.Context, bag message.Bag) (message.Bag, error) {
	if bag.NonSystemCount() > h.cfg.SecondaryThreshold {
		return h.secondary.Compress(ctx, bag)
	}
	return h.primary.Compress(ctx, bag)
}
