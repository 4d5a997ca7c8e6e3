package compression

import (
	"context"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

// Strategy decides and performs history shrinking. Implementations are
// stateless: both methods are pure functions of the bag and the
// strategy's configuration, so one instance can serve concurrent calls.
type Strategy interface {
	// Name returns the strategy identifier used in logs and metrics.
	Name() string

	// ShouldCompress reports whether the bag exceeds the strategy's
	// threshold. Thresholds count non-system messages only.
	ShouldCompress(bag message.Bag) bool

	// Compress returns the shrunken bag. The input bag is never
	// mutated; implementations return a new bag (or the original when
	// compression turns out to be a no-op).
	Compress(ctx context.Context, bag message.Bag) (message.Bag, error)
}
