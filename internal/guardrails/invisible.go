package guardrails

import (
	"context"
	"fmt"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

const (
	invisibleScannerName = "invisible_runes"

	// invisibleScoreCeiling is the count at which the score saturates
	// at 1.0. The score scales linearly with the matched count so
	// downstream policy can rank severity.
	invisibleScoreCeiling = 20
)

// invisibleRunes is the fixed set of invisible and format code points
// that have no business appearing in typed user input.
var invisibleRunes = map[rune]struct{}{
	'\u200b': {}, // zero-width space
	'\u200c': {}, // zero-width non-joiner
	'\u200d': {}, // zero-width joiner
	'\u200e': {}, // left-to-right mark
	'\u200f': {}, // right-to-left mark
	'\u202a': {}, // left-to-right embedding
	'\u202b': {}, // right-to-left embedding
	'\u202c': {}, // pop directional formatting
	'\u202d': {}, // left-to-right override
	'\u202e': {}, // right-to-left override
	'\u2060': {}, // word joiner
	'\u2066': {}, // left-to-right isolate
	'\u2067': {}, // right-to-left isolate
	'\u2068': {}, // first strong isolate
	'\u2069': {}, // pop directional isolate
	'\u00ad': {}, // soft hyphen
	'\u180e': {}, // mongolian vowel separator
	'\ufeff': {}, // byte order mark
}

// InvisibleConfig configures the invisible-character scanner.
type InvisibleConfig struct {
	// MaxAllowed is the number of invisible runes tolerated before the
	// scanner triggers. The default of zero triggers on any occurrence.
	MaxAllowed int `koanf:"max_allowed"`
}

// Validate checks the configuration.
func (c *InvisibleConfig) Validate() error {
	if c.MaxAllowed < 0 {
		return fmt.Errorf("max_allowed must be >= 0, got %d", c.MaxAllowed)
	}
	return nil
}

// InvisibleRuneScanner counts invisible and bidirectional-control code
// points in the latest user text and triggers when the count exceeds the
// configured tolerance. Invisible characters are a common smuggling
// vector for hidden instructions.
type InvisibleRuneScanner struct {
	maxAllowed int
}

// NewInvisibleRuneScanner creates the scanner from config.
func NewInvisibleRuneScanner(cfg InvisibleConfig) (*InvisibleRuneScanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invisible scanner config: %w", err)
	}
	return &InvisibleRuneScanner{maxAllowed: cfg.MaxAllowed}, nil
}

// Name implements InputScanner.
func (s *InvisibleRuneScanner) Name() string { return invisibleScannerName }

// ValidateInput counts invisible runes in the latest user text.
func (s *InvisibleRuneScanner) ValidateInput(ctx context.Context, bag message.Bag) (Result, error) {
	text := bag.LatestUserText()
	if text == "" {
		return Result{Scanner: s.Name()}, nil
	}

	count := 0
	for _, r := range text {
		if _, ok := invisibleRunes[r]; ok {
			count++
		}
	}

	if count <= s.maxAllowed {
		return Result{Scanner: s.Name()}, nil
	}

	score := float64(count) / invisibleScoreCeiling
	if score > 1.0 {
		score = 1.0
	}
	return Result{
		Triggered: true,
		Scanner:   s.Name(),
		Score:     score,
		Reason:    fmt.Sprintf("%d invisible characters detected (max allowed %d)", count, s.maxAllowed),
	}, nil
}
