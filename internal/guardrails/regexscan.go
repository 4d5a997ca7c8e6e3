package guardrails

import (
	"context"
	"fmt"
	"regexp"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

// RegexConfig configures a generic regex scanner instance.
type RegexConfig struct {
	// Name identifies this scanner instance in results and logs.
	Name string `koanf:"name"`

	// Patterns are the regular expressions to check.
	Patterns []string `koanf:"patterns"`

	// Reason is reported for any pattern match in this instance.
	Reason string `koanf:"reason"`
}

// Validate checks the configuration without compiling.
func (c *RegexConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(c.Patterns) == 0 {
		return fmt.Errorf("at least one pattern is required")
	}
	if c.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	return nil
}

// RegexScanner checks caller-supplied patterns against the latest user
// text (input mode) or the model's answer (output mode). One instance
// covers all its patterns with a single reason; register multiple
// instances for distinct reasons.
type RegexScanner struct {
	name     string
	patterns []*regexp.Regexp
	reason   string
}

// NewRegexScanner compiles the configured patterns. Invalid regex syntax
// is a configuration error and fails construction, never scan time.
func NewRegexScanner(cfg RegexConfig) (*RegexScanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("regex scanner config: %w", err)
	}

	compiled := make([]*regexp.Regexp, 0, len(cfg.Patterns))
	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("regex scanner %q: invalid pattern %q: %w", cfg.Name, p, err)
		}
		compiled = append(compiled, re)
	}

	return &RegexScanner{name: cfg.Name, patterns: compiled, reason: cfg.Reason}, nil
}

// Name implements InputScanner and OutputScanner.
func (s *RegexScanner) Name() string { return s.name }

// ValidateInput checks the latest user text.
func (s *RegexScanner) ValidateInput(ctx context.Context, bag message.Bag) (Result, error) {
	return s.scan(bag.LatestUserText()), nil
}

// ValidateOutput checks the candidate answer text.
func (s *RegexScanner) ValidateOutput(ctx context.Context, answer string) (Result, error) {
	return s.scan(answer), nil
}

func (s *RegexScanner) scan(text string) Result {
	if text == "" {
		return Result{Scanner: s.name}
	}
	for _, re := range s.patterns {
		if re.MatchString(text) {
			return Result{
				Triggered: true,
				Scanner:   s.name,
				Score:     1.0,
				Reason:    s.reason,
			}
		}
	}
	return Result{Scanner: s.name}
}
