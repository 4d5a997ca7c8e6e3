package guardrails

import (
	"context"
	"fmt"
	"regexp"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

const injectionScannerName = "prompt_injection"

// Category is one prompt-injection detection category: a label that
// becomes the triggered reason, plus the patterns that detect it.
type Category struct {
	// Label is the human-readable reason reported on a match.
	Label string

	// Patterns are regular expressions checked against the latest user
	// text. Any match triggers the category.
	Patterns []string
}

type compiledCategory struct {
	label    string
	patterns []*regexp.Regexp
}

// InjectionConfig configures the prompt-injection scanner.
type InjectionConfig struct {
	// DisableBuiltins drops the built-in category table entirely.
	DisableBuiltins bool `koanf:"disable_builtins"`

	// ExtraCategories are evaluated after the built-in table, in order.
	ExtraCategories []Category `koanf:"extra_categories"`
}

// PromptInjectionScanner detects prompt-injection attempts in the latest
// user message. Categories are evaluated in order and the first matching
// category wins, so the table order encodes tie-break priority.
type PromptInjectionScanner struct {
	categories []compiledCategory
}

// builtinCategories is the default detection table. Order matters: the
// first matching category supplies the reported reason.
var builtinCategories = []Category{
	{
		Label: "Instruction override attempt",
		Patterns: []string{
			`(?i)\b(ignore|disregard|forget|override)\b[^.]{0,60}\b(previous|prior|above|earlier|all|any)\b[^.]{0,40}\b(instruction|prompt|rule|direction|guideline)s?\b`,
			`(?i)\bdo\s+not\s+follow\b[^.]{0,40}\binstructions?\b`,
		},
	},
	{
		Label: "Role hijacking attempt",
		Patterns: []string{
			`(?i)\byou\s+are\s+now\s+(a|an|the|in)\b`,
			`(?i)\bact\s+as\s+(a|an|if|though)\b`,
			`(?i)\bpretend\s+(to\s+be|you\s+are)\b`,
			`(?i)\bfrom\s+now\s+on\s+you\b`,
		},
	},
	{
		Label: "System prompt injection attempt",
		Patterns: []string{
			`(?i)\bnew\s+system\s+(prompt|instruction|message|rule)s?\b`,
			`(?i)\byour\s+(new|updated|real)\s+(instruction|rule|directive)s?\s+(is|are)\b`,
			`(?i)\bsystem\s+override\b`,
		},
	},
	{
		Label: "System prompt extraction attempt",
		Patterns: []string{
			`(?i)\b(reveal|show|print|repeat|display|output|tell\s+me)\b[^.]{0,40}\b(system\s+prompt|your\s+(instruction|prompt|rule)s?|initial\s+prompt)`,
			`(?i)\bwhat\s+(is|are|were)\s+your\s+(system\s+)?(instruction|prompt|rule)s?\b`,
		},
	},
	{
		Label: "Fake system tag",
		Patterns: []string{
			`(?i)\[\s*/?\s*(system|sys)\s*\]`,
			`(?i)<\s*/?\s*(system|sys)\s*>`,
			`(?i)<<\s*/?\s*SYS\s*>>`,
			`(?i)#{1,4}\s*system\s*:`,
		},
	},
	{
		Label: "Control token injection",
		Patterns: []string{
			`<\|im_start\|>`,
			`<\|im_end\|>`,
			`(?i)<\|endoftext\|>`,
			`\[INST\]`,
			`\[/INST\]`,
			`<\|assistant\|>`,
		},
	},
	{
		Label: "Known jailbreak phrase",
		Patterns: []string{
			`(?i)\bDAN\s+mode\b`,
			`(?i)\bdo\s+anything\s+now\b`,
			`(?i)\bdeveloper\s+mode\s+(enabled|activated)\b`,
			`(?i)\bjailbreak(ing|s)?\b`,
			`(?i)\bAIM\s+mode\b`,
		},
	},
}

// NewPromptInjectionScanner compiles the category table. Invalid patterns
// in ExtraCategories are a configuration error and fail construction.
func NewPromptInjectionScanner(cfg InjectionConfig) (*PromptInjectionScanner, error) {
	var table []Category
	if !cfg.DisableBuiltins {
		table = append(table, builtinCategories...)
	}
	table = append(table, cfg.ExtraCategories...)

	s := &PromptInjectionScanner{categories: make([]compiledCategory, 0, len(table))}
	for _, cat := range table {
		if cat.Label == "" {
			return nil, fmt.Errorf("injection category with empty label")
		}
		cc := compiledCategory{label: cat.Label}
		for _, p := range cat.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("injection category %q: invalid pattern %q: %w", cat.Label, p, err)
			}
			cc.patterns = append(cc.patterns, re)
		}
		s.categories = append(s.categories, cc)
	}
	return s, nil
}

// Name implements InputScanner.
func (s *PromptInjectionScanner) Name() string { return injectionScannerName }

// ValidateInput checks the latest user text against the category table.
func (s *PromptInjectionScanner) ValidateInput(ctx context.Context, bag message.Bag) (Result, error) {
	text := bag.LatestUserText()
	if text == "" {
		return Result{Scanner: s.Name()}, nil
	}

	for _, cat := range s.categories {
		for _, re := range cat.patterns {
			if re.MatchString(text) {
				return Result{
					Triggered: true,
					Scanner:   s.Name(),
					Score:     1.0,
					Reason:    cat.label,
				}, nil
			}
		}
	}
	return Result{Scanner: s.Name()}, nil
}
