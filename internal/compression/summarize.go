package compression

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fyrsmithlabs/agentd/internal/message"
	"github.com/fyrsmithlabs/agentd/internal/provider"
)

const (
	// summaryHeading marks the summary section inside the system
	// message. Repeated compressions replace everything after it.
	summaryHeading = "## Conversation summary"

	// toolResultTruncateAt bounds tool results in the transcript.
	toolResultTruncateAt = 200

	summarizerSystemPrompt = "You summarize conversation transcripts. " +
		"Produce a concise summary that preserves decisions, facts, open questions, " +
		"and tool outcomes. Respond with the summary only, no preamble."
)

// SummarizerConfig configures the summarization strategy.
type SummarizerConfig struct {
	// Threshold is the non-system count above which summarization runs.
	Threshold int `koanf:"threshold"`

	// KeepRecent is the number of most recent non-system messages left
	// untouched; everything older is folded into the summary.
	KeepRecent int `koanf:"keep_recent"`

	// Model optionally selects a cheaper model for summarization.
	Model string `koanf:"model"`

	// MaxTokens bounds the summary length. Zero means provider default.
	MaxTokens int64 `koanf:"max_tokens"`
}

// Validate checks the configuration.
func (c *SummarizerConfig) Validate() error {
	if c.KeepRecent < 1 {
		return fmt.Errorf("keep_recent must be >= 1, got %d", c.KeepRecent)
	}
	if c.Threshold < c.KeepRecent {
		return fmt.Errorf("threshold (%d) must be >= keep_recent (%d)", c.Threshold, c.KeepRecent)
	}
	return nil
}

// Summarizer folds messages older than the KeepRecent window into a
// natural-language summary written by a (typically cheaper) model. The
// summary lives in the system message under a fixed heading so repeated
// compressions stay idempotent in shape.
type Summarizer struct {
	cfg      SummarizerConfig
	provider provider.Provider
}

// NewSummarizer creates the strategy. The provider is invoked only when
// there is a non-empty transcript to summarize.
func NewSummarizer(cfg SummarizerConfig, p provider.Provider) (*Summarizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("summarizer config: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("summarizer: provider is required")
	}
	return &Summarizer{cfg: cfg, provider: p}, nil
}

// Name implements Strategy.
func (s *Summarizer) Name() string { return "summarization" }

// ShouldCompress implements Strategy.
func (s *Summarizer) ShouldCompress(bag message.Bag) bool {
	return bag.NonSystemCount() > s.cfg.Threshold
}

// Compress implements Strategy. When every non-system message falls
// within the KeepRecent window, or the old-message transcript renders
// empty, compression is a no-op and the original bag is returned
// unchanged; the summarization model is never invoked on an empty
// transcript.
func (s *Summarizer) Compress(ctx context.Context, bag message.Bag) (message.Bag, error) {
	nonSystem := bag.NonSystem()
	if len(nonSystem) <= s.cfg.KeepRecent {
		return bag, nil
	}

	old := nonSystem[:len(nonSystem)-s.cfg.KeepRecent]
	recent := nonSystem[len(nonSystem)-s.cfg.KeepRecent:]

	transcript := renderTranscript(old)
	if transcript == "" {
		return bag, nil
	}

	summary, err := s.summarize(ctx, transcript)
	if err != nil {
		return message.Bag{}, fmt.Errorf("summarize history: %w", err)
	}

	systemText := baseSystemText(bag)
	var b strings.Builder
	if systemText != "" {
		b.WriteString(systemText)
		b.WriteString("\n\n")
	}
	b.WriteString(summaryHeading)
	b.WriteString("\n\n")
	b.WriteString(summary)

	compressed := message.NewBag(message.System(b.String())).Append(recent...)
	return compressed, nil
}

func (s *Summarizer) summarize(ctx context.Context, transcript string) (string, error) {
	req := message.NewBag(
		message.System(summarizerSystemPrompt),
		message.User("Summarize this conversation:\n\n"+transcript),
	)
	answer, err := s.provider.Invoke(ctx, req, provider.Options{
		Model:       s.cfg.Model,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer.Text), nil
}

// renderTranscript produces the deterministic transcript sent to the
// summarization model. Tool results render as "Tool: [name] <result>"
// with the result truncated; empty-content messages are skipped.
func renderTranscript(msgs []message.Message) string {
	var lines []string
	for _, m := range msgs {
		text := strings.TrimSpace(m.Text())
		if text == "" {
			continue
		}
		switch m.Role {
		case message.RoleTool:
			lines = append(lines, fmt.Sprintf("Tool: [%s] %s", m.ToolName,
				truncate(text, toolResultTruncateAt)))
		case message.RoleUser:
			lines = append(lines, "User: "+text)
		case message.RoleAssistant:
			lines = append(lines, "Assistant: "+text)
		case message.RoleSystem:
			lines = append(lines, "System: "+text)
		}
	}
	return strings.Join(lines, "\n")
}

// truncate bounds text to max bytes without splitting a multibyte rune,
// appending "..." when anything was dropped.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

// baseSystemText returns the system text with any previous summary
// section stripped, so repeated compressions do not stack headings.
func baseSystemText(bag message.Bag) string {
	sys, ok := bag.SystemMessage()
	if !ok {
		return ""
	}
	text := sys.Text()
	if idx := strings.Index(text, summaryHeading); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
