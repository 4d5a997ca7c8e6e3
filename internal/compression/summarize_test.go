package compression

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/agentd/internal/message"
	"github.com/fyrsmithlabs/agentd/internal/provider"
)

func newSummarizer(t *testing.T, cfg SummarizerConfig, p provider.Provider) *Summarizer {
	t.Helper()
	s, err := NewSummarizer(cfg, p)
	require.NoError(t, err)
	return s
}

func TestSummarizerFoldsOldMessages(t *testing.T) {
	mock := provider.NewMockProvider(&provider.Answer{Text: "they discussed apples"})
	s := newSummarizer(t, SummarizerConfig{Threshold: 3, KeepRecent: 2}, mock)

	bag := message.NewBag(
		message.System("be helpful"),
		message.User("I like apples"),
		message.Assistant("noted, apples are great"),
		message.User("and pears"),
		message.Assistant("pears too"),
	)
	require.True(t, s.ShouldCompress(bag))

	compressed, err := s.Compress(context.Background(), bag)
	require.NoError(t, err)

	// System message rewritten with summary heading, recent two kept.
	sys, ok := compressed.SystemMessage()
	require.True(t, ok)
	assert.Contains(t, sys.Text(), "be helpful")
	assert.Contains(t, sys.Text(), "## Conversation summary")
	assert.Contains(t, sys.Text(), "they discussed apples")

	require.Equal(t, 2, compressed.NonSystemCount())
	assert.Equal(t, "and pears", compressed.At(1).Text())
	assert.Equal(t, "pears too", compressed.At(2).Text())

	// The summarization request rendered the old turns as a transcript.
	require.Equal(t, 1, mock.Invocations())
	sent := mock.Bags[0].LatestUserText()
	assert.Contains(t, sent, "User: I like apples")
	assert.Contains(t, sent, "Assistant: noted, apples are great")
}

func TestSummarizerRendersToolResultsTruncated(t *testing.T) {
	mock := provider.NewMockProvider(&provider.Answer{Text: "summary"})
	s := newSummarizer(t, SummarizerConfig{Threshold: 2, KeepRecent: 1}, mock)

	call := message.ToolCall{ID: "c1", Name: "search_docs", Args: nil}
	long := strings.Repeat("x", 500)
	bag := message.NewBag(
		message.AssistantToolCalls("", call),
		message.ToolResult(call, long),
		message.Assistant("done"),
	)

	_, err := s.Compress(context.Background(), bag)
	require.NoError(t, err)

	sent := mock.Bags[0].LatestUserText()
	assert.Contains(t, sent, "Tool: [search_docs] "+strings.Repeat("x", 200)+"...")
	assert.NotContains(t, sent, strings.Repeat("x", 201))
}

func TestSummarizerTruncatesToolResultsOnRuneBoundary(t *testing.T) {
	mock := provider.NewMockProvider(&provider.Answer{Text: "summary"})
	s := newSummarizer(t, SummarizerConfig{Threshold: 2, KeepRecent: 1}, mock)

	call := message.ToolCall{ID: "c1", Name: "fetch_page", Args: nil}
	// 100 three-byte runes: the byte limit of 200 falls mid-rune.
	long := strings.Repeat("日", 100)
	bag := message.NewBag(
		message.AssistantToolCalls("", call),
		message.ToolResult(call, long),
		message.Assistant("done"),
	)

	_, err := s.Compress(context.Background(), bag)
	require.NoError(t, err)

	sent := mock.Bags[0].LatestUserText()
	require.True(t, utf8.ValidString(sent), "transcript must stay valid UTF-8")
	assert.Contains(t, sent, "Tool: [fetch_page] "+strings.Repeat("日", 66)+"...")
	assert.NotContains(t, sent, strings.Repeat("日", 67))
}

func TestSummarizerNoopWhenNothingOld(t *testing.T) {
	mock := provider.NewMockProvider()
	s := newSummarizer(t, SummarizerConfig{Threshold: 5, KeepRecent: 3}, mock)

	bag := message.NewBag(
		message.System("sys"),
		message.User("A"),
		message.Assistant("B"),
		message.User("C"),
	)

	compressed, err := s.Compress(context.Background(), bag)
	require.NoError(t, err)
	assert.Equal(t, bag.Messages(), compressed.Messages())
	assert.Equal(t, 0, mock.Invocations(), "model must not be invoked when nothing is old")
}

func TestSummarizerNoopOnEmptyTranscript(t *testing.T) {
	mock := provider.NewMockProvider()
	s := newSummarizer(t, SummarizerConfig{Threshold: 2, KeepRecent: 1}, mock)

	// Old messages carry no text: a bare tool-call turn and an empty
	// assistant message.
	call := message.ToolCall{ID: "c1", Name: "noop", Args: nil}
	bag := message.NewBag(
		message.AssistantToolCalls("", call),
		message.Assistant(""),
		message.User("latest"),
	)

	compressed, err := s.Compress(context.Background(), bag)
	require.NoError(t, err)
	assert.Equal(t, bag.Messages(), compressed.Messages())
	assert.Equal(t, 0, mock.Invocations(), "model must never see an empty transcript")
}

func TestSummarizerReplacesPreviousSummarySection(t *testing.T) {
	mock := provider.NewMockProvider(&provider.Answer{Text: "second summary"})
	s := newSummarizer(t, SummarizerConfig{Threshold: 2, KeepRecent: 1}, mock)

	bag := message.NewBag(
		message.System("base instructions\n\n## Conversation summary\n\nfirst summary"),
		message.User("old turn"),
		message.Assistant("old reply"),
		message.User("newest"),
	)

	compressed, err := s.Compress(context.Background(), bag)
	require.NoError(t, err)

	sys, ok := compressed.SystemMessage()
	require.True(t, ok)
	assert.Contains(t, sys.Text(), "base instructions")
	assert.Contains(t, sys.Text(), "second summary")
	assert.NotContains(t, sys.Text(), "first summary")
	assert.Equal(t, 1, strings.Count(sys.Text(), "## Conversation summary"))
}

func TestSummarizerKeepRecentBoundHolds(t *testing.T) {
	mock := provider.NewMockProvider(&provider.Answer{Text: "s"})
	s := newSummarizer(t, SummarizerConfig{Threshold: 4, KeepRecent: 3}, mock)

	bag := message.NewBag(message.System("sys"))
	for i := 0; i < 10; i++ {
		bag = bag.Append(message.User("u"), message.Assistant("a"))
	}

	compressed, err := s.Compress(context.Background(), bag)
	require.NoError(t, err)
	assert.LessOrEqual(t, compressed.NonSystemCount(), 3)
	assert.Equal(t, message.RoleSystem, compressed.At(0).Role)
}

func TestSummarizerConfigValidate(t *testing.T) {
	assert.Error(t, (&SummarizerConfig{Threshold: 5, KeepRecent: 0}).Validate())
	assert.Error(t, (&SummarizerConfig{Threshold: 1, KeepRecent: 2}).Validate())
	assert.NoError(t, (&SummarizerConfig{Threshold: 5, KeepRecent: 2}).Validate())
}
