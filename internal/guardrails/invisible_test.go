package guardrails

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

// Fixtures spell the invisible code points as escapes so the source
// stays readable and legal Go (a raw byte order mark is only valid at
// the start of a file).

func TestInvisibleRuneScannerTriggersAboveThreshold(t *testing.T) {
	scanner, err := NewInvisibleRuneScanner(InvisibleConfig{MaxAllowed: 0})
	require.NoError(t, err)

	result, err := scanner.ValidateInput(context.Background(),
		bagWithUserText("hello\u200bworld"))
	require.NoError(t, err)
	assert.True(t, result.Triggered)
	assert.Contains(t, result.Reason, "1 invisible characters")
}

func TestInvisibleRuneScannerRespectsTolerance(t *testing.T) {
	scanner, err := NewInvisibleRuneScanner(InvisibleConfig{MaxAllowed: 2})
	require.NoError(t, err)

	// Zero-width joiner plus a byte order mark stay within tolerance.
	result, err := scanner.ValidateInput(context.Background(),
		bagWithUserText("a\u200db\ufeffc"))
	require.NoError(t, err)
	assert.False(t, result.Triggered, "two runes within tolerance of two")

	// A right-to-left override pushes the count past it.
	result, err = scanner.ValidateInput(context.Background(),
		bagWithUserText("a\u200db\ufeffc\u202ed"))
	require.NoError(t, err)
	assert.True(t, result.Triggered)
}

func TestInvisibleRuneScannerScoreMonotonic(t *testing.T) {
	scanner, err := NewInvisibleRuneScanner(InvisibleConfig{MaxAllowed: 0})
	require.NoError(t, err)

	prev := 0.0
	for count := 1; count <= 30; count++ {
		text := "x" + strings.Repeat("\u200b", count)
		result, err := scanner.ValidateInput(context.Background(), bagWithUserText(text))
		require.NoError(t, err)
		require.True(t, result.Triggered)
		assert.GreaterOrEqual(t, result.Score, prev, "score must not decrease at count %d", count)
		assert.LessOrEqual(t, result.Score, 1.0)
		prev = result.Score
	}
	// At the ceiling and beyond, the score saturates.
	assert.Equal(t, 1.0, prev)
}

func TestInvisibleRuneScannerCleanText(t *testing.T) {
	scanner, err := NewInvisibleRuneScanner(InvisibleConfig{})
	require.NoError(t, err)

	result, err := scanner.ValidateInput(context.Background(),
		bagWithUserText("plain ascii text with unicode: café, 日本語"))
	require.NoError(t, err)
	assert.False(t, result.Triggered)

	result, err = scanner.ValidateInput(context.Background(), message.NewBag())
	require.NoError(t, err)
	assert.False(t, result.Triggered)
}

func TestInvisibleConfigValidate(t *testing.T) {
	cfg := InvisibleConfig{MaxAllowed: -1}
	assert.Error(t, cfg.Validate())
	_, err := NewInvisibleRuneScanner(cfg)
	assert.Error(t, err)
}
