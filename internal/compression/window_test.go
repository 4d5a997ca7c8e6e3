package compression

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

func TestSlidingWindowKeepsMostRecent(t *testing.T) {
	window, err := NewSlidingWindow(WindowConfig{Threshold: 3, Max: 2})
	require.NoError(t, err)

	bag := message.NewBag(
		message.System("sys"),
		message.User("A"),
		message.Assistant("B"),
		message.User("C"),
		message.Assistant("D"),
	)
	require.True(t, window.ShouldCompress(bag))

	compressed, err := window.Compress(context.Background(), bag)
	require.NoError(t, err)

	msgs := compressed.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, message.RoleSystem, msgs[0].Role)
	assert.Equal(t, "C", msgs[1].Text())
	assert.Equal(t, "D", msgs[2].Text())
}

func TestSlidingWindowWithoutSystemMessage(t *testing.T) {
	window, err := NewSlidingWindow(WindowConfig{Threshold: 2, Max: 2})
	require.NoError(t, err)

	bag := message.NewBag(
		message.User("A"),
		message.Assistant("B"),
		message.User("C"),
	)
	compressed, err := window.Compress(context.Background(), bag)
	require.NoError(t, err)

	msgs := compressed.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "B", msgs[0].Text())
	assert.Equal(t, "C", msgs[1].Text())
}

func TestSlidingWindowBelowThreshold(t *testing.T) {
	window, err := NewSlidingWindow(WindowConfig{Threshold: 5, Max: 3})
	require.NoError(t, err)

	bag := message.NewBag(message.System("sys"), message.User("A"))
	assert.False(t, window.ShouldCompress(bag))
}

func TestSlidingWindowBoundNeverExceeded(t *testing.T) {
	window, err := NewSlidingWindow(WindowConfig{Threshold: 4, Max: 4})
	require.NoError(t, err)

	bag := message.NewBag(message.System("sys"))
	for i := 0; i < 20; i++ {
		bag = bag.Append(message.User("turn"), message.Assistant("reply"))
	}

	compressed, err := window.Compress(context.Background(), bag)
	require.NoError(t, err)
	assert.LessOrEqual(t, compressed.NonSystemCount(), 4)

	sys, ok := compressed.SystemMessage()
	require.True(t, ok)
	assert.Equal(t, "sys", sys.Text())
	assert.Equal(t, message.RoleSystem, compressed.At(0).Role)
}

func TestWindowConfigValidate(t *testing.T) {
	assert.Error(t, (&WindowConfig{Threshold: 5, Max: 0}).Validate())
	assert.Error(t, (&WindowConfig{Threshold: 1, Max: 2}).Validate())
	assert.NoError(t, (&WindowConfig{Threshold: 2, Max: 2}).Validate())
}
