package compression

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

func TestServiceSkipsBelowThreshold(t *testing.T) {
	window, err := NewSlidingWindow(WindowConfig{Threshold: 10, Max: 5})
	require.NoError(t, err)
	svc, err := NewService(window, nil)
	require.NoError(t, err)

	bag := message.NewBag(message.System("sys"), message.User("only one"))
	out, err := svc.Maybe(context.Background(), bag)
	require.NoError(t, err)
	assert.Equal(t, bag.Messages(), out.Messages())
}

func TestServiceCompressesAboveThreshold(t *testing.T) {
	window, err := NewSlidingWindow(WindowConfig{Threshold: 2, Max: 2})
	require.NoError(t, err)
	svc, err := NewService(window, nil)
	require.NoError(t, err)

	bag := message.NewBag(
		message.System("sys"),
		message.User("A"),
		message.Assistant("B"),
		message.User("C"),
	)
	out, err := svc.Maybe(context.Background(), bag)
	require.NoError(t, err)
	assert.Equal(t, 2, out.NonSystemCount())

	sys, ok := out.SystemMessage()
	require.True(t, ok)
	assert.Equal(t, "sys", sys.Text())
}

func TestServiceRequiresStrategy(t *testing.T) {
	_, err := NewService(nil, nil)
	assert.Error(t, err)
}
