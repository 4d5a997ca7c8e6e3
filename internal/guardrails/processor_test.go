package guardrails

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

// stubScanner triggers (or not) with a fixed result and records calls.
type stubScanner struct {
	name    string
	trigger bool
	called  bool
}

func (s *stubScanner) Name() string { return s.name }

func (s *stubScanner) ValidateInput(ctx context.Context, bag message.Bag) (Result, error) {
	s.called = true
	return s.result(), nil
}

func (s *stubScanner) ValidateOutput(ctx context.Context, answer string) (Result, error) {
	s.called = true
	return s.result(), nil
}

func (s *stubScanner) result() Result {
	return Result{
		Triggered: s.trigger,
		Scanner:   s.name,
		Score:     0.8,
		Reason:    "stub reason",
	}
}

func TestInputProcessorShortCircuits(t *testing.T) {
	first := &stubScanner{name: "first", trigger: true}
	second := &stubScanner{name: "second", trigger: true}
	proc := NewInputProcessor(nil, first, second)

	err := proc.Run(context.Background(), message.NewBag(message.User("hi")))
	require.Error(t, err)

	var blocked *BlockedError
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, StageInput, blocked.Stage)
	assert.Equal(t, "first", blocked.Result.Scanner)
	assert.True(t, first.called)
	assert.False(t, second.called, "second scanner must not run after first triggers")
}

func TestInputProcessorAllClean(t *testing.T) {
	first := &stubScanner{name: "first"}
	second := &stubScanner{name: "second"}
	proc := NewInputProcessor(nil, first, second)

	err := proc.Run(context.Background(), message.NewBag(message.User("hi")))
	require.NoError(t, err)
	assert.True(t, first.called)
	assert.True(t, second.called)
}

func TestOutputProcessorBlocksAnswer(t *testing.T) {
	proc := NewOutputProcessor(nil, &stubScanner{name: "out", trigger: true})

	err := proc.Run(context.Background(), "the answer")
	require.Error(t, err)

	var blocked *BlockedError
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, StageOutput, blocked.Stage)
	assert.Equal(t, 0.8, blocked.Result.Score)
	assert.Equal(t, "stub reason", blocked.Result.Reason)
}

func TestBlockedErrorMessage(t *testing.T) {
	err := &BlockedError{
		Stage: StageInput,
		Result: Result{
			Triggered: true,
			Scanner:   "prompt_injection",
			Score:     1.0,
			Reason:    "Instruction override attempt",
		},
	}
	assert.Contains(t, err.Error(), "prompt_injection")
	assert.Contains(t, err.Error(), "Instruction override attempt")
	assert.Contains(t, err.Error(), "input")
}
