package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/agentd/internal/message"
)

type scriptedHandler struct {
	result ConfirmationResult
	err    error
	calls  int
}

func (h *scriptedHandler) RequestConfirmation(_ context.Context, _ message.ToolCall) (ConfirmationResult, error) {
	h.calls++
	return h.result, h.err
}

func TestNewGateRequiresPolicy(t *testing.T) {
	_, err := NewGate(nil, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestAuthorizePolicyDeny(t *testing.T) {
	handler := &scriptedHandler{result: ConfirmOnce()}
	gate, err := NewGate(New(Config{Deny: []string{"rm_rf"}}), handler, zap.NewNop())
	require.NoError(t, err)

	v, err := gate.Authorize(context.Background(), message.NewToolCall("rm_rf", nil))
	require.NoError(t, err)
	assert.False(t, v.Allowed)
	assert.Equal(t, ReasonDeniedByPolicy, v.Reason)
	assert.Zero(t, handler.calls, "handler must not be consulted on explicit deny")
}

func TestAuthorizePolicyAllowSkipsHandler(t *testing.T) {
	handler := &scriptedHandler{result: DenyOnce()}
	gate, err := NewGate(New(Config{}), handler, zap.NewNop())
	require.NoError(t, err)

	v, err := gate.Authorize(context.Background(), message.NewToolCall("read_file", nil))
	require.NoError(t, err)
	assert.True(t, v.Allowed)
	assert.Zero(t, handler.calls)
}

func TestAuthorizeAskUser(t *testing.T) {
	tests := []struct {
		name        string
		result      ConfirmationResult
		wantAllowed bool
	}{
		{name: "confirmed once", result: ConfirmOnce(), wantAllowed: true},
		{name: "denied once", result: DenyOnce(), wantAllowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &scriptedHandler{result: tt.result}
			gate, err := NewGate(New(Config{}), handler, zap.NewNop())
			require.NoError(t, err)

			v, err := gate.Authorize(context.Background(), message.NewToolCall("delete_file", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantAllowed, v.Allowed)
			assert.Equal(t, 1, handler.calls)
			if !tt.wantAllowed {
				assert.Equal(t, ReasonDeniedByUser, v.Reason)
			}
		})
	}
}

func TestAuthorizeRemembersAlways(t *testing.T) {
	handler := &scriptedHandler{result: ConfirmAlways()}
	p := New(Config{})
	gate, err := NewGate(p, handler, zap.NewNop())
	require.NoError(t, err)

	v, err := gate.Authorize(context.Background(), message.NewToolCall("delete_file", nil))
	require.NoError(t, err)
	assert.True(t, v.Allowed)
	assert.Equal(t, 1, handler.calls)

	// The second call must skip the handler entirely.
	v, err = gate.Authorize(context.Background(), message.NewToolCall("delete_file", nil))
	require.NoError(t, err)
	assert.True(t, v.Allowed)
	assert.Equal(t, 1, handler.calls)
}

func TestAuthorizeRemembersNever(t *testing.T) {
	handler := &scriptedHandler{result: DenyNever()}
	p := New(Config{})
	gate, err := NewGate(p, handler, zap.NewNop())
	require.NoError(t, err)

	v, err := gate.Authorize(context.Background(), message.NewToolCall("delete_file", nil))
	require.NoError(t, err)
	assert.False(t, v.Allowed)
	assert.Equal(t, ReasonDeniedByUser, v.Reason)

	v, err = gate.Authorize(context.Background(), message.NewToolCall("delete_file", nil))
	require.NoError(t, err)
	assert.False(t, v.Allowed)
	assert.Equal(t, ReasonDeniedByPolicy, v.Reason, "remembered denial resolves as a policy deny")
	assert.Equal(t, 1, handler.calls)
}

func TestAuthorizeNilHandlerDenies(t *testing.T) {
	gate, err := NewGate(New(Config{}), nil, zap.NewNop())
	require.NoError(t, err)

	v, err := gate.Authorize(context.Background(), message.NewToolCall("delete_file", nil))
	require.NoError(t, err)
	assert.False(t, v.Allowed)
	assert.Equal(t, ReasonDeniedByUser, v.Reason)
}

func TestAuthorizeHandlerError(t *testing.T) {
	handler := &scriptedHandler{err: errors.New("terminal closed")}
	gate, err := NewGate(New(Config{}), handler, zap.NewNop())
	require.NoError(t, err)

	_, err = gate.Authorize(context.Background(), message.NewToolCall("delete_file", nil))
	assert.ErrorContains(t, err, "delete_file")
}
