package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type sessionCtxKey struct{}
type callCtxKey struct{}

// WithSessionID attaches a conversation session ID to the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, sessionID)
}

// SessionIDFromContext extracts the session ID, or "".
func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionCtxKey{}).(string); ok {
		return id
	}
	return ""
}

// WithCallID attaches an agent-call ID to the context.
func WithCallID(ctx context.Context, callID string) context.Context {
	return context.WithValue(ctx, callCtxKey{}, callID)
}

// CallIDFromContext extracts the call ID, or "".
func CallIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(callCtxKey{}).(string); ok {
		return id
	}
	return ""
}

// ContextFields extracts correlation data from context.
func ContextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 4)

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		sc := span.SpanContext()
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if sessionID := SessionIDFromContext(ctx); sessionID != "" {
		fields = append(fields, zap.String("session.id", sessionID))
	}
	if callID := CallIDFromContext(ctx); callID != "" {
		fields = append(fields, zap.String("call.id", callID))
	}
	return fields
}
