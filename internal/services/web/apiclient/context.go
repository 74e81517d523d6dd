package apiclient

import (
	"context"
	"strings"
)

type sessionKey struct{}

type requestIDKey struct{}

// WithSession attaches the caller's session token to ctx.
func WithSession(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionKey{}, strings.TrimSpace(token))
}

// SessionFromContext returns the session token attached by WithSession.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(sessionKey{}).(string)
	return token
}

// WithRequestID propagates an inbound correlation id to upstream calls.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDKey{}, strings.TrimSpace(requestID))
}

// RequestIDFromContext returns the id attached by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(requestIDKey{}).(string)
	return requestID
}
