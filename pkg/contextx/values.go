package contextx

import (
	"context"
	"errors"
	"fmt"
)

var ErrNoValue = errors.New("no value in context")

// UserID is the subject of a verified access token. Coordinators are keyed by it.
type UserID string

func (u UserID) String() string {
	return string(u)
}

// TraceID correlates logs with the supportId of an error reply.
type TraceID string

func (t TraceID) String() string {
	return string(t)
}

// BearerToken is the caller's raw access token, forwarded to upstream APIs.
type BearerToken string

func (b BearerToken) String() string {
	return string(b)
}

type (
	contextKeyUserID      struct{}
	contextKeyTraceID     struct{}
	contextKeyBearerToken struct{}
)

func WithUserID(ctx context.Context, userID UserID) context.Context {
	return context.WithValue(ctx, contextKeyUserID{}, userID)
}

func UserIDFromContext(ctx context.Context) (UserID, error) {
	return valueFrom[UserID](ctx, contextKeyUserID{}, "user id")
}

func WithTraceID(ctx context.Context, traceID TraceID) context.Context {
	return context.WithValue(ctx, contextKeyTraceID{}, traceID)
}

func TraceIDFromContext(ctx context.Context) (TraceID, error) {
	return valueFrom[TraceID](ctx, contextKeyTraceID{}, "trace id")
}

func WithBearerToken(ctx context.Context, token BearerToken) context.Context {
	return context.WithValue(ctx, contextKeyBearerToken{}, token)
}

func BearerTokenFromContext(ctx context.Context) (BearerToken, error) {
	return valueFrom[BearerToken](ctx, contextKeyBearerToken{}, "bearer token")
}

func valueFrom[T any](ctx context.Context, key any, name string) (T, error) {
	value, ok := ctx.Value(key).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: %w", name, ErrNoValue)
	}

	return value, nil
}
