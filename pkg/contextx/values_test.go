package contextx_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"luckywheel/pkg/contextx"
)

func TestValues(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		missing func() (string, error)
		stored  func() (string, error)
		message string
		value   string
	}{
		{
			name: "User id",
			missing: func() (string, error) {
				v, err := contextx.UserIDFromContext(ctx)
				return v.String(), err
			},
			stored: func() (string, error) {
				v, err := contextx.UserIDFromContext(contextx.WithUserID(ctx, "user-42"))
				return v.String(), err
			},
			message: "user id: no value in context",
			value:   "user-42",
		},
		{
			name: "Trace id",
			missing: func() (string, error) {
				v, err := contextx.TraceIDFromContext(ctx)
				return v.String(), err
			},
			stored: func() (string, error) {
				v, err := contextx.TraceIDFromContext(contextx.WithTraceID(ctx, "d0c1tr4ce"))
				return v.String(), err
			},
			message: "trace id: no value in context",
			value:   "d0c1tr4ce",
		},
		{
			name: "Bearer token",
			missing: func() (string, error) {
				v, err := contextx.BearerTokenFromContext(ctx)
				return v.String(), err
			},
			stored: func() (string, error) {
				v, err := contextx.BearerTokenFromContext(contextx.WithBearerToken(ctx, "eyJhbGciOi"))
				return v.String(), err
			},
			message: "bearer token: no value in context",
			value:   "eyJhbGciOi",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			value, err := tc.missing()
			rq.Empty(value)
			rq.ErrorIs(err, contextx.ErrNoValue)
			rq.EqualError(err, tc.message)

			value, err = tc.stored()
			rq.NoError(err)
			rq.Equal(tc.value, value)
		})
	}
}

func TestLogger(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	logger, err := contextx.LoggerFromContext(ctx)
	rq.Nil(logger)
	rq.ErrorIs(err, contextx.ErrNoValue)
	rq.Same(slog.Default(), contextx.LoggerFromContextOrDefault(ctx))

	stored := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx = contextx.WithLogger(ctx, stored)

	logger, err = contextx.LoggerFromContext(ctx)
	rq.NoError(err)
	rq.Same(stored, logger)
	rq.Same(stored, contextx.LoggerFromContextOrDefault(ctx))
}
