package httpx

import (
	"context"
	"fmt"
	"net/http"
)

type tokenSource interface {
	BearerToken(context.Context) (string, error)
}

// TokenSourceFunc adapts a function to the token source used by AuthBearerRoundTripper.
type TokenSourceFunc func(context.Context) (string, error)

func (f TokenSourceFunc) BearerToken(ctx context.Context) (string, error) {
	return f(ctx)
}

// AuthBearerRoundTripper sets the Authorization header. It never replays a
// request: upstream calls may award prizes and are not idempotent.
type AuthBearerRoundTripper struct {
	next        http.RoundTripper
	tokenSource tokenSource
}

func NewAuthBearerRoundTripper(
	next http.RoundTripper,
	tokenSource tokenSource,
) AuthBearerRoundTripper {
	return AuthBearerRoundTripper{
		next:        next,
		tokenSource: tokenSource,
	}
}

func (rt AuthBearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := rt.tokenSource.BearerToken(req.Context())
	if err != nil {
		return nil, fmt.Errorf("tokenSource.BearerToken: %w", err)
	}

	// RoundTrip must not modify the caller's request.
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	return resp, nil
}
