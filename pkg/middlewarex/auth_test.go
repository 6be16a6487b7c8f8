package middlewarex_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"luckywheel/pkg/contextx"
	"luckywheel/pkg/middlewarex"
)

var testSecret = []byte("test-secret") //nolint:gochecknoglobals

func signToken(t *testing.T, claims jwt.RegisteredClaims, method jwt.SigningMethod, key any) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func TestAuth(t *testing.T) {
	rq := require.New(t)

	valid := signToken(t, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}, jwt.SigningMethodHS256, testSecret)

	expired := signToken(t, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}, jwt.SigningMethodHS256, testSecret)

	foreign := signToken(t, jwt.RegisteredClaims{Subject: "user-42"}, jwt.SigningMethodHS256, []byte("other"))
	noSubject := signToken(t, jwt.RegisteredClaims{}, jwt.SigningMethodHS256, testSecret)

	testCases := []struct {
		name       string
		header     string
		statusCode int
	}{
		{name: "Valid token", header: "Bearer " + valid, statusCode: http.StatusOK},
		{name: "Missing header", header: "", statusCode: http.StatusUnauthorized},
		{name: "Wrong schema", header: "Basic abc", statusCode: http.StatusUnauthorized},
		{name: "Expired", header: "Bearer " + expired, statusCode: http.StatusUnauthorized},
		{name: "Foreign signature", header: "Bearer " + foreign, statusCode: http.StatusUnauthorized},
		{name: "No subject", header: "Bearer " + noSubject, statusCode: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var gotUserID contextx.UserID

			var gotToken contextx.BearerToken

			handler := middlewarex.Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = contextx.UserIDFromContext(r.Context())
				gotToken, _ = contextx.BearerTokenFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			rq.Equal(tc.statusCode, w.Code)

			if tc.statusCode == http.StatusOK {
				rq.Equal(contextx.UserID("user-42"), gotUserID)
				rq.Equal(contextx.BearerToken(valid), gotToken)
			}
		})
	}
}

func TestAuthWebsocketQueryToken(t *testing.T) {
	rq := require.New(t)

	token := signToken(t, jwt.RegisteredClaims{Subject: "user-7"}, jwt.SigningMethodHS256, testSecret)

	handler := middlewarex.Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := contextx.UserIDFromContext(r.Context())
		rq.NoError(err)
		rq.Equal(contextx.UserID("user-7"), userID)
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "/events?access_token="+token, http.NoBody)
	r.Header.Set("Upgrade", "websocket")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	rq.Equal(http.StatusOK, w.Code)

	// Without Upgrade the query token is ignored.
	r = httptest.NewRequest(http.MethodGet, "/events?access_token="+token, http.NoBody)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	rq.Equal(http.StatusUnauthorized, w.Code)
}

func TestAdminToken(t *testing.T) {
	rq := require.New(t)

	handler := middlewarex.AdminToken("s3cr3t")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for token, status := range map[string]int{
		"s3cr3t": http.StatusNoContent,
		"wrong":  http.StatusForbidden,
		"":       http.StatusForbidden,
	} {
		r := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
		r.Header.Set("X-Admin-Token", token)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		rq.Equal(status, w.Code, "token %q", token)
	}
}
