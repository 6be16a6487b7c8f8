package middlewarex_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"luckywheel/pkg/contextx"
	"luckywheel/pkg/logx"
	"luckywheel/pkg/middlewarex"
)

func TestLoggingChain(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer

	base := slog.New(slog.NewJSONHandler(&buf, nil))
	masker := logx.NewSensitiveDataMasker()

	var traceID contextx.TraceID

	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID, _ = contextx.TraceIDFromContext(r.Context())

		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"spinId":"abc","token":"secret"}`))
	})

	handler = middlewarex.ResponseLogging(masker, 0)(handler)
	handler = middlewarex.RequestLogging(masker, 0)(handler)
	handler = middlewarex.Logger(handler)
	handler = middlewarex.TraceID(handler)
	handler = middlewarex.Recovery(handler)

	r := httptest.NewRequest(http.MethodPost, "/v1/wheel/spin", strings.NewReader(`{}`))
	r = r.WithContext(contextx.WithLogger(context.Background(), base))
	r.Header.Set("Authorization", "Bearer eyJ")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	rq.Equal(http.StatusAccepted, w.Code)
	rq.NotEmpty(traceID)
	rq.Equal(traceID.String(), w.Header().Get("X-Trace-Id"))

	logs := buf.String()
	rq.Contains(logs, traceID.String())
	rq.Contains(logs, `[MASKED]`)
	rq.NotContains(logs, "secret")
	rq.NotContains(logs, "Bearer eyJ")
}

func TestRecovery(t *testing.T) {
	rq := require.New(t)

	handler := middlewarex.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	rq.Equal(http.StatusInternalServerError, w.Code)
	rq.Contains(w.Body.String(), `"code":"InternalServerError"`)
}

func TestTraceID(t *testing.T) {
	cases := []struct {
		name     string
		incoming string
		kept     bool
	}{
		{name: "Generated"},
		{name: "Client id", incoming: "spin-ui-7f3a", kept: true},
		{name: "Too long", incoming: strings.Repeat("a", 65)},
		{name: "Bad chars", incoming: "a b/c"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			var traceID contextx.TraceID

			handler := middlewarex.TraceID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				traceID, _ = contextx.TraceIDFromContext(r.Context())
			}))

			r := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tc.incoming != "" {
				r.Header.Set("X-Trace-Id", tc.incoming)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			rq.NotEmpty(traceID)
			rq.Equal(traceID.String(), w.Header().Get("X-Trace-Id"))

			if tc.kept {
				rq.Equal(tc.incoming, traceID.String())
			} else {
				rq.NotEqual(tc.incoming, traceID.String())
			}
		})
	}
}
