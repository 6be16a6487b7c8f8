package middlewarex

import (
	"net/http"
	"regexp"

	"github.com/rs/xid"

	"luckywheel/pkg/contextx"
)

const headerNameTraceID = "X-Trace-Id"

var traceIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`) //nolint:gochecknoglobals

// TraceID keeps a well-formed X-Trace-Id from the client or generates one.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(headerNameTraceID)

		if !traceIDPattern.MatchString(traceID) {
			traceID = xid.New().String()
		}

		ctx := contextx.WithTraceID(r.Context(), contextx.TraceID(traceID))

		w.Header().Set(headerNameTraceID, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
