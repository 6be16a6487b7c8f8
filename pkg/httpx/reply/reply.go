package reply

import (
	"cmp"
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"luckywheel/pkg/contextx"
	"luckywheel/pkg/errcodes"
	"luckywheel/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

//nolint:gochecknoglobals
var statusByCode = map[errcodes.ErrorCode]int{
	errcodes.ValidationError:    http.StatusBadRequest,
	errcodes.Unauthorized:       http.StatusUnauthorized,
	errcodes.AccessTokenExpired: http.StatusUnauthorized,
	errcodes.AccessTokenInvalid: http.StatusUnauthorized,
	errcodes.Forbidden:          http.StatusForbidden,
	errcodes.NotFound:           http.StatusNotFound,
	errcodes.SpinInProgress:     http.StatusConflict,
	errcodes.QuotaExhausted:     http.StatusTooManyRequests,
	errcodes.TransportError:     http.StatusBadGateway,
	errcodes.InvalidResponse:    http.StatusBadGateway,
	errcodes.TimeoutExceeded:    http.StatusGatewayTimeout,
	errcodes.ServiceUnavailable: http.StatusServiceUnavailable,
}

func OK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

func Created(w http.ResponseWriter) {
	w.WriteHeader(http.StatusCreated)
}

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

func Error(ctx context.Context, w http.ResponseWriter, err error) {
	code := cmp.Or(errcodes.Code(err), errcodes.InternalServerError)

	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	// 4xx are client-side rejections.
	if status >= http.StatusInternalServerError {
		logger(ctx).Error("error", logx.Error(err))
	} else {
		logger(ctx).Info("request rejected", logx.Error(err))
	}

	JSON(ctx, w, status, errorResponse{
		Code:      code.String(),
		Message:   errcodes.Description(err),
		SupportID: supportID(ctx),
	})
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}
