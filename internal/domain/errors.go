package domain

import (
	"errors"
	"fmt"

	"luckywheel/pkg/errcodes"
)

// AppError представляет доменную ошибку приложения.
type AppError struct {
	Code    errcodes.ErrorCode
	Message string
	cause   error
}

// Отказы до старта спина: состояние не меняется.
var (
	ErrQuotaExhausted = NewError(errcodes.QuotaExhausted, "spin quota exhausted")
	ErrSpinInProgress = NewError(errcodes.SpinInProgress, "spin already in progress")
)

// Сбои резолва: сессия прерывается, резерв снимается.
var (
	ErrTransport       = NewError(errcodes.TransportError, "prize endpoint unreachable")
	ErrInvalidResponse = NewError(errcodes.InvalidResponse, "prize endpoint returned invalid response")
)

var (
	ErrNoActiveSpin = NewError(errcodes.NoActiveSpin, "no active spin session")
	ErrShuttingDown = NewError(errcodes.ServiceUnavailable, "wheel is shutting down")
)

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap возвращает обёрнутую ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is сравнивает по коду, чтобы errors.Is(err, ErrTransport) работал для обёрток.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func (e *AppError) ErrorCode() errcodes.ErrorCode {
	return e.Code
}

func (e *AppError) Description() string {
	return e.Message
}

// NewError создаёт новую доменную ошибку.
func NewError(code errcodes.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError оборачивает существующую ошибку с доменным контекстом.
func WrapError(err error, code errcodes.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

// IsAppError проверяет, является ли ошибка доменной.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode извлекает код ошибки, если это AppError.
func GetCode(err error) (errcodes.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}
