package errcodes

import "errors"

type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

const (
	InternalServerError ErrorCode = "InternalServerError"
	TimeoutExceeded     ErrorCode = "TimeoutExceeded"
	Forbidden           ErrorCode = "Forbidden"
	ValidationError     ErrorCode = "ValidationError"
	Unauthorized        ErrorCode = "Unauthorized"
	AccessTokenExpired  ErrorCode = "AccessTokenExpired"
	AccessTokenInvalid  ErrorCode = "AccessTokenInvalid"
	NotFound            ErrorCode = "NotFound"
	ServiceUnavailable  ErrorCode = "ServiceUnavailable"

	// Колесо
	QuotaExhausted  ErrorCode = "QuotaExhausted"  // Спины закончились, ждём восстановления
	SpinInProgress  ErrorCode = "SpinInProgress"  // Уже крутится
	TransportError  ErrorCode = "TransportError"  // Сеть или HTTP статус
	InvalidResponse ErrorCode = "InvalidResponse" // Ответ без нужных полей или с неизвестным призом
	NoActiveSpin    ErrorCode = "NoActiveSpin"    // commit/release без reserve
	InvalidCatalog  ErrorCode = "InvalidCatalog"
)

type coder interface {
	ErrorCode() ErrorCode
}

type describer interface {
	Description() string
}

// Code returns the code of the first error in the chain that carries one.
func Code(err error) ErrorCode {
	var c coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}

	return ""
}

// Description returns a user-facing message if the chain carries one.
func Description(err error) string {
	var d describer
	if errors.As(err, &d) {
		return d.Description()
	}

	return ""
}
