package req

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"luckywheel/pkg/errcodes"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary         //nolint:gochecknoglobals // skip
	validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip
)

// InvalidRequestError is returned when a request body cannot be decoded or validated.
type InvalidRequestError struct {
	message     string
	description string
}

func (e InvalidRequestError) Error() string {
	return e.message
}

func (e InvalidRequestError) ErrorCode() errcodes.ErrorCode {
	return errcodes.ValidationError
}

func (e InvalidRequestError) Description() string {
	return e.description
}

// Read decodes a JSON body into dest and validates it. An empty body is
// accepted when dest has no required fields.
func Read(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		return InvalidRequestError{
			message:     fmt.Errorf("json.Decode: %w", err).Error(),
			description: "Invalid JSON",
		}
	}

	if err := validate.StructCtx(r.Context(), dest); err != nil {
		return InvalidRequestError{
			message:     "validation error",
			description: err.Error(),
		}
	}

	return nil
}
