package errcodes

import (
	"fmt"
	"net/http"
)

// Error is the HTTP-facing error type. Errors carries the per-field message
// lists for validation failures and is nil for every other kind.
type Error struct {
	HTTPCode int
	Message  string
	Code     string
	Errors   map[string][]string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	te.Errors = err.Errors
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		HTTPCode: http.StatusNotFound,
		Message:  resource + " not found.",
		Code:     "not_found",
	}
}

// Unauthenticated returns a 401 error.
func Unauthenticated() error {
	return &Error{
		HTTPCode: http.StatusUnauthorized,
		Message:  "Unauthenticated.",
		Code:     "unauthenticated",
	}
}

// InvalidCredentials returns a 422 error with a deliberately generic message
// so unknown emails and wrong passwords are indistinguishable.
func InvalidCredentials() error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  "Invalid credentials.",
		Code:     "invalid_credentials",
	}
}

// ValidationFailed returns a 422 error carrying one message list per
// offending field. The top-level message is the first message of the first
// listed field so callers always have something readable.
func ValidationFailed(first string, fields map[string][]string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  first,
		Code:     "validation_failed",
		Errors:   fields,
	}
}

func ValidationError(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "validation_error",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  msg,
		Code:     "validation_type_error",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		HTTPCode: http.StatusUnprocessableEntity,
		Message:  fmt.Sprintf("Unknown Parameter %q", param),
		Code:     "unknown_parameter",
	}
}

func UnsupportedMediaType() error {
	return &Error{
		HTTPCode: http.StatusUnsupportedMediaType,
		Message:  "Unsupported Media Type",
		Code:     "unsupported_media_type",
	}
}

func MalformedPayload() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Malformed Payload",
		Code:     "malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Request body can't be empty.",
		Code:     "empty_request_body",
	}
}
