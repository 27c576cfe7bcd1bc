package apperror

import "fmt"

const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeBadGateway      = "BAD_GATEWAY"
	CodeInternalError   = "INTERNAL_ERROR"
)

// AppError is an error that knows how it should be rendered over HTTP.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func (e *AppError) Error() string {
	return e.Message
}

// Wrap keeps e as the classification of err, so errors.Is(result, e) holds
// and the cause stays in the message.
func (e *AppError) Wrap(err error) error {
	if err == nil {
		return e
	}
	return fmt.Errorf("%w: %v", e, err)
}
