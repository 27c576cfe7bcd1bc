package apperror

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func ToHTTP(err error) *HTTPError {
	if err == nil {
		return &HTTPError{
			Status: http.StatusOK,
		}
	}

	var appErr *AppError
	// errors.As walks the %w chain, so wrapped AppErrors keep their status
	if errors.As(err, &appErr) {
		var details any
		if err.Error() != appErr.Message {
			details = err.Error()
		}
		return &HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		}
	}

	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "internal server error",
		Details: nil,
	}
}
