package apperror

import (
	"errors"
	"net/http"
	"os"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func debugEnabled() bool {
	return os.Getenv("APP_DEBUG") == "true"
}

// ToHTTP converts any error into the shape handlers write out. Unclassified
// errors become a generic 500; the underlying message is only surfaced when
// APP_DEBUG is enabled.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		details := appErr.Details
		if appErr.HTTPStatus >= http.StatusInternalServerError && appErr.Err != nil && debugEnabled() {
			details = appErr.Err.Error()
		}
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		}
	}

	out := HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: ErrInternal.Message,
	}
	if debugEnabled() {
		out.Details = err.Error()
	}
	return out
}
