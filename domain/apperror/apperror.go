package apperror

import (
	"errors"
	"net/http"
)

// Error is a client-facing failure with an HTTP-equivalent status. The
// Detail text is safe to return to the caller verbatim.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

func New(status int, detail string) *Error {
	return &Error{Status: status, Detail: detail}
}

func BadRequest(detail string) *Error {
	return New(http.StatusBadRequest, detail)
}

func NotFound(detail string) *Error {
	return New(http.StatusNotFound, detail)
}

func Timeout(detail string) *Error {
	return New(http.StatusRequestTimeout, detail)
}

// StatusOf maps any error to the HTTP status it should surface as.
// Non-apperror failures are treated as internal errors.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// DetailOf returns the client-facing detail text for an error. Internal
// errors are masked behind a generic message.
func DetailOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Detail
	}
	return "internal server error"
}
