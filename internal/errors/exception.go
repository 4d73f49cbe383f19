package errors

import (
	"errors"
	"net/http"
)

// Exception is a client-visible failure: its message is safe to place in a
// response body and its status code drives the HTTP mapping. Anything that
// is not an Exception surfaces as a generic 500.
type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// Message returns the client-safe message for err, or the generic one for
// anything unclassified.
func Message(err error) string {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
