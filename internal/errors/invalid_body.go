package errors

import "net/http"

var ErrInvalidBody = &Exception{
	Message:    "Invalid request body",
	StatusCode: http.StatusBadRequest,
}
