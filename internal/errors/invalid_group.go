package errors

import "net/http"

var ErrInvalidGroup = &Exception{
	Message:    "Invalid group",
	StatusCode: http.StatusBadRequest,
}
