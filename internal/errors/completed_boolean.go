package errors

import "net/http"

var ErrCompletedBoolean = &Exception{
	Message:    "completed must be a boolean",
	StatusCode: http.StatusBadRequest,
}
