package errors

import "net/http"

var ErrGroupNotFound = &Exception{
	Message:    "Group not found",
	StatusCode: http.StatusNotFound,
}
