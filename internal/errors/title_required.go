package errors

import "net/http"

var ErrTitleRequired = &Exception{
	Message:    "Title is required",
	StatusCode: http.StatusBadRequest,
}

var ErrTitleEmpty = &Exception{
	Message:    "Title cannot be empty",
	StatusCode: http.StatusBadRequest,
}
