package errors

import "net/http"

var ErrNameRequired = &Exception{
	Message:    "Name is required",
	StatusCode: http.StatusBadRequest,
}

var ErrNameEmpty = &Exception{
	Message:    "Name cannot be empty",
	StatusCode: http.StatusBadRequest,
}
