package constants

import "net/http"

// CodedError is an error that knows which HTTP status it maps to.
type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound     = NewCodedError("not found", http.StatusNotFound)
	ErrDoctorNotFound = NewCodedError("doctor not found", http.StatusNotFound)
	ErrInvalidInput   = NewCodedError("invalid input", http.StatusBadRequest)
	ErrUnauthorized   = NewCodedError("unauthorized", http.StatusUnauthorized)
	ErrForbidden      = NewCodedError("forbidden", http.StatusForbidden)
	ErrInvalidToken   = NewCodedError("invalid auth token", http.StatusUnauthorized)
)
