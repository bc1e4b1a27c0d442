package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Wire codes, part of the public JSON error envelope.
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeNotFound      = "NOT_FOUND"
	CodeRateLimited   = "RATE_LIMITED"
	CodeInternalError = "INTERNAL_ERROR"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func BadRequest(msg string) *Error {
	return New(http.StatusBadRequest, CodeBadRequest, errors.New(msg))
}

func Unauthorized() *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, errors.New("Unauthorized"))
}

func NotFound() *Error {
	return New(http.StatusNotFound, CodeNotFound, errors.New("Entry not found"))
}

func RateLimited() *Error {
	return New(http.StatusTooManyRequests, CodeRateLimited, errors.New("Too Many Requests"))
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, CodeInternalError, err)
}
