package errors

import (
	"errors"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func New(message string, statusCode int) error {
	return &ErrorWithStatusCode{Message: message, StatusCode: statusCode}
}

func BadRequest(message string) error {
	return New(message, http.StatusBadRequest)
}

func Unauthorized(message string) error {
	return New(message, http.StatusUnauthorized)
}

func Forbidden(message string) error {
	return New(message, http.StatusForbidden)
}

func NotFound(message string) error {
	return New(message, http.StatusNotFound)
}

func Conflict(message string) error {
	return New(message, http.StatusConflict)
}

func TooLarge(message string) error {
	return New(message, http.StatusRequestEntityTooLarge)
}

func TooEarly(message string) error {
	return New(message, http.StatusTooEarly)
}

// StatusCode returns the http status carried by err, 500 for anything else.
func StatusCode(err error) int {
	var e *ErrorWithStatusCode
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	var e *ErrorWithStatusCode
	return errors.As(err, &e) && e.StatusCode == http.StatusNotFound
}

// Is and As are re-exported so callers importing this package under the
// name "errors" don't need a second import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
