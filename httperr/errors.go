// httperr/errors.go
package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// DefaultMessage is used when an error carries no message of its own.
const DefaultMessage = "Internal Server Error"

// Error is an error that may carry an HTTP status and a client-facing message.
// A zero Status or an empty Message means "not provided"; the terminal handler
// substitutes 500 and DefaultMessage respectively.
type Error struct {
	// Status is the HTTP status code, or 0 if unset.
	Status int

	// Message is the client-facing message, or "" if unset.
	Message string

	// Err is the underlying error (never sent to clients directly).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return ""
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the carried status, or 0 if none.
func (e *Error) StatusCode() int {
	return e.Status
}

// New creates an Error with an explicit status and message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Msg creates an Error that carries a message but no status.
func Msg(message string) *Error {
	return &Error{Message: message}
}

// Wrap creates an Error around err. status and message may be left zero.
func Wrap(err error, status int, message string) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

// StatusCoder is implemented by errors that know their HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// Resolve extracts the status and message the terminal handler reports for err.
// The status comes from the first StatusCoder in the chain with a non-zero code,
// else 500. The message is the *Error message if set, else err.Error(), else
// DefaultMessage.
func Resolve(err error) (status int, message string) {
	status = http.StatusInternalServerError
	message = DefaultMessage
	if err == nil {
		return status, message
	}

	var sc StatusCoder
	if errors.As(err, &sc) && sc.StatusCode() != 0 {
		status = sc.StatusCode()
	}
	if status < 100 || status > 599 {
		status = http.StatusInternalServerError
	}

	var e *Error
	switch {
	case errors.As(err, &e) && e.Message != "":
		message = e.Message
	case err.Error() != "":
		message = err.Error()
	}
	return status, message
}

// Convenience constructors for statuses route handlers commonly raise.

// BadRequest creates a 400 error.
func BadRequest(message string) *Error { return New(http.StatusBadRequest, message) }

// Unauthorized creates a 401 error.
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }

// Forbidden creates a 403 error.
func Forbidden(message string) *Error { return New(http.StatusForbidden, message) }

// NotFound creates a 404 error.
func NotFound(message string) *Error { return New(http.StatusNotFound, message) }

// ServiceUnavailable creates a 503 error.
func ServiceUnavailable(message string) *Error {
	return New(http.StatusServiceUnavailable, message)
}
