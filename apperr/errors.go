// Package apperr carries a small error taxonomy shared by the store, the
// combat engine and the HTTP layer. Every error crossing a package boundary
// is either an *Error or gets wrapped into one.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error.
type Code string

const (
	CodeNotFound           Code = "not_found"
	CodeInvalidArgument    Code = "invalid_argument"
	CodeUnauthenticated    Code = "unauthenticated"
	CodeFailedPrecondition Code = "failed_precondition"
	CodeUnavailable        Code = "unavailable"
	CodeInternal           Code = "internal"
)

// Error is a structured error with a code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap keeps the code of an existing *Error and defaults to internal.
// A nil err yields a nil error.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	code := CodeInternal
	var existing *Error
	if errors.As(err, &existing) {
		code = existing.Code
	}
	return &Error{Code: code, Message: message, Cause: err}
}

func Wrapf(err error, format string, args ...any) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps err and forces code.
func WrapWithCode(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

func NotFound(message string) *Error { return New(CodeNotFound, message) }

func NotFoundf(format string, args ...any) *Error { return Newf(CodeNotFound, format, args...) }

func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }

func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

func Unauthenticated(message string) *Error { return New(CodeUnauthenticated, message) }

func FailedPrecondition(message string) *Error { return New(CodeFailedPrecondition, message) }

func Unavailable(message string) *Error { return New(CodeUnavailable, message) }

func Internal(message string) *Error { return New(CodeInternal, message) }

// CodeOf returns the code of the outermost *Error in err's chain, or
// internal when there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns the message of the outermost *Error, falling back to
// err.Error().
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func IsNotFound(err error) bool        { return err != nil && CodeOf(err) == CodeNotFound }
func IsInvalidArgument(err error) bool { return err != nil && CodeOf(err) == CodeInvalidArgument }
func IsUnavailable(err error) bool     { return err != nil && CodeOf(err) == CodeUnavailable }

// HTTPStatus maps err to the status code the REST layer answers with.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeFailedPrecondition:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
