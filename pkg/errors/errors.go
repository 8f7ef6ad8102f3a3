// Package errors defines the coded errors shared by the provflow CLI and
// HTTP API.
//
// Every failure a user can act on carries a [Code]. The CLI prints the
// message, the API maps the code to a status with [HTTPStatus] and returns
// the code in the response body. Codes are grouped by prefix: INVALID_* for
// rejected input, *NOT_FOUND for missing files and diagrams, the rest for
// backends and internal faults.
//
//	err := errors.New(errors.ErrCodeInvalidPartition, "entity %q appears twice", id)
//	if errors.Is(err, errors.ErrCodeInvalidPartition) {
//	    ...
//	}
//
//	err = errors.Wrap(errors.ErrCodeInvalidDataset, cause, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidDataset   Code = "INVALID_DATASET"
	ErrCodeInvalidPartition Code = "INVALID_PARTITION"
	ErrCodeInvalidOrder     Code = "INVALID_ORDER"
	ErrCodeInvalidOrdering  Code = "INVALID_ORDERING"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeTooManyGroups    Code = "TOO_MANY_GROUPS"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeDiagramNotFound Code = "DIAGRAM_NOT_FOUND"

	// Backend errors
	ErrCodeUnavailable Code = "UNAVAILABLE"
	ErrCodeTimeout     Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause, kept reachable through errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// find returns the outermost *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := find(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without code or cause for coded errors
// and err.Error() otherwise.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error code to the HTTP status the API responds with.
// Unknown and empty codes map to 500.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidInput, ErrCodeInvalidDataset, ErrCodeInvalidPartition,
		ErrCodeInvalidOrder, ErrCodeInvalidOrdering, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeTooManyGroups:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound, ErrCodeFileNotFound, ErrCodeDiagramNotFound:
		return http.StatusNotFound
	case ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
