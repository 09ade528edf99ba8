// Package apierr defines the error taxonomy shared by the domain core and the
// HTTP layer. Every failing core operation returns exactly one *Error; the
// HTTP layer maps its Code to a status and the JSON envelope.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeInvalidCredential Code = "INVALID_CREDENTIALS"
	CodeForbidden         Code = "FORBIDDEN"
	CodeSelfRoleChange    Code = "SELF_ROLE_CHANGE"
	CodeNotFound          Code = "NOT_FOUND"
	CodeUsernameExists    Code = "USERNAME_EXISTS"
	CodeInternal          Code = "INTERNAL_ERROR"
)

type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure (store errors, codec errors). The
// client-facing message is fixed so internals never leak.
func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Message: "Internal server error", cause: cause}
}

// CodeOf extracts the taxonomy code from err, defaulting to INTERNAL_ERROR
// for untagged errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

// HTTPStatus maps a code to its wire status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeSelfRoleChange, CodeUsernameExists:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidCredential:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
