// Package apierror defines the single error type returned by every Rosette
// client operation, for local validation failures and remote errors alike.
package apierror

import (
	"errors"
	"fmt"
	"strconv"
)

// Status values produced by the client itself. Remote failures carry the
// code reported by the server instead (for example "incompatibleClientVersion").
const (
	// BadKey is returned when a parameter set is read or written with an
	// unrecognized key.
	BadKey = "badKey"
	// BadArgument signals a violated mutual-exclusion or joint requirement
	// between parameter fields (content vs. contentUri).
	BadArgument = "badArgument"
	// MissingParameter signals a required parameter that was never set.
	MissingParameter = "missingParameter"
	// BadHeader signals a custom header whose name lacks the X-RosetteAPI- prefix.
	BadHeader = "badHeader"
	// Incompatible signals input of the wrong shape for an endpoint.
	Incompatible = "incompatible"
	// IncompatibleVersion signals that the server rejected this binding version.
	IncompatibleVersion = "incompatibleVersion"
	// UnknownError is used when a failure carries no server-supplied code.
	UnknownError = "unknownError"
	// ConnectionError signals that the server could not be reached at all.
	ConnectionError = "connectionError"
)

// Sentinels for use with errors.Is. Matching compares Status only.
var (
	ErrBadKey              = &Error{Status: BadKey}
	ErrBadArgument         = &Error{Status: BadArgument}
	ErrMissingParameter    = &Error{Status: MissingParameter}
	ErrBadHeader           = &Error{Status: BadHeader}
	ErrIncompatible        = &Error{Status: Incompatible}
	ErrIncompatibleVersion = &Error{Status: IncompatibleVersion}
	ErrUnknown             = &Error{Status: UnknownError}
	ErrConnection          = &Error{Status: ConnectionError}
)

// Error is the failure type of the client.
type Error struct {
	// Status is a taxonomy kind (see the constants above) or a code
	// returned by the server.
	Status string
	// HTTPStatus is the HTTP status of the response that produced the error;
	// zero for failures detected locally.
	HTTPStatus int
	// Message is the human readable description.
	Message string
	// Context identifies what failed: an endpoint path, a parameter key,
	// a header name.
	Context string
	// Cause is the underlying error, if any.
	Cause error
}

// New returns an Error with the given status, message and context.
func New(status, message, context string) *Error {
	return &Error{Status: status, Message: message, Context: context}
}

// Newf is like New with a formatted message.
func Newf(status, context, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...), Context: context}
}

// Wrap returns an Error carrying cause.
func Wrap(status, message, context string, cause error) *Error {
	return &Error{Status: status, Message: message, Context: context, Cause: cause}
}

// Remote returns an Error for a non-success HTTP response.
func Remote(httpStatus int, code, message, context string) *Error {
	if code == "" {
		code = UnknownError
	}
	return &Error{Status: code, HTTPStatus: httpStatus, Message: message, Context: context}
}

func (e *Error) Error() string {
	status := e.Status
	if e.HTTPStatus != 0 {
		status += " (HTTP " + strconv.Itoa(e.HTTPStatus) + ")"
	}
	msg := status + ": " + e.Message
	if e.Context != "" {
		msg += ": " + e.Context
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Status.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Status == e.Status
}

// StatusOf returns the Status of err when it is (or wraps) an *Error, and
// an empty string otherwise.
func StatusOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return ""
}

// HTTPStatusOf returns the HTTP status carried by err, or zero.
func HTTPStatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus
	}
	return 0
}
