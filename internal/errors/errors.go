// Package errors provides stable error codes for the failure modes of the
// alias engine.
package errors

import "fmt"

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// CyclicHierarchy indicates a term's parent chain revisits a term.
	// The hierarchy is expected to be a forest; this is a fatal
	// configuration error, never handled silently.
	CyclicHierarchy ErrorCode = "CYCLIC_HIERARCHY"
	// AliasSaveFailed indicates the store rejected an alias write
	AliasSaveFailed ErrorCode = "ALIAS_SAVE_FAILED"
	// EntityNotFound indicates a term or node id did not resolve
	EntityNotFound ErrorCode = "ENTITY_NOT_FOUND"
	// JobNotFound indicates an unknown batch job id
	JobNotFound ErrorCode = "JOB_NOT_FOUND"
	// JobNotResumable indicates the job is not in a resumable state
	JobNotResumable ErrorCode = "JOB_NOT_RESUMABLE"
	// ConfigInvalid indicates a malformed settings file
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// Error is a coded error with an optional underlying cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a coded error.
func New(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Newf creates a coded error with a formatted message and no cause.
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HasCode reports whether err or anything it wraps carries the given code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if ce, ok := err.(*Error); ok {
			return ce.Code == code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
