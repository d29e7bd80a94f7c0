package spell

import (
	"errors"
	"fmt"

	"github.com/roach88/spell/internal/auth"
	"github.com/roach88/spell/internal/store"
)

// ErrorCode categorizes operation failures.
type ErrorCode string

const (
	// CodeForbidden indicates the caller may not perform the write.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// CodeNotFound indicates a required singleton is missing.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeStorage indicates the storage engine failed.
	CodeStorage ErrorCode = "STORAGE"

	// CodeMalformedInput indicates an argument could not be decoded.
	CodeMalformedInput ErrorCode = "MALFORMED_INPUT"

	// CodeAlreadySet indicates a write-once value was written before.
	CodeAlreadySet ErrorCode = "ALREADY_SET"
)

// Error is a categorized operation failure.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface. The message is what callers see in
// Result.Error, so it carries no code prefix.
func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError classifies err. Errors that are already *Error pass through.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	code := CodeStorage
	switch {
	case auth.IsForbidden(err):
		code = CodeForbidden
	case errors.Is(err, store.ErrRelayAlreadySet):
		code = CodeAlreadySet
	case errors.Is(err, store.ErrNoRelay),
		errors.Is(err, store.ErrNoTriggerConfig),
		errors.Is(err, store.ErrNoScript):
		code = CodeNotFound
	}
	return &Error{Code: code, Message: err.Error(), Err: err}
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsForbidden returns true if err is a FORBIDDEN failure or an auth rejection.
func IsForbidden(err error) bool {
	return hasCode(err, CodeForbidden) || auth.IsForbidden(err)
}

// IsNotFound returns true if err is a NOT_FOUND failure.
func IsNotFound(err error) bool { return hasCode(err, CodeNotFound) }

// IsAlreadySet returns true if err is an ALREADY_SET failure.
func IsAlreadySet(err error) bool { return hasCode(err, CodeAlreadySet) }

// IsMalformedInput returns true if err is a MALFORMED_INPUT failure.
func IsMalformedInput(err error) bool { return hasCode(err, CodeMalformedInput) }

func forbidden(format string, args ...any) *Error {
	return &Error{Code: CodeForbidden, Message: fmt.Sprintf(format, args...)}
}

func malformed(err error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &Error{Code: CodeMalformedInput, Message: msg, Err: err}
}
