// Package errors provides coded errors for genregraph.
//
// Every failure that crosses a package boundary towards the CLI or the HTTP
// API carries a [Code]. A code belongs to one [Kind], which is what callers
// switch on: the server maps kinds to status codes and the CLI to messages.
//
//	err := errors.New(errors.ErrCodeInvalidAlgorithm, "unknown layout %q", name)
//	if errors.KindOf(err) == errors.KindInvalid {
//		// reject the request
//	}
//
//	err = errors.Wrap(errors.ErrCodeStorage, cause, "save snapshot %s", cat)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidAlgorithm Code = "INVALID_ALGORITHM"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidGenre     Code = "INVALID_GENRE"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"
	ErrCodeSnapshotNotFound Code = "SNAPSHOT_NOT_FOUND"
	ErrCodeNodeNotFound     Code = "NODE_NOT_FOUND"

	ErrCodeStorage Code = "STORAGE_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Kind groups codes by who is at fault.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalid
	KindNotFound
	KindBackend
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not found"
	case KindBackend:
		return "backend"
	case KindUnsupported:
		return "unsupported"
	}
	return "internal"
}

// Kind classifies c by its naming convention: INVALID_* codes are caller
// mistakes and *NOT_FOUND codes are missing resources.
func (c Code) Kind() Kind {
	switch {
	case strings.HasPrefix(string(c), "INVALID_"):
		return KindInvalid
	case strings.HasSuffix(string(c), "NOT_FOUND"):
		return KindNotFound
	case c == ErrCodeStorage || c == ErrCodeTimeout:
		return KindBackend
	case c == ErrCodeUnsupported:
		return KindUnsupported
	}
	return KindInternal
}

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

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// KindOf classifies err. Uncoded errors are internal.
func KindOf(err error) Kind {
	return GetCode(err).Kind()
}

// UserMessage is the message of the outermost *Error without its code, or
// err.Error() for uncoded errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
