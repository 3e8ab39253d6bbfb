package recall

import (
	"errors"
	"fmt"

	"github.com/nonibytes/recall/recall/ops"
)

type ErrorKind string

const (
	ErrIO       ErrorKind = "io"
	ErrSQL      ErrorKind = "sql"
	ErrNotFound ErrorKind = "not_found"
	ErrInvalid  ErrorKind = "invalid"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Field   string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Field != "" {
		base = fmt.Sprintf("%s (field=%s)", base, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Wrap(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func New(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func InvalidField(field, msg string) *Error {
	return &Error{Kind: ErrInvalid, Field: field, Message: msg}
}

func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// wrapOp classifies an ops error by its sentinel; anything else is a storage failure
func wrapOp(msg string, err error) *Error {
	switch {
	case errors.Is(err, ops.ErrNotFound):
		return Wrap(ErrNotFound, msg, err)
	case errors.Is(err, ops.ErrInvalid):
		return Wrap(ErrInvalid, msg, err)
	default:
		return Wrap(ErrSQL, msg, err)
	}
}
