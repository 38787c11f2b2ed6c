package config

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrIO            = errors.New("i/o failure")
	ErrPrecondition  = errors.New("precondition failed")
)

// Error describes a failed operation on the configuration tree.
type Error struct {
	Kind   error
	Entity string // "domain", "environment", "service", "portmapping", ...
	Key    string
	Msg    string
	Err    error // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func notFound(entity, key, format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Entity: entity, Key: key, Msg: fmt.Sprintf(format, args...)}
}

func alreadyExists(entity, key, format string, args ...any) error {
	return &Error{Kind: ErrAlreadyExists, Entity: entity, Key: key, Msg: fmt.Sprintf(format, args...)}
}

func invalidInput(entity, key, format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Entity: entity, Key: key, Msg: fmt.Sprintf(format, args...)}
}

// Precondition returns an ErrPrecondition error carrying a user-facing message.
func Precondition(entity, key, format string, args ...any) error {
	return &Error{Kind: ErrPrecondition, Entity: entity, Key: key, Msg: fmt.Sprintf(format, args...)}
}

// IOError wraps a filesystem or subprocess failure.
func IOError(entity, key string, err error, format string, args ...any) error {
	return &Error{Kind: ErrIO, Entity: entity, Key: key, Msg: fmt.Sprintf(format, args...), Err: err}
}
