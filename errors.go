package asch

import (
	"errors"
	"fmt"

	"github.com/go-asch/asch/internal/hal"
)

// ErrorKind re-exports hal.ErrorKind at the package boundary consumers
// actually import, keeping internal/hal's placement (chosen to avoid a
// root/internal/hal import cycle, since hal.System.Error references it)
// an implementation detail.
type ErrorKind = hal.ErrorKind

const (
	ErrKindInvalidParameters     = hal.InvalidParameters
	ErrKindInsufficientResources = hal.InsufficientResources
	ErrKindAccessNotPermitted    = hal.AccessNotPermitted
	ErrKindAssertionFailure      = hal.AssertionFailure
)

// Error is the structured error every latching failure path returns,
// alongside the single hal.System.Error callback invocation per latch
// (spec.md §7).
type Error struct {
	Op    string    // operation that failed, e.g. "Init", "CreateTask"
	Kind  ErrorKind // high-level category
	Msg   string    // human-readable detail
	Inner error     // wrapped cause, if any
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		return fmt.Sprintf("asch: %s: %s", e.Op, msg)
	}
	return fmt.Sprintf("asch: %s", msg)
}

// Unwrap supports errors.Is/errors.As against the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Inner
}

// Is supports errors.Is comparison by Kind alone, so callers can write
// errors.Is(err, asch.ErrKindInsufficientResources)-style checks via
// NewError(..., kind, "") sentinels, or more idiomatically use IsKind.
func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == te.Kind
}

// NewError creates a structured error for op/kind/msg.
func NewError(op string, kind ErrorKind, msg string) *Error {
	return &Error{Op: op, Kind: kind, Msg: msg}
}

// WrapError wraps inner with op context, preserving Kind if inner is
// already a *Error, defaulting to AssertionFailure otherwise (an
// unrecognized wrapped error is itself a debug-time invariant breach in
// this kernel, which has no I/O errors of its own to map).
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	if ae, ok := inner.(*Error); ok {
		return &Error{Op: op, Kind: ae.Kind, Msg: ae.Msg, Inner: ae.Inner}
	}
	return &Error{Op: op, Kind: ErrKindAssertionFailure, Msg: inner.Error(), Inner: inner}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind == kind
	}
	return false
}
