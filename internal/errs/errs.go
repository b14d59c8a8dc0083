// Package errs defines the error-kind taxonomy used at service boundaries:
// config/init failures, not-found accounts, protocol aborts, network
// hiccups, an undeterminable recovery id, and serialisation failures.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind names one of the error categories a caller can match on with Is.
type Kind string

const (
	Config                   Kind = "Config"
	Init                     Kind = "Init"
	NotFound                 Kind = "NotFound"
	Protocol                 Kind = "Protocol"
	Network                  Kind = "Network"
	RecoveryIdUndeterminable Kind = "RecoveryIdUndeterminable"
	Serialisation            Kind = "Serialisation"
	InvalidArgument          Kind = "InvalidArgument"
)

// Error carries a Kind alongside the wrapped cause so that RPC handlers and
// CLI entrypoints can report a stable code without leaking internals.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err (which may be nil) under op with the given kind.
func New(kind Kind, op string, err error) *Error {
	if err != nil {
		err = errors.WithStack(err)
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err (or anything it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the Kind from err, or "" if err does not carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
