// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errs defines the tagged failure kinds surfaced by the chemreac
// engine (core §7) on top of gosl/chk's error-formatting idiom.
package errs

import "github.com/cpmech/gosl/chk"

// Kind tags the category of a failure so callers can switch on it instead
// of parsing messages.
type Kind int

// recognized failure kinds (spec §4.7 / §7)
const (
	InvalidGrid Kind = iota
	InvalidStencil
	InvalidGeometry
	ShapeMismatch
	UnknownOption
	ChargeImbalance
	NumericOverflow
)

func (k Kind) String() string {
	switch k {
	case InvalidGrid:
		return "InvalidGrid"
	case InvalidStencil:
		return "InvalidStencil"
	case InvalidGeometry:
		return "InvalidGeometry"
	case ShapeMismatch:
		return "ShapeMismatch"
	case UnknownOption:
		return "UnknownOption"
	case ChargeImbalance:
		return "ChargeImbalance"
	case NumericOverflow:
		return "NumericOverflow"
	}
	return "Unknown"
}

// Error is a tagged failure value. chk.Err builds the message text the same
// way the teacher builds every other error in this codebase; Kind is the
// thin addition gosl/chk has no concept of.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.Msg }

// New builds a tagged error with a printf-style message, routed through
// chk.Err so the formatting/verbosity behaviour matches the rest of the
// codebase.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: chk.Err(format, args...).Error()}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
