// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sedgen

import "github.com/cpmech/gosl/chk"

// Kind classifies the errors and warnings the engine can produce.
type Kind int

const (
	// InvalidInput is fatal and occurs at construction: modal
	// mineralogy not summing to 1, length mismatches, a non-positive
	// parent volume, or non-finite CSD parameters. Model.CheckProperties
	// also reports an interface-array crystal-count mismatch with it.
	InvalidInput Kind = iota

	// UnknownOperation is recoverable: an unrecognized operator name in a
	// weathering step list is reported and the operator is skipped.
	UnknownOperation

	// ChemStateExhaustion is a warning, not fatal: mcgs rolled past the
	// last chem-state index were folded back into the final state.
	ChemStateExhaustion
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case UnknownOperation:
		return "UnknownOperation"
	case ChemStateExhaustion:
		return "ChemStateExhaustion"
	default:
		return "Unknown"
	}
}

// Error wraps a chk-built message with its Kind so callers can distinguish
// fatal construction errors from recoverable, step-time warnings.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string { return e.err.Error() }
func (e *Error) Unwrap() error { return e.err }

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, err: chk.Err(format, args...)}
}
