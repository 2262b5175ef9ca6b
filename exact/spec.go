// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

// Package exact synthesizes provably minimal Boolean chains with a SAT
// solver. A chain is a sequence of k-input gate steps over the target's
// variables, optional divisor functions and earlier steps; Synthesize finds
// a chain with the fewest steps realizing all targets of a specification,
// searching step counts bottom-up so the first satisfiable size is minimal.
//
// The encoding follows the single-selection-variable scheme: one selection
// variable per candidate fanin combination of each step, one operator bit
// per non-zero input pattern, and one simulation variable per step and truth
// row. Solving is delegated to the gini SAT solver.
package exact

import "github.com/db47h/lognet/tt"

// Status is the outcome of a synthesis call.
type Status int8

const (
	// StatusSuccess: a minimal chain was found.
	StatusSuccess Status = iota
	// StatusInfeasible: no chain exists within the specification's step cap;
	// every smaller size was proven unsatisfiable.
	StatusInfeasible
	// StatusTimeout: the conflict budget ran out before a verdict.
	StatusTimeout
	// StatusFailure: the specification itself was rejected.
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusInfeasible:
		return "infeasible"
	case StatusTimeout:
		return "timeout"
	default:
		return "failure"
	}
}

// SolverType selects the SAT backend.
type SolverType int

// SolverGini is the only backend currently built in.
const SolverGini SolverType = iota

// EncoderType selects the clause encoding.
type EncoderType int

// EncoderSSV is the single-selection-variable encoding.
const EncoderSSV EncoderType = iota

// SynthMethod selects the search strategy over step counts.
type SynthMethod int

// SynthStd searches step counts bottom-up from the initial-steps bound.
const SynthStd SynthMethod = iota

// Primitive restricts the operator set available to chain steps.
type Primitive int

const (
	// PrimNone allows every normalized nontrivial operator.
	PrimNone Primitive = iota
	// PrimAIG restricts two-input steps to AND gates with optional input and
	// output complementation, excluding XOR.
	PrimAIG
)

// Spec describes one synthesis request. The zero value is not a valid
// specification; use NewSpec.
type Spec struct {
	// Fanin is the gate arity of chain steps.
	Fanin int
	// Targets holds one or more functions of identical arity to realize.
	Targets []tt.TT
	// DontCares optionally holds one mask per target; a set bit marks an
	// input row whose output value is free. A nil entry or an all-zero mask
	// means the target is fully constrained.
	DontCares []tt.TT
	// Functions holds divisor functions offered as extra inputs. Each must
	// have the targets' arity.
	Functions []tt.TT

	// Primitive restricts the step operator set.
	Primitive Primitive

	// Clause-generation switches. Alonce forces every non-output step to
	// feed a later step; Colex orders consecutive independent steps by
	// their fanin combinations; Nontriv excludes constant and projection
	// operators. The remaining switches are accepted for configuration
	// compatibility but the SSV encoder derives no clauses from them.
	AddAlonceClauses    bool
	AddColexClauses     bool
	AddLexClauses       bool
	AddLexFuncClauses   bool
	AddNontrivClauses   bool
	AddNoreapplyClauses bool
	AddSymvarClauses    bool

	// ConflictLimit bounds the total solver effort of one Synthesize call,
	// in milliseconds of solver time; 0 means unbounded. Caching layers
	// treat the value as an opaque monotone budget.
	ConflictLimit int

	// InitialSteps is a lower bound on the step count; the search starts
	// there instead of at one step.
	InitialSteps int
	// MaxSteps caps the step count; when every size up to the cap is
	// unsatisfiable the request is reported infeasible. 0 means no cap.
	MaxSteps int
}

// NewSpec returns a specification for the given gate arity with the default
// clause switches enabled.
func NewSpec(fanin int) *Spec {
	return &Spec{
		Fanin:               fanin,
		AddAlonceClauses:    true,
		AddColexClauses:     true,
		AddLexFuncClauses:   true,
		AddNontrivClauses:   true,
		AddNoreapplyClauses: true,
		AddSymvarClauses:    true,
	}
}
