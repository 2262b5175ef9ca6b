// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

// Package resyn implements exact resynthesis: replacing a sub-circuit's
// Boolean function with a provably minimal implementation obtained from a
// Boolean-synthesis oracle. The generic engine targets k-ary lookup-table
// networks; the specialized engine targets and-inverter networks and can
// reuse existing network signals as extra synthesis inputs.
//
// Oracle failures are expected and non-fatal: an engine then delivers no
// signal and the caller keeps the existing sub-circuit. Successes and
// failures of don't-care-free requests are memoized in caller-owned caches
// shared across engine instances.
package resyn

import (
	"github.com/db47h/lognet"
	"github.com/db47h/lognet/exact"
	"github.com/db47h/lognet/tt"
)

// An Oracle finds minimum-step chains for synthesis specifications. The
// built-in implementation delegates to package exact; tests substitute
// counting or canned oracles.
type Oracle interface {
	Synthesize(s *exact.Spec, solver exact.SolverType, enc exact.EncoderType,
		method exact.SynthMethod) (*exact.Chain, exact.Status)
}

// stdOracle is the gini-backed oracle.
type stdOracle struct{}

func (stdOracle) Synthesize(s *exact.Spec, solver exact.SolverType, enc exact.EncoderType,
	method exact.SynthMethod) (*exact.Chain, exact.Status) {
	return exact.Synthesize(s, solver, enc, method)
}

// Params configures a resynthesis engine. The zero value of the clause
// switches is not the default configuration; use DefaultParams and adjust.
type Params struct {
	// Cache and Blacklist are optional caller-owned memoization handles,
	// shared by reference across engines. Nil disables the respective cache.
	Cache     *Cache
	Blacklist *Blacklist

	// Clause-generation switches forwarded to the oracle.
	AddAlonceClauses    bool
	AddColexClauses     bool
	AddLexClauses       bool
	AddLexFuncClauses   bool
	AddNontrivClauses   bool
	AddNoreapplyClauses bool
	AddSymvarClauses    bool

	// ConflictLimit bounds the oracle's effort per request; 0 is unbounded.
	ConflictLimit int
	// MaxSteps caps the chain size the oracle may search; 0 is uncapped.
	MaxSteps int

	Solver  exact.SolverType
	Encoder exact.EncoderType
	Method  exact.SynthMethod

	// Oracle overrides the built-in synthesis backend when non-nil.
	Oracle Oracle

	// Debug enables the engine's post-synthesis self-check: freshly
	// synthesized chains are resimulated against the requested function,
	// and a mismatch panics instead of splicing a corrupted chain into the
	// network.
	Debug bool
}

// DefaultParams returns the default engine configuration.
func DefaultParams() Params {
	return Params{
		AddAlonceClauses:    true,
		AddColexClauses:     true,
		AddLexFuncClauses:   true,
		AddNontrivClauses:   true,
		AddNoreapplyClauses: true,
		AddSymvarClauses:    true,
	}
}

func (ps *Params) oracle() Oracle {
	if ps.Oracle != nil {
		return ps.Oracle
	}
	return stdOracle{}
}

func (ps *Params) newSpec(fanin int) *exact.Spec {
	return &exact.Spec{
		Fanin:               fanin,
		AddAlonceClauses:    ps.AddAlonceClauses,
		AddColexClauses:     ps.AddColexClauses,
		AddLexClauses:       ps.AddLexClauses,
		AddLexFuncClauses:   ps.AddLexFuncClauses,
		AddNontrivClauses:   ps.AddNontrivClauses,
		AddNoreapplyClauses: ps.AddNoreapplyClauses,
		AddSymvarClauses:    ps.AddSymvarClauses,
		ConflictLimit:       ps.ConflictLimit,
		MaxSteps:            ps.MaxSteps,
	}
}

// A NodeCreator hosts resynthesis results. It is the only network capability
// the generic engine needs.
type NodeCreator interface {
	CreateNode(fanins []lognet.Signal, fn tt.TT) (lognet.Signal, error)
}

// Engine is the generic k-ary resynthesis engine. Functions of up to the
// configured arity are wrapped directly as a single node; larger functions
// go through the oracle.
type Engine struct {
	fanin int
	ps    Params
}

// New returns an engine for gates of the given maximum arity. A nil ps
// selects DefaultParams. Reasonable arities are 3 and 4; beyond that the
// oracle's search space grows too fast to be useful.
func New(faninSize int, ps *Params) *Engine {
	e := &Engine{fanin: faninSize, ps: DefaultParams()}
	if ps != nil {
		e.ps = *ps
	}
	return e
}

// Run resynthesizes fn over the given leaf signals and returns the signal of
// the spliced implementation. The second result is false when the oracle
// found no chain; the host network is then left unchanged.
func (e *Engine) Run(ntk NodeCreator, fn tt.TT, leaves []lognet.Signal) (lognet.Signal, bool) {
	return e.RunDC(ntk, fn, tt.New(fn.NumVars()), leaves)
}

// RunDC is Run with a don't-care mask: set mask rows leave the implementation
// free to output either value. An all-zero mask means no don't-cares and
// keeps the request cacheable.
func (e *Engine) RunDC(ntk NodeCreator, fn, dontCares tt.TT, leaves []lognet.Signal) (lognet.Signal, bool) {
	if fn.NumVars() <= e.fanin {
		s, err := ntk.CreateNode(leaves, fn)
		return s, err == nil
	}

	withDC := !dontCares.IsConst0()
	chain, ok := e.lookupOrSynthesize(fn, dontCares, withDC)
	if !ok {
		return 0, false
	}

	signals := append([]lognet.Signal(nil), leaves...)
	for _, st := range chain.Steps {
		fanins := make([]lognet.Signal, len(st.Fanins))
		for i, ref := range st.Fanins {
			fanins[i] = signals[ref]
		}
		s, err := ntk.CreateNode(fanins, st.Op)
		if err != nil {
			return 0, false
		}
		signals = append(signals, s)
	}

	out := chain.Outputs[0]
	if out.Ref == exact.ConstRef {
		s, err := ntk.CreateNode(nil, tt.FromUint64(0, b2u(out.Inverted)))
		return s, err == nil
	}
	s := signals[out.Ref]
	if out.Inverted {
		// Leftover inversion on a shared or leaf output; express it as a
		// one-input inverter node.
		var err error
		s, err = ntk.CreateNode([]lognet.Signal{s}, tt.FromUint64(1, 0x1))
		if err != nil {
			return 0, false
		}
	}
	return s, true
}

func (e *Engine) lookupOrSynthesize(fn, dontCares tt.TT, withDC bool) (*exact.Chain, bool) {
	if !withDC && e.ps.Cache != nil {
		if chain, ok := e.ps.Cache.Lookup(fn); ok {
			return chain, true
		}
	}
	if !withDC && e.ps.Blacklist != nil && e.ps.Blacklist.Suppresses(fn, e.ps.ConflictLimit) {
		return nil, false
	}

	spec := e.ps.newSpec(e.fanin)
	spec.Targets = []tt.TT{fn}
	if withDC {
		spec.DontCares = []tt.TT{dontCares}
	}

	chain, status := e.ps.oracle().Synthesize(spec, e.ps.Solver, e.ps.Encoder, e.ps.Method)
	if status != exact.StatusSuccess {
		if !withDC && e.ps.Blacklist != nil {
			e.ps.Blacklist.Record(fn, status, e.ps.ConflictLimit)
		}
		return nil, false
	}
	chain.Denormalize()
	if !withDC && e.ps.Cache != nil {
		e.ps.Cache.Store(fn, chain)
	}
	return chain, true
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
