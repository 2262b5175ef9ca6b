// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package resyn

import (
	"fmt"

	"github.com/db47h/lognet"
	"github.com/db47h/lognet/exact"
	"github.com/db47h/lognet/tt"
)

// An AndCreator hosts AIG resynthesis results: a network building two-input
// AND gates with complemented edges, with XOR as an optional structural
// convenience.
type AndCreator interface {
	Const0() lognet.Signal
	And(a, b lognet.Signal) lognet.Signal
	Xor(a, b lognet.Signal) lognet.Signal
}

type divisor struct {
	sig lognet.Signal
	fn  tt.TT
}

// AIGEngine is the resynthesis engine specialized to and-inverter networks:
// two-input steps restricted to AND gates with free edge polarities,
// optionally extended with XOR. Existing network signals registered through
// AddFunction are offered to the oracle as extra inputs and spliced by
// reference instead of being rebuilt.
type AIGEngine struct {
	allowXor     bool
	ps           Params
	divisors     []divisor
	lower, upper int
}

// NewAIG returns an AIG resynthesis engine. With allowXor the oracle may use
// XOR steps in addition to the AND family. A nil ps selects DefaultParams.
func NewAIG(allowXor bool, ps *Params) *AIGEngine {
	e := &AIGEngine{allowXor: allowXor, ps: DefaultParams(), lower: -1, upper: -1}
	if ps != nil {
		e.ps = *ps
	}
	return e
}

// AddFunction registers an existing signal and its function as a divisor for
// subsequent requests. A divisor whose arity differs from a request's target
// is shrunk to the target arity when possible and skipped for that request
// otherwise.
func (e *AIGEngine) AddFunction(s lognet.Signal, fn tt.TT) {
	e.divisors = append(e.divisors, divisor{sig: s, fn: fn})
}

// ClearFunctions drops all registered divisors.
func (e *AIGEngine) ClearFunctions() {
	e.divisors = e.divisors[:0]
}

// SetBounds hints the oracle search with a lower bound on the step count.
// The upper bound is accepted for interface symmetry but currently unused.
// Negative values clear a bound.
func (e *AIGEngine) SetBounds(lower, upper int) {
	e.lower, e.upper = lower, upper
}

// Run resynthesizes fn over the given leaf signals. On success the returned
// signal realizes fn exactly, including any output complementation the chain
// calls for; on failure the network is left unchanged.
func (e *AIGEngine) Run(ntk AndCreator, fn tt.TT, leaves []lognet.Signal) (lognet.Signal, bool) {
	return e.RunDC(ntk, fn, tt.New(fn.NumVars()), leaves)
}

// RunDC is Run with a don't-care mask. An all-zero mask means no don't-cares
// and keeps the request cacheable.
func (e *AIGEngine) RunDC(ntk AndCreator, fn, dontCares tt.TT, leaves []lognet.Signal) (lognet.Signal, bool) {
	withDC := !dontCares.IsConst0()

	spec := e.ps.newSpec(2)
	if !e.allowXor {
		spec.Primitive = exact.PrimAIG
	}
	if e.lower >= 0 {
		spec.InitialSteps = e.lower
	}
	spec.Targets = []tt.TT{fn}
	if withDC {
		spec.DontCares = []tt.TT{dontCares}
	}

	// Offer applicable divisors as extra inputs, shrinking to the target
	// arity where needed. A divisor that cannot be shrunk is excluded for
	// this request only.
	var divSigs []lognet.Signal
	for _, d := range e.divisors {
		dfn := d.fn
		if dfn.NumVars() != fn.NumVars() {
			small, ok := dfn.ShrinkTo(fn.NumVars())
			if !ok {
				continue
			}
			dfn = small
		}
		divSigs = append(divSigs, d.sig)
		spec.Functions = append(spec.Functions, dfn)
	}

	chain, ok := e.lookupOrSynthesize(spec, fn, dontCares, withDC)
	if !ok {
		return 0, false
	}

	signals := append([]lognet.Signal(nil), leaves...)
	signals = append(signals, divSigs...)
	for _, st := range chain.Steps {
		c1 := signals[st.Fanins[0]]
		c2 := signals[st.Fanins[1]]
		signals = append(signals, decodeStep(ntk, st.Op, c1, c2))
	}

	out := chain.Outputs[0]
	var s lognet.Signal
	if out.Ref == exact.ConstRef {
		s = ntk.Const0()
	} else {
		s = signals[out.Ref]
	}
	return s.NotIf(out.Inverted), true
}

// lookupOrSynthesize runs the cache flow for an AIG request. Chains that
// reference divisors are never cached: their positional references are only
// meaningful against this request's divisor line-up.
func (e *AIGEngine) lookupOrSynthesize(spec *exact.Spec, fn, dontCares tt.TT, withDC bool) (*exact.Chain, bool) {
	cacheable := !withDC && len(spec.Functions) == 0
	if cacheable && e.ps.Cache != nil {
		if chain, ok := e.ps.Cache.Lookup(fn); ok {
			return chain, true
		}
	}
	if !withDC && e.ps.Blacklist != nil && e.ps.Blacklist.Suppresses(fn, e.ps.ConflictLimit) {
		return nil, false
	}

	chain, status := e.ps.oracle().Synthesize(spec, e.ps.Solver, e.ps.Encoder, e.ps.Method)
	if status != exact.StatusSuccess {
		if !withDC && e.ps.Blacklist != nil {
			e.ps.Blacklist.Record(fn, status, e.ps.ConflictLimit)
		}
		return nil, false
	}
	if e.ps.Debug {
		verifyChain(chain, fn, dontCares, withDC)
	}
	if cacheable && e.ps.Cache != nil {
		e.ps.Cache.Store(fn, chain)
	}
	return chain, true
}

// decodeStep splices one chain step as AND gates with complemented edges.
// The oracle is constrained to the AND family plus XOR, so any other
// operator is an internal-consistency violation.
func decodeStep(ntk AndCreator, op tt.TT, c1, c2 lognet.Signal) lognet.Signal {
	switch op4(op) {
	case 0x8:
		return ntk.And(c1, c2)
	case 0x4:
		return ntk.And(c1.Not(), c2)
	case 0x2:
		return ntk.And(c1, c2.Not())
	case 0xe:
		return ntk.And(c1.Not(), c2.Not()).Not()
	case 0x6:
		return ntk.Xor(c1, c2)
	}
	panic(fmt.Sprintf("resyn: unsupported chain operator %s", op.Hex()))
}

// verifyChain resimulates a freshly synthesized chain and panics when it
// disagrees with the requested function on any care row. A mismatch means
// the oracle or the decoding contract is broken; splicing would corrupt the
// network.
func verifyChain(chain *exact.Chain, fn, dontCares tt.TT, withDC bool) {
	sim := chain.Simulate()[0]
	for row := 0; row < fn.NumBits(); row++ {
		if withDC && dontCares.Bit(row) {
			continue
		}
		if sim.Bit(row) != fn.Bit(row) {
			panic(fmt.Sprintf("resyn: chain simulates to %s, requested %s", sim.Hex(), fn.Hex()))
		}
	}
}

func op4(op tt.TT) uint8 {
	var v uint8
	for i := 0; i < 4; i++ {
		if op.Bit(i) {
			v |= 1 << uint(i)
		}
	}
	return v
}
