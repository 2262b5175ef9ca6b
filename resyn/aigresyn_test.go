// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package resyn_test

import (
	"testing"

	"github.com/db47h/lognet/aig"
	"github.com/db47h/lognet/exact"
	"github.com/db47h/lognet/lntest"
	"github.com/db47h/lognet/resyn"
	"github.com/db47h/lognet/tt"
)

func TestAIGAnd(t *testing.T) {
	e := resyn.NewAIG(false, nil)
	g := aig.New()
	leaves, ins := lntest.Inputs(g, 2)

	and := tt.FromUint64(2, 0x8)
	s, ok := e.Run(g, and, leaves)
	if !ok {
		t.Fatal("Run failed")
	}
	if s.Complemented() {
		t.Error("AND delivered complemented")
	}
	lntest.CheckFunction(t, g, s, ins, and)
}

func TestAIGRun(t *testing.T) {
	e := resyn.NewAIG(false, nil)
	g := aig.New()
	leaves, ins := lntest.Inputs(g, 3)

	maj := tt.FromUint64(3, 0xe8)
	s, ok := e.Run(g, maj, leaves)
	if !ok {
		t.Fatal("Run failed")
	}
	lntest.CheckFunction(t, g, s, ins, maj)
	if g.NumGates() == 0 {
		t.Error("majority spliced without gates")
	}
}

func TestAIGRunXor(t *testing.T) {
	xor3 := tt.FromUint64(3, 0x96)
	for _, allowXor := range []bool{false, true} {
		e := resyn.NewAIG(allowXor, nil)
		g := aig.New()
		leaves, ins := lntest.Inputs(g, 3)
		s, ok := e.Run(g, xor3, leaves)
		if !ok {
			t.Fatalf("Run(allowXor=%v) failed", allowXor)
		}
		lntest.CheckFunction(t, g, s, ins, xor3)
	}
}

func TestAIGInvertedOutput(t *testing.T) {
	// NOR normalizes to OR with a complemented output; the inversion must be
	// absorbed by edge polarities instead of an extra gate.
	e := resyn.NewAIG(false, nil)
	g := aig.New()
	leaves, ins := lntest.Inputs(g, 2)

	nor := tt.FromUint64(2, 0x1)
	s, ok := e.Run(g, nor, leaves)
	if !ok {
		t.Fatal("Run failed")
	}
	if g.NumGates() != 1 {
		t.Errorf("NumGates = %d, want 1", g.NumGates())
	}
	lntest.CheckFunction(t, g, s, ins, nor)
}

func TestAIGDivisors(t *testing.T) {
	o := &countOracle{}
	ps := resyn.DefaultParams()
	ps.Oracle = o
	e := resyn.NewAIG(true, &ps)

	g := aig.New()
	leaves, ins := lntest.Inputs(g, 3)
	d := g.Xor(leaves[0], leaves[1])
	e.AddFunction(d, tt.FromUint64(3, 0x66))

	xor3 := tt.FromUint64(3, 0x96)
	s, ok := e.Run(g, xor3, leaves)
	if !ok {
		t.Fatal("Run failed")
	}
	lntest.CheckFunction(t, g, s, ins, xor3)
	spec := o.specs[len(o.specs)-1]
	if len(spec.Functions) != 1 || !spec.Functions[0].Equal(tt.FromUint64(3, 0x66)) {
		t.Errorf("offered divisors = %v, want the registered a⊕b", spec.Functions)
	}
}

func TestAIGDivisorShrink(t *testing.T) {
	o := &countOracle{}
	ps := resyn.DefaultParams()
	ps.Oracle = o
	e := resyn.NewAIG(true, &ps)

	g := aig.New()
	leaves, _ := lntest.Inputs(g, 4)
	ab := g.And(leaves[0], leaves[1])
	cd := g.And(leaves[2], leaves[3])
	// ab shrinks to three variables; cd depends on the dropped variable and
	// must be skipped.
	e.AddFunction(ab, tt.FromUint64(4, 0x8888))
	e.AddFunction(cd, tt.FromUint64(4, 0xf000))

	if _, ok := e.Run(g, tt.FromUint64(3, 0xe8), leaves[:3]); !ok {
		t.Fatal("Run failed")
	}
	spec := o.specs[len(o.specs)-1]
	if len(spec.Functions) != 1 || !spec.Functions[0].Equal(tt.FromUint64(3, 0x88)) {
		t.Errorf("offered divisors = %v, want shrunk a·b only", spec.Functions)
	}
}

func TestAIGDivisorsNotCached(t *testing.T) {
	o := &countOracle{}
	ps := resyn.DefaultParams()
	ps.Oracle = o
	ps.Cache = resyn.NewCache()
	e := resyn.NewAIG(true, &ps)

	g := aig.New()
	leaves, _ := lntest.Inputs(g, 3)
	d := g.Xor(leaves[0], leaves[1])
	e.AddFunction(d, tt.FromUint64(3, 0x66))

	xor3 := tt.FromUint64(3, 0x96)
	for i := 0; i < 2; i++ {
		if _, ok := e.Run(g, xor3, leaves); !ok {
			t.Fatal("Run failed")
		}
	}
	if o.calls != 2 || ps.Cache.Len() != 0 {
		t.Fatalf("divisor chains cached: calls = %d, cache = %d", o.calls, ps.Cache.Len())
	}

	// Divisor-free requests are cacheable again.
	e.ClearFunctions()
	for i := 0; i < 2; i++ {
		if _, ok := e.Run(g, xor3, leaves); !ok {
			t.Fatal("Run failed")
		}
	}
	if o.calls != 3 || ps.Cache.Len() != 1 {
		t.Errorf("divisor-free caching: calls = %d, cache = %d", o.calls, ps.Cache.Len())
	}
}

func TestAIGSetBounds(t *testing.T) {
	o := &countOracle{}
	ps := resyn.DefaultParams()
	ps.Oracle = o
	e := resyn.NewAIG(true, &ps)
	e.SetBounds(2, -1)

	g := aig.New()
	leaves, ins := lntest.Inputs(g, 3)
	maj := tt.FromUint64(3, 0xe8)
	s, ok := e.Run(g, maj, leaves)
	if !ok {
		t.Fatal("Run failed")
	}
	lntest.CheckFunction(t, g, s, ins, maj)
	if got := o.specs[len(o.specs)-1].InitialSteps; got != 2 {
		t.Errorf("InitialSteps = %d, want 2", got)
	}
}

// brokenOracle returns a canned chain regardless of the requested target.
type brokenOracle struct{ chain *exact.Chain }

func (o *brokenOracle) Synthesize(*exact.Spec, exact.SolverType, exact.EncoderType,
	exact.SynthMethod) (*exact.Chain, exact.Status) {
	return o.chain, exact.StatusSuccess
}

func TestAIGDebugVerify(t *testing.T) {
	ps := resyn.DefaultParams()
	ps.Debug = true
	ps.Oracle = &brokenOracle{chain: &exact.Chain{
		NumVars: 2,
		Steps:   []exact.Step{{Op: tt.FromUint64(2, 0xe), Fanins: []int{0, 1}}},
		Outputs: []exact.Output{{Ref: 2}},
	}}
	e := resyn.NewAIG(false, &ps)

	g := aig.New()
	leaves, _ := lntest.Inputs(g, 2)

	defer func() {
		if recover() == nil {
			t.Error("corrupted chain spliced without panic")
		}
	}()
	e.Run(g, tt.FromUint64(2, 0x8), leaves)
}
