// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package aqfp_test

import (
	"bytes"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	ln "github.com/db47h/lognet"
	"github.com/db47h/lognet/aig"
	"github.com/db47h/lognet/aqfp"
	"github.com/db47h/lognet/lntest"
	"github.com/db47h/lognet/lut"
	"github.com/db47h/lognet/tt"
)

func TestSplitterMetrics(t *testing.T) {
	td := []struct {
		fanout    int
		levels    uint32
		splitters uint32
	}{
		{1, 0, 0},
		{2, 1, 1},
		{4, 1, 1},
		{5, 2, 5}, // capacity+1 cells: one first-layer cell, a full second layer
		{16, 2, 5},
	}
	for _, d := range td {
		g := aig.New()
		a, b := g.NewIn(), g.NewIn()
		x := g.And(a, b)
		for i := 0; i < d.fanout; i++ {
			g.And(x, g.NewIn())
		}
		v, err := aqfp.New(g, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got := v.FanoutSize(x.Node()); got != d.fanout {
			t.Fatalf("fanout %d: FanoutSize = %d", d.fanout, got)
		}
		if got := v.NumSplitterLevels(x.Node()); got != d.levels {
			t.Errorf("fanout %d: NumSplitterLevels = %d, want %d", d.fanout, got, d.levels)
		}
		if got := v.NumSplitters(x.Node()); got != d.splitters {
			t.Errorf("fanout %d: NumSplitters = %d, want %d", d.fanout, got, d.splitters)
		}
		v.Detach()
	}
}

func TestLevelsAndDepth(t *testing.T) {
	g := aig.New()
	a, b, c := g.NewIn(), g.NewIn(), g.NewIn()
	x := g.And(a, b)
	y := g.And(x, c) // x also feeds z below, so its output needs a splitter
	z := g.And(x, g.NewIn())
	g.CreatePO(y)
	g.CreatePO(z)

	v, err := aqfp.New(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Detach()

	if got := v.Level(x.Node()); got != 1 {
		t.Errorf("Level(x) = %d, want 1", got)
	}
	// y sits one stage above x's splitter layer.
	if got := v.Level(y.Node()); got != 3 {
		t.Errorf("Level(y) = %d, want 3", got)
	}
	if got := v.Depth(); got != 3 {
		t.Errorf("Depth = %d, want 3", got)
	}
}

func TestBuffers(t *testing.T) {
	g := aig.New()
	a, b, c := g.NewIn(), g.NewIn(), g.NewIn()
	x := g.And(a, b)
	y := g.And(x, c)
	z := g.And(x, y)
	g.CreatePO(z)

	v, err := aqfp.New(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Detach()

	// x: one splitter cell, post-splitter level 2; y reads it at level 3
	// (no buffers), z at level 4 (one buffer).
	if got := v.Buffers(x.Node()); got != 2 {
		t.Errorf("Buffers(x) = %d, want 2", got)
	}
	if got := v.Buffers(y.Node()); got != 0 {
		t.Errorf("Buffers(y) = %d, want 0", got)
	}
	if got := v.TotalBuffers(); got != 2 {
		t.Errorf("TotalBuffers = %d, want 2", got)
	}
}

func fanoutSnapshot(v *aqfp.View, g *aig.Network) map[uint32][]uint32 {
	m := make(map[uint32][]uint32)
	g.ForeachNode(func(n ln.Node) bool {
		var fos []uint32
		v.ForeachFanout(n, func(fo ln.Node) bool {
			fos = append(fos, uint32(fo))
			return true
		})
		if fos != nil {
			sort.Slice(fos, func(i, j int) bool { return fos[i] < fos[j] })
			m[uint32(n)] = fos
		}
		return true
	})
	return m
}

func TestIncrementalFanout(t *testing.T) {
	g := aig.New()
	a, b, c, d, e := g.NewIn(), g.NewIn(), g.NewIn(), g.NewIn(), g.NewIn()
	x := g.And(a, b)
	y := g.And(x, c)

	v, err := aqfp.New(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Detach()

	// Mutate through the network's own primitives; the view must track each
	// change so that the live sets match a full recompute.
	z := g.And(x, d)
	if _, ok := g.ReplaceInNode(y.Node(), c.Node(), e); ok {
		t.Fatal("rewire unexpectedly cascaded")
	}
	g.TakeOutNode(z.Node())

	live := fanoutSnapshot(v, g)
	v.Update()
	if diff := cmp.Diff(fanoutSnapshot(v, g), live); diff != "" {
		t.Errorf("live fanout diverges from recompute (-recomputed +live):\n%s", diff)
	}
	if got := v.FanoutSize(x.Node()); got != 1 {
		t.Errorf("FanoutSize(x) = %d, want 1", got)
	}
}

func TestSubstituteNode(t *testing.T) {
	g := aig.New()
	a, b, c := g.NewIn(), g.NewIn(), g.NewIn()
	x := g.And(a, b)
	y := g.And(x, c)
	w := g.And(a, c)
	g.CreatePO(y)
	g.CreatePO(w)

	v, err := aqfp.New(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Detach()

	// Substituting x by a rewires y to (a, c), which collides with w in the
	// structural hash; the substitution must then retire y as well.
	v.SubstituteNode(x.Node(), a)

	if !g.IsDead(x.Node()) || !g.IsDead(y.Node()) {
		t.Fatalf("dead(x) = %v, dead(y) = %v, want both retired",
			g.IsDead(x.Node()), g.IsDead(y.Node()))
	}
	g.ForeachGate(func(n ln.Node) bool {
		g.ForeachFanin(n, func(s ln.Signal) bool {
			if s.Node() == x.Node() || s.Node() == y.Node() {
				t.Errorf("gate %v still reads a retired node", n)
			}
			return true
		})
		return true
	})
	// Both outputs now deliver a·c.
	g.ForeachOutput(func(s ln.Signal) bool {
		lntest.CheckFunction(t, g, s, []ln.Node{a.Node(), b.Node(), c.Node()},
			tt.FromUint64(3, 0xa0))
		return true
	})
}

func TestDoubleWrap(t *testing.T) {
	g := aig.New()
	v, err := aqfp.New(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Detach()
	if _, err := aqfp.New(v, nil); err == nil {
		t.Error("wrapping a fanout-tracking view must fail")
	}
}

func TestNonAIGWarning(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	g := lut.New()
	v, err := aqfp.New(g, &aqfp.Params{Logger: log})
	if err != nil {
		t.Fatal(err)
	}
	defer v.Detach()
	if !strings.Contains(buf.String(), "not an and-inverter network") {
		t.Errorf("missing diagnostic, log: %q", buf.String())
	}
}

func TestStrict(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	g := aig.New()
	a, b := g.NewIn(), g.NewIn()
	x := g.And(a, b)
	for i := 0; i < 5; i++ { // exceeds the 2*2 two-layer capacity
		g.And(x, g.NewIn())
	}
	v, err := aqfp.New(g, &aqfp.Params{SplitterCapacity: 2, Strict: true, Logger: log})
	if err != nil {
		t.Fatal(err)
	}
	defer v.Detach()
	if !strings.Contains(buf.String(), "exceeds maximum fanout") {
		t.Errorf("missing diagnostic, log: %q", buf.String())
	}
}

func TestDetach(t *testing.T) {
	g := aig.New()
	a, b, c := g.NewIn(), g.NewIn(), g.NewIn()
	x := g.And(a, b)

	v, err := aqfp.New(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	v.Detach()

	g.And(x, c)
	if got := v.FanoutSize(x.Node()); got != 0 {
		t.Errorf("FanoutSize after Detach = %d, want 0", got)
	}
	v.Update()
	if got := v.FanoutSize(x.Node()); got != 1 {
		t.Errorf("FanoutSize after Update = %d, want 1", got)
	}
}
