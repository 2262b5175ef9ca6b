// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package lut_test

import (
	"testing"

	ln "github.com/db47h/lognet"
	"github.com/db47h/lognet/lut"
	"github.com/db47h/lognet/tt"
)

func TestCreateNode(t *testing.T) {
	g := lut.New()
	a, b, c := g.NewIn(), g.NewIn(), g.NewIn()
	ins := []ln.Node{a.Node(), b.Node(), c.Node()}

	maj, err := g.CreateNode([]ln.Signal{a, b, c}, tt.FromUint64(3, 0xe8))
	if err != nil {
		t.Fatal(err)
	}
	if got := ln.Simulate(g, maj, ins); !got.Equal(tt.FromUint64(3, 0xe8)) {
		t.Errorf("maj simulates to %s, want e8", got.Hex())
	}
	if g.NumGates() != 1 {
		t.Errorf("NumGates = %d, want 1", g.NumGates())
	}

	if _, err := g.CreateNode([]ln.Signal{a, b}, tt.FromUint64(3, 0xe8)); err == nil {
		t.Error("fanin/arity mismatch must fail")
	}
	if _, err := g.CreateNode([]ln.Signal{a.Not(), b}, tt.FromUint64(2, 0x8)); err == nil {
		t.Error("complemented edges must be rejected")
	}
}

func TestConstants(t *testing.T) {
	g := lut.New()
	a := g.NewIn()
	ins := []ln.Node{a.Node()}
	if got := ln.Simulate(g, g.Const(false), ins); !got.IsConst0() {
		t.Errorf("const false simulates to %s", got.Hex())
	}
	if got := ln.Simulate(g, g.Const(true), ins); !got.Equal(tt.FromUint64(1, 0x3)) {
		t.Errorf("const true simulates to %s", got.Hex())
	}
}

func TestReplaceInNode(t *testing.T) {
	g := lut.New()
	a, b, c := g.NewIn(), g.NewIn(), g.NewIn()
	and2 := tt.FromUint64(2, 0x8)

	n, err := g.CreateNode([]ln.Signal{a, b}, and2)
	if err != nil {
		t.Fatal(err)
	}

	var gotPrev []ln.Signal
	g.Events().OnModified(func(_ ln.Node, prev []ln.Signal) { gotPrev = prev })

	if _, ok := g.ReplaceInNode(n.Node(), b.Node(), c); ok {
		t.Fatal("lookup-table rewrites must not cascade")
	}
	if len(gotPrev) != 2 || gotPrev[1] != b {
		t.Fatalf("previous fanins = %v", gotPrev)
	}
	got := ln.Simulate(g, n, []ln.Node{a.Node(), b.Node(), c.Node()})
	if want := tt.FromUint64(3, 0xa0); !got.Equal(want) {
		t.Errorf("rewired gate simulates to %s, want %s", got.Hex(), want.Hex())
	}
}

func TestTakeOutNode(t *testing.T) {
	g := lut.New()
	a, b := g.NewIn(), g.NewIn()
	n, _ := g.CreateNode([]ln.Signal{a, b}, tt.FromUint64(2, 0x6))
	g.CreatePO(n)

	var deleted []ln.Node
	g.Events().OnDelete(func(d ln.Node) { deleted = append(deleted, d) })

	g.TakeOutNode(n.Node())
	if !g.IsDead(n.Node()) || len(deleted) != 1 {
		t.Fatalf("dead = %v, deleted = %v", g.IsDead(n.Node()), deleted)
	}
	if g.NumGates() != 0 {
		t.Errorf("NumGates = %d, want 0", g.NumGates())
	}
	// taking out an input or a dead node is a no-op
	g.TakeOutNode(a.Node())
	g.TakeOutNode(n.Node())
	if len(deleted) != 1 {
		t.Errorf("spurious delete events: %v", deleted)
	}
}
