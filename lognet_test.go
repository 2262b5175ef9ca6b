// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package lognet_test

import (
	"testing"

	ln "github.com/db47h/lognet"
	"github.com/db47h/lognet/aig"
	"github.com/db47h/lognet/tt"
)

func TestSignal(t *testing.T) {
	s := ln.MakeSignal(42, false)
	if s.Node() != 42 || s.Complemented() {
		t.Fatalf("MakeSignal(42, false) = %v", s)
	}
	n := s.Not()
	if n.Node() != 42 || !n.Complemented() {
		t.Fatalf("Not() = %v", n)
	}
	if n.Not() != s {
		t.Fatal("double complement is not the identity")
	}
	if s.NotIf(true) != n || s.NotIf(false) != s {
		t.Fatal("NotIf broken")
	}
}

func TestEvents(t *testing.T) {
	var ev ln.Events
	var adds, mods, dels []ln.Node

	addID := ev.OnAdd(func(n ln.Node) { adds = append(adds, n) })
	ev.OnModified(func(n ln.Node, prev []ln.Signal) { mods = append(mods, n) })
	ev.OnDelete(func(n ln.Node) { dels = append(dels, n) })

	ev.EmitAdd(1)
	ev.EmitModified(2, nil)
	ev.EmitDelete(3)
	if len(adds) != 1 || adds[0] != 1 || len(mods) != 1 || len(dels) != 1 {
		t.Fatalf("adds %v mods %v dels %v", adds, mods, dels)
	}

	ev.OffAdd(addID)
	ev.EmitAdd(4)
	if len(adds) != 1 {
		t.Fatal("detached add handler still called")
	}
}

func TestSimulate(t *testing.T) {
	g := aig.New()
	a, b, c := g.NewIn(), g.NewIn(), g.NewIn()
	inputs := []ln.Node{a.Node(), b.Node(), c.Node()}

	// maj(a,b,c) = ab + ac + bc
	ab := g.And(a, b)
	ac := g.And(a, c)
	bc := g.And(b, c)
	maj := g.Or(g.Or(ab, ac), bc)

	got := ln.Simulate(g, maj, inputs)
	if want := tt.FromUint64(3, 0xe8); !got.Equal(want) {
		t.Errorf("maj simulates to %s, want %s", got.Hex(), want.Hex())
	}

	got = ln.Simulate(g, maj.Not(), inputs)
	if want := tt.FromUint64(3, 0x17); !got.Equal(want) {
		t.Errorf("!maj simulates to %s, want %s", got.Hex(), want.Hex())
	}

	// constant node
	got = ln.Simulate(g, g.Const1(), inputs)
	if want := tt.FromUint64(3, 0xff); !got.Equal(want) {
		t.Errorf("const1 simulates to %s, want %s", got.Hex(), want.Hex())
	}
}
