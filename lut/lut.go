// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

// Package lut implements a k-ary lookup-table network: every gate stores its
// own truth table over an arbitrary number of fanins. Edges carry no
// polarity; all signals produced by this network are positive. Nodes 0 and 1
// are the constant-false and constant-true nodes.
package lut

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/db47h/lognet"
	"github.com/db47h/lognet/tt"
)

type node struct {
	fanins []lognet.Signal
	fn     tt.TT
	pi     bool
	dead   bool
}

// Network is a lookup-table network. Use New to obtain a usable value.
type Network struct {
	nodes   []node
	outputs []lognet.Signal
	ev      lognet.Events
	numPIs  int
	numDead int
}

var _ lognet.Network = (*Network)(nil)

// New returns an empty network holding the two constant nodes.
func New() *Network {
	n := &Network{nodes: make([]node, 2, 64)}
	n.nodes[0].fn = tt.New(0)
	n.nodes[1].fn = tt.FromUint64(0, 1)
	return n
}

// Const returns the constant signal for v.
func (g *Network) Const(v bool) lognet.Signal {
	if v {
		return lognet.MakeSignal(1, false)
	}
	return lognet.MakeSignal(0, false)
}

// NewIn allocates a primary input and returns its signal.
func (g *Network) NewIn() lognet.Signal {
	n := lognet.Node(len(g.nodes))
	g.nodes = append(g.nodes, node{pi: true, fn: tt.FromUint64(1, 0x2)})
	g.numPIs++
	return lognet.MakeSignal(n, false)
}

// CreateNode creates a gate computing fn over the given fanins.
func (g *Network) CreateNode(fanins []lognet.Signal, fn tt.TT) (lognet.Signal, error) {
	if len(fanins) != fn.NumVars() {
		return 0, errors.New("fanin count " + strconv.Itoa(len(fanins)) +
			" does not match function arity " + strconv.Itoa(fn.NumVars()))
	}
	for _, f := range fanins {
		if f.Complemented() {
			return 0, errors.New("lookup-table networks have no complemented edges")
		}
	}
	n := lognet.Node(len(g.nodes))
	g.nodes = append(g.nodes, node{fanins: append([]lognet.Signal(nil), fanins...), fn: fn.Clone()})
	g.ev.EmitAdd(n)
	return lognet.MakeSignal(n, false), nil
}

// CreatePO declares s as a network output.
func (g *Network) CreatePO(s lognet.Signal) {
	g.outputs = append(g.outputs, s)
}

// Size returns the number of allocated node slots.
func (g *Network) Size() int { return len(g.nodes) }

// NumGates returns the number of live gates.
func (g *Network) NumGates() int { return len(g.nodes) - 2 - g.numPIs - g.numDead }

// IsInput reports whether n is a primary input.
func (g *Network) IsInput(n lognet.Node) bool { return g.nodes[n].pi }

// IsDead reports whether n has been taken out of the network.
func (g *Network) IsDead(n lognet.Node) bool { return g.nodes[n].dead }

// NodeFunc returns the stored function of n.
func (g *Network) NodeFunc(n lognet.Node) tt.TT { return g.nodes[n].fn }

// ForeachNode calls fn for every live node in index order.
func (g *Network) ForeachNode(fn func(n lognet.Node) bool) {
	for i := range g.nodes {
		if g.nodes[i].dead {
			continue
		}
		if !fn(lognet.Node(i)) {
			return
		}
	}
}

// ForeachGate calls fn for every live gate in index order.
func (g *Network) ForeachGate(fn func(n lognet.Node) bool) {
	for i := 2; i < len(g.nodes); i++ {
		if g.nodes[i].dead || g.nodes[i].pi {
			continue
		}
		if !fn(lognet.Node(i)) {
			return
		}
	}
}

// ForeachFanin calls fn for each fanin of n in fanin order.
func (g *Network) ForeachFanin(n lognet.Node, fn func(s lognet.Signal) bool) {
	for _, f := range g.nodes[n].fanins {
		if !fn(f) {
			return
		}
	}
}

// ForeachOutput calls fn for each declared output.
func (g *Network) ForeachOutput(fn func(s lognet.Signal) bool) {
	for _, o := range g.outputs {
		if !fn(o) {
			return
		}
	}
}

// Events returns the structural-change registry.
func (g *Network) Events() *lognet.Events { return &g.ev }

// ReplaceInNode rewrites n's fanin references from old to repl. Lookup-table
// nodes are not structurally hashed, so a rewrite never cascades.
func (g *Network) ReplaceInNode(n, old lognet.Node, repl lognet.Signal) (lognet.Replacement, bool) {
	nd := &g.nodes[n]
	if nd.pi || nd.dead {
		return lognet.Replacement{}, false
	}
	changed := false
	for _, f := range nd.fanins {
		if f.Node() == old {
			changed = true
			break
		}
	}
	if !changed {
		return lognet.Replacement{}, false
	}
	previous := append([]lognet.Signal(nil), nd.fanins...)
	for i, f := range nd.fanins {
		if f.Node() == old {
			nd.fanins[i] = repl.NotIf(f.Complemented())
		}
	}
	g.ev.EmitModified(n, previous)
	return lognet.Replacement{}, false
}

// ReplaceInOutputs redirects declared outputs referencing old to repl.
func (g *Network) ReplaceInOutputs(old lognet.Node, repl lognet.Signal) {
	for i, o := range g.outputs {
		if o.Node() == old {
			g.outputs[i] = repl.NotIf(o.Complemented())
		}
	}
}

// TakeOutNode marks gate n dangling. The delete event fires while n's fanins
// are still readable.
func (g *Network) TakeOutNode(n lognet.Node) {
	nd := &g.nodes[n]
	if n < 2 || nd.pi || nd.dead {
		return
	}
	nd.dead = true
	g.numDead++
	g.ev.EmitDelete(n)
}
