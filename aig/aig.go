// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

// Package aig implements an and-inverter network: two-input AND gates with
// complemented edges, structurally hashed so that no two live gates share the
// same ordered fanin pair. Node 0 is the constant-false node; primary inputs
// and gates are allocated in creation order, which keeps plain node creation
// topologically sorted.
package aig

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/db47h/lognet"
	"github.com/db47h/lognet/tt"
)

type node struct {
	fanin [2]lognet.Signal
	pi    bool
	dead  bool
}

// Network is an and-inverter network. The zero value is not usable; use New.
type Network struct {
	nodes   []node
	strash  map[uint64]lognet.Node
	outputs []lognet.Signal
	ev      lognet.Events
	numPIs  int
	numDead int
}

var _ lognet.Network = (*Network)(nil)

// New returns an empty network holding only the constant-false node.
func New() *Network {
	return &Network{
		nodes:  make([]node, 1, 64),
		strash: make(map[uint64]lognet.Node),
	}
}

// Const0 returns the constant-false signal.
func (g *Network) Const0() lognet.Signal { return lognet.MakeSignal(0, false) }

// Const1 returns the constant-true signal.
func (g *Network) Const1() lognet.Signal { return lognet.MakeSignal(0, true) }

// NewIn allocates a primary input and returns its signal.
func (g *Network) NewIn() lognet.Signal {
	n := lognet.Node(len(g.nodes))
	g.nodes = append(g.nodes, node{pi: true})
	g.numPIs++
	return lognet.MakeSignal(n, false)
}

// And returns a signal computing the conjunction of a and b. Trivial
// conjunctions reduce to an existing signal or a constant; otherwise the
// ordered pair is looked up in the structural hash before a new gate is
// created.
func (g *Network) And(a, b lognet.Signal) lognet.Signal {
	if a > b {
		a, b = b, a
	}
	if s, ok := g.reduceAnd(a, b); ok {
		return s
	}
	if m, ok := g.strash[strashKey(a, b)]; ok {
		return lognet.MakeSignal(m, false)
	}
	n := lognet.Node(len(g.nodes))
	g.nodes = append(g.nodes, node{fanin: [2]lognet.Signal{a, b}})
	g.strash[strashKey(a, b)] = n
	g.ev.EmitAdd(n)
	return lognet.MakeSignal(n, false)
}

// reduceAnd applies the constant and idempotence rewrite rules to the
// ordered pair (a, b). It reports whether the conjunction reduces to an
// existing signal.
func (g *Network) reduceAnd(a, b lognet.Signal) (lognet.Signal, bool) {
	switch {
	case a == b:
		return a, true
	case a == b.Not():
		return g.Const0(), true
	case a == g.Const0() || b == g.Const0():
		return g.Const0(), true
	case a == g.Const1():
		return b, true
	case b == g.Const1():
		return a, true
	}
	return 0, false
}

// Or returns a signal computing the disjunction of a and b.
func (g *Network) Or(a, b lognet.Signal) lognet.Signal {
	return g.And(a.Not(), b.Not()).Not()
}

// Xor returns a signal computing the exclusive or of a and b, built from
// three AND gates.
func (g *Network) Xor(a, b lognet.Signal) lognet.Signal {
	t0 := g.And(a, b.Not())
	t1 := g.And(a.Not(), b)
	return g.Or(t0, t1)
}

// CreatePO declares s as a network output.
func (g *Network) CreatePO(s lognet.Signal) {
	g.outputs = append(g.outputs, s)
}

// CreateNode creates a gate computing fn over the given fanins. Functions of
// up to two variables are expressed structurally with AND gates and
// complemented edges; higher arities are rejected.
func (g *Network) CreateNode(fanins []lognet.Signal, fn tt.TT) (lognet.Signal, error) {
	if len(fanins) != fn.NumVars() {
		return 0, errors.New("fanin count does not match function arity")
	}
	switch fn.NumVars() {
	case 0:
		return g.Const0().NotIf(fn.Bit(0)), nil
	case 1:
		return fanins[0].NotIf(fn.Bit(0)), nil
	case 2:
		return g.create2(fanins[0], fanins[1], fn), nil
	}
	return 0, errors.New("and-inverter networks cannot host a " +
		strconv.Itoa(fn.NumVars()) + "-ary gate")
}

// create2 expresses an arbitrary two-input function with AND gates.
func (g *Network) create2(a, b lognet.Signal, fn tt.TT) lognet.Signal {
	var bits uint8
	for i := 0; i < 4; i++ {
		if fn.Bit(i) {
			bits |= 1 << uint(i)
		}
	}
	switch bits {
	case 0x0:
		return g.Const0()
	case 0xf:
		return g.Const1()
	case 0xa:
		return a
	case 0x5:
		return a.Not()
	case 0xc:
		return b
	case 0x3:
		return b.Not()
	case 0x8:
		return g.And(a, b)
	case 0x7:
		return g.And(a, b).Not()
	case 0x4:
		return g.And(a.Not(), b)
	case 0xb:
		return g.And(a.Not(), b).Not()
	case 0x2:
		return g.And(a, b.Not())
	case 0xd:
		return g.And(a, b.Not()).Not()
	case 0x1:
		return g.And(a.Not(), b.Not())
	case 0xe:
		return g.And(a.Not(), b.Not()).Not()
	case 0x6:
		return g.Xor(a, b)
	default: // 0x9
		return g.Xor(a, b).Not()
	}
}

// Size returns the number of allocated node slots.
func (g *Network) Size() int { return len(g.nodes) }

// NumGates returns the number of live gates.
func (g *Network) NumGates() int { return len(g.nodes) - 1 - g.numPIs - g.numDead }

// NumPIs returns the number of primary inputs.
func (g *Network) NumPIs() int { return g.numPIs }

// IsInput reports whether n is a primary input.
func (g *Network) IsInput(n lognet.Node) bool { return g.nodes[n].pi }

// IsConst reports whether n is the constant node.
func (g *Network) IsConst(n lognet.Node) bool { return n == 0 }

// IsDead reports whether n has been taken out of the network.
func (g *Network) IsDead(n lognet.Node) bool { return g.nodes[n].dead }

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
	for i := 1; i < len(g.nodes); i++ {
		if g.nodes[i].dead || g.nodes[i].pi {
			continue
		}
		if !fn(lognet.Node(i)) {
			return
		}
	}
}

// ForeachFanin calls fn for each fanin of n. Inputs and the constant node
// have none. Fanins of dead nodes remain readable until reclamation.
func (g *Network) ForeachFanin(n lognet.Node, fn func(s lognet.Signal) bool) {
	if n == 0 || g.nodes[n].pi {
		return
	}
	nd := &g.nodes[n]
	if !fn(nd.fanin[0]) {
		return
	}
	fn(nd.fanin[1])
}

// ForeachOutput calls fn for each declared output.
func (g *Network) ForeachOutput(fn func(s lognet.Signal) bool) {
	for _, o := range g.outputs {
		if !fn(o) {
			return
		}
	}
}

// Fanins returns the fanin pair of gate n.
func (g *Network) Fanins(n lognet.Node) (lognet.Signal, lognet.Signal) {
	nd := &g.nodes[n]
	return nd.fanin[0], nd.fanin[1]
}

// NodeFunc returns the function of n over its fanins: conjunction for gates,
// projection for inputs, constant false for the constant node. Edge
// polarities are carried by the fanin signals, not by the node function.
func (g *Network) NodeFunc(n lognet.Node) tt.TT {
	switch {
	case n == 0:
		return tt.New(0)
	case g.nodes[n].pi:
		return tt.FromUint64(1, 0x2)
	default:
		return tt.FromUint64(2, 0x8)
	}
}

// Events returns the structural-change registry.
func (g *Network) Events() *lognet.Events { return &g.ev }

// ReplaceInNode rewrites n's fanin references from old to repl, preserving
// edge polarities. When the rewritten pair reduces trivially or collides
// with an existing gate in the structural hash, n is left untouched and the
// follow-up substitution is returned for the caller to propagate.
func (g *Network) ReplaceInNode(n, old lognet.Node, repl lognet.Signal) (lognet.Replacement, bool) {
	nd := &g.nodes[n]
	if nd.pi || n == 0 || nd.dead {
		return lognet.Replacement{}, false
	}
	a, b := nd.fanin[0], nd.fanin[1]
	if a.Node() != old && b.Node() != old {
		return lognet.Replacement{}, false
	}
	if a.Node() == old {
		a = repl.NotIf(a.Complemented())
	}
	if b.Node() == old {
		b = repl.NotIf(b.Complemented())
	}
	if a > b {
		a, b = b, a
	}
	if s, ok := g.reduceAnd(a, b); ok {
		return lognet.Replacement{Old: n, New: s}, true
	}
	if m, ok := g.strash[strashKey(a, b)]; ok && m != n {
		return lognet.Replacement{Old: n, New: lognet.MakeSignal(m, false)}, true
	}
	previous := []lognet.Signal{nd.fanin[0], nd.fanin[1]}
	delete(g.strash, strashKey(nd.fanin[0], nd.fanin[1]))
	nd.fanin[0], nd.fanin[1] = a, b
	g.strash[strashKey(a, b)] = n
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

// TakeOutNode marks gate n dangling and drops it from the structural hash.
// The delete event fires while n's fanins are still readable; the node slot
// itself is reclaimed lazily.
func (g *Network) TakeOutNode(n lognet.Node) {
	nd := &g.nodes[n]
	if n == 0 || nd.pi || nd.dead {
		return
	}
	nd.dead = true
	g.numDead++
	delete(g.strash, strashKey(nd.fanin[0], nd.fanin[1]))
	g.ev.EmitDelete(n)
}

func strashKey(a, b lognet.Signal) uint64 {
	return uint64(a)<<32 | uint64(b)
}
