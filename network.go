// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package lognet

import "github.com/db47h/lognet/tt"

// A Replacement is a pending node substitution reported by ReplaceInNode:
// rewriting a fanin made the node itself redundant, and every reader of Old
// should be rewired to New.
type Replacement struct {
	Old Node
	New Signal
}

// Network is the narrow container interface consumed by the optimization
// packages. Implementations must enumerate nodes, gates and fanins in a
// stable deterministic order, and must emit structural events through the
// registry returned by Events for every mutation performed by their own
// primitives.
type Network interface {
	// Size returns the number of allocated node slots, including dead ones.
	Size() int
	// NumGates returns the number of live gate nodes.
	NumGates() int

	// ForeachNode calls fn for every live node, in index order. fn returns
	// false to stop the enumeration.
	ForeachNode(fn func(n Node) bool)
	// ForeachGate is like ForeachNode restricted to gates (no constants,
	// no primary inputs).
	ForeachGate(fn func(n Node) bool)
	// ForeachFanin calls fn for each fanin signal of n, in fanin order.
	ForeachFanin(n Node, fn func(s Signal) bool)
	// ForeachOutput calls fn for each declared output signal.
	ForeachOutput(fn func(s Signal) bool)

	// IsInput reports whether n is a primary input.
	IsInput(n Node) bool
	// IsDead reports whether n has been taken out of the network.
	IsDead(n Node) bool
	// NodeFunc returns the function computed by n over its fanins, as a
	// truth table with one variable per fanin.
	NodeFunc(n Node) tt.TT

	// CreateNode creates a gate computing fn over the given fanins and
	// returns its signal.
	CreateNode(fanins []Signal, fn tt.TT) (Signal, error)

	// ReplaceInNode rewrites the fanin references of n from old to repl,
	// preserving edge polarities. If the rewrite makes n itself redundant
	// (its new fanins reduce to an existing or trivial signal), n is left
	// untouched and the follow-up substitution is returned instead.
	ReplaceInNode(n, old Node, repl Signal) (Replacement, bool)
	// ReplaceInOutputs redirects declared outputs referencing old to repl.
	ReplaceInOutputs(old Node, repl Signal)
	// TakeOutNode marks n dangling. Storage reclamation is the network's
	// own responsibility and may happen later.
	TakeOutNode(n Node)

	// Events returns the structural-change registry of the network.
	Events() *Events
}

// FanoutProvider is implemented by networks (or network decorators) that
// natively track fanout. It doubles as the capability probe that keeps
// fanout-tracking decorators from being stacked.
type FanoutProvider interface {
	ForeachFanout(n Node, fn func(fo Node) bool)
}
