// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package lognet

import "strconv"

// A Node is the index of a vertex in a network. Indices are stable for the
// lifetime of the node; they are only reused after explicit storage
// reclamation by the owning network.
type Node uint32

// A Signal references a node together with a polarity bit, encoded like a
// SAT literal: node<<1 | polarity. Network styles without complemented edges
// only ever produce signals with a clear polarity bit.
type Signal uint32

// MakeSignal builds a signal referencing n, complemented if neg is true.
func MakeSignal(n Node, neg bool) Signal {
	s := Signal(n) << 1
	if neg {
		s |= 1
	}
	return s
}

// Node returns the node referenced by s.
func (s Signal) Node() Node {
	return Node(s >> 1)
}

// Complemented reports whether s carries an inverted polarity.
func (s Signal) Complemented() bool {
	return s&1 != 0
}

// Not returns s with its polarity flipped.
func (s Signal) Not() Signal {
	return s ^ 1
}

// NotIf returns s complemented if neg is true, unchanged otherwise.
func (s Signal) NotIf(neg bool) Signal {
	if neg {
		return s ^ 1
	}
	return s
}

func (s Signal) String() string {
	if s.Complemented() {
		return "!" + strconv.Itoa(int(s.Node()))
	}
	return strconv.Itoa(int(s.Node()))
}
