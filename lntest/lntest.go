// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

// Package lntest provides utility functions for testing logic networks.
package lntest

import (
	"math/rand"
	"testing"

	"github.com/db47h/lognet"
	"github.com/db47h/lognet/tt"
)

// CheckFunction simulates the cone of root over the given ordered inputs and
// fails the test when it does not realize want exactly over every input
// assignment.
func CheckFunction(t *testing.T, n lognet.Network, root lognet.Signal, inputs []lognet.Node, want tt.TT) {
	t.Helper()
	got := lognet.Simulate(n, root, inputs)
	if !got.Equal(want) {
		t.Errorf("cone of %v simulates to %s, want %s", root, got.Hex(), want.Hex())
	}
}

// RandomTT returns a uniformly random function of nvars variables.
func RandomTT(rng *rand.Rand, nvars int) tt.TT {
	f := tt.New(nvars)
	for i := 0; i < f.NumBits(); i++ {
		if rng.Int63()&(1<<62) != 0 {
			f.SetBit(i)
		}
	}
	return f
}

// Inputs allocates n primary inputs on a network exposing NewIn and returns
// both the signals and their nodes.
func Inputs(g interface{ NewIn() lognet.Signal }, n int) ([]lognet.Signal, []lognet.Node) {
	sigs := make([]lognet.Signal, n)
	nodes := make([]lognet.Node, n)
	for i := range sigs {
		sigs[i] = g.NewIn()
		nodes[i] = sigs[i].Node()
	}
	return sigs, nodes
}
