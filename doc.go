// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package lognet provides the shared node/signal abstraction of a logic-network
library for digital-circuit synthesis, together with the narrow network
interface consumed by the optimization packages in this module.

A network is a DAG of nodes. Primary inputs have no fanins; gates combine the
signals of earlier nodes. A Signal references a node and, for network styles
with complemented edges, carries a polarity bit. Concrete containers live in
the aig and lut subpackages; the resynthesis engines (package resyn) and the
technology-constrained fanout/depth view (package aqfp) operate on any
implementation of the Network interface.

Structural changes to a network are observable through its Events registry,
which is how the aqfp view keeps its fanout bookkeeping consistent while the
network mutates underneath it.
*/
package lognet
