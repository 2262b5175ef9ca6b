// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

// Command lognet-demo resynthesizes a 3-input majority function into a
// minimal and-inverter implementation and prints the splitter-aware depth
// metrics of the result.
package main

import (
	"log"

	"github.com/db47h/lognet"
	"github.com/db47h/lognet/aig"
	"github.com/db47h/lognet/aqfp"
	"github.com/db47h/lognet/resyn"
	"github.com/db47h/lognet/tt"
)

func main() {
	g := aig.New()
	a, b, c := g.NewIn(), g.NewIn(), g.NewIn()

	// maj(a, b, c)
	maj := tt.FromUint64(3, 0xe8)

	engine := resyn.NewAIG(false, nil)
	out, ok := engine.Run(g, maj, []lognet.Signal{a, b, c})
	if !ok {
		log.Fatal("no implementation found")
	}
	g.CreatePO(out)

	sim := lognet.Simulate(g, out, []lognet.Node{a.Node(), b.Node(), c.Node()})
	log.Printf("maj(a,b,c) = %s realized with %d gates", sim.Hex(), g.NumGates())

	v, err := aqfp.New(g, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer v.Detach()
	log.Printf("depth: %d, buffers: %d", v.Depth(), v.TotalBuffers())
	g.ForeachGate(func(n lognet.Node) bool {
		log.Printf("node %d: level %d, %d splitters", n, v.Level(n), v.NumSplitters(n))
		return true
	})
}
