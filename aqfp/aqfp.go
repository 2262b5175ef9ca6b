// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

// Package aqfp decorates a network with the fanout and depth bookkeeping of
// splitter-constrained circuit technologies: every gate output driving more
// than one consumer must pass through splitter cells, and each splitter
// layer adds one pipeline stage to the logic depth.
//
// The view computes every node's fanout set at construction and keeps it
// consistent incrementally by observing the network's structural events.
// Levels are deliberately not recomputed per event; Level and Depth answer
// against the snapshot taken by the last explicit Update, while
// ForeachFanout always answers live.
package aqfp

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/db47h/lognet"
	"github.com/db47h/lognet/aig"
)

// Params configures a View. The zero value subscribes to all structural
// events, uses the default splitter capacity and logs through slog.Default.
type Params struct {
	// SplitterCapacity is the fanout capacity of a single splitter cell.
	// 0 selects the default of 4.
	SplitterCapacity uint32

	// SkipAddEvents, SkipModifiedEvents and SkipDeleteEvents opt out of the
	// corresponding incremental updates. A view that skips events serves
	// static analysis only; its fanout sets go stale on mutation.
	SkipAddEvents      bool
	SkipModifiedEvents bool
	SkipDeleteEvents   bool

	// Strict reports nodes whose fanout exceeds the two-layer splitter
	// capacity during a full recompute.
	Strict bool

	// Logger receives the view's best-effort diagnostics.
	Logger *slog.Logger
}

// DefaultSplitterCapacity is the single-splitter fanout capacity assumed
// when Params does not specify one.
const DefaultSplitterCapacity = 4

type levelRec struct {
	raw   uint32 // longest-path depth including the node's own splitter stages
	split uint32 // splitter stages at the time of the snapshot
}

// View decorates a network with splitter-aware fanout and depth metrics. It
// forwards the full network interface of the wrapped container and adds the
// fanout/level queries; all structural mutations must keep flowing through
// the wrapped network's own primitives.
type View struct {
	lognet.Network

	ps        Params
	log       *slog.Logger
	maxFanout int

	fanout map[lognet.Node][]lognet.Node
	levels map[lognet.Node]levelRec
	depth  uint32

	addID, modID, delID int
	attached            bool
}

var _ lognet.FanoutProvider = (*View)(nil)

// New wraps ntk. It refuses to wrap a network that already tracks fanout
// natively (including another View): double-maintained fanout state cannot
// be kept consistent. Wrapping a network whose edge semantics do not match
// the splitter model is allowed but reported, and the metrics become
// approximate.
//
// The view attaches to ntk's event registry; call Detach before discarding
// the view to release the subscriptions.
func New(ntk lognet.Network, ps *Params) (*View, error) {
	if _, ok := ntk.(lognet.FanoutProvider); ok {
		return nil, errors.New("aqfp: network already provides fanout tracking")
	}
	v := &View{Network: ntk}
	if ps != nil {
		v.ps = *ps
	}
	if v.ps.SplitterCapacity == 0 {
		v.ps.SplitterCapacity = DefaultSplitterCapacity
	}
	v.log = v.ps.Logger
	if v.log == nil {
		v.log = slog.Default()
	}
	v.maxFanout = int(v.ps.SplitterCapacity * v.ps.SplitterCapacity)

	if _, ok := ntk.(*aig.Network); !ok {
		v.log.Warn("aqfp: wrapped network is not an and-inverter network; splitter metrics may be approximate")
	}

	v.Update()

	ev := ntk.Events()
	v.addID, v.modID, v.delID = -1, -1, -1
	if !v.ps.SkipAddEvents {
		v.addID = ev.OnAdd(v.onAdd)
	}
	if !v.ps.SkipModifiedEvents {
		v.modID = ev.OnModified(v.onModified)
	}
	if !v.ps.SkipDeleteEvents {
		v.delID = ev.OnDelete(v.onDelete)
	}
	v.attached = true
	return v, nil
}

// Detach releases the view's event subscriptions. The view remains usable
// for queries against its current state.
func (v *View) Detach() {
	if !v.attached {
		return
	}
	ev := v.Network.Events()
	if v.addID >= 0 {
		ev.OffAdd(v.addID)
	}
	if v.modID >= 0 {
		ev.OffModified(v.modID)
	}
	if v.delID >= 0 {
		ev.OffDelete(v.delID)
	}
	v.attached = false
}

// ForeachFanout calls fn for every node reading n as a fanin, in insertion
// order. Fanout sets answer live, reflecting every tracked mutation.
func (v *View) ForeachFanout(n lognet.Node, fn func(fo lognet.Node) bool) {
	for _, fo := range v.fanout[n] {
		if !fn(fo) {
			return
		}
	}
}

// FanoutSize returns the number of nodes reading n as a fanin.
func (v *View) FanoutSize(n lognet.Node) int { return len(v.fanout[n]) }

// Update recomputes all fanout sets from scratch and takes a fresh
// level/depth snapshot.
func (v *View) Update() {
	v.computeFanout()
	v.computeLevels()
}

// NumSplitterLevels returns the extra depth caused by the splitters at n's
// output: 0 for fanout at most one, 1 while one splitter suffices, 2
// otherwise. The splitter model stacks at most two layers.
func (v *View) NumSplitterLevels(n lognet.Node) uint32 {
	switch fo := len(v.fanout[n]); {
	case fo > int(v.ps.SplitterCapacity):
		return 2
	case fo > 1:
		return 1
	default:
		return 0
	}
}

// NumSplitters returns the number of splitter cells at n's output: none, a
// single cell, or a full two-layer tree. The second layer is provisioned in
// full rather than packed tightly.
func (v *View) NumSplitters(n lognet.Node) uint32 {
	switch fo := len(v.fanout[n]); {
	case fo <= 1:
		return 0
	case fo <= int(v.ps.SplitterCapacity):
		return 1
	default:
		return v.ps.SplitterCapacity + 1
	}
}

// Level returns the level of n itself, when its own output is ready, not
// counting its splitter tree. The value answers against the last Update
// snapshot.
func (v *View) Level(n lognet.Node) uint32 {
	rec := v.levels[n]
	return rec.raw - rec.split
}

// Depth returns the splitter-adjusted depth of the network as of the last
// Update snapshot.
func (v *View) Depth() uint32 { return v.depth }

// Buffers returns the number of wiring-delay buffer cells between n and its
// fanouts, including n's splitter cells. Every fanout must sit strictly
// above n's post-splitter level; a violation indicates an inconsistency in
// the wrapped network and is reported, with the offending fanout skipped.
func (v *View) Buffers(n lognet.Node) uint32 {
	count := v.NumSplitters(n)
	nlevel := v.Level(n) + v.NumSplitterLevels(n)
	for _, fo := range v.fanout[n] {
		fl := v.Level(fo)
		if fl <= nlevel {
			v.log.Error("aqfp: fanout level ordering violated",
				"node", uint32(n), "fanout", uint32(fo), "level", fl, "post-splitter", nlevel)
			continue
		}
		count += fl - nlevel - 1
	}
	return count
}

// TotalBuffers returns the number of buffer and splitter cells of the whole
// network.
func (v *View) TotalBuffers() uint32 {
	var count uint32
	v.Network.ForeachGate(func(n lognet.Node) bool {
		count += v.Buffers(n)
		return true
	})
	return count
}

// SubstituteNode replaces every reference to old by repl and removes old,
// propagating through the transitive fanout cone: a fanout whose rewritten
// fanins make it redundant is itself substituted. Declared outputs are
// redirected and each retired node is taken out of the network, marking it
// dangling for the network's own cleanup.
//
// Each retired node is tracked explicitly and never processed twice, which
// bounds the worklist on any acyclic network.
func (v *View) SubstituteNode(old lognet.Node, repl lognet.Signal) {
	type pair struct {
		old  lognet.Node
		repl lognet.Signal
	}
	stack := []pair{{old, repl}}
	retired := make(map[lognet.Node]struct{})

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, done := retired[p.old]; done {
			continue
		}
		retired[p.old] = struct{}{}

		parents := append([]lognet.Node(nil), v.fanout[p.old]...)
		for _, fo := range parents {
			if r, ok := v.Network.ReplaceInNode(fo, p.old, p.repl); ok {
				stack = append(stack, pair{r.Old, r.New})
			}
		}
		v.Network.ReplaceInOutputs(p.old, p.repl)
		v.Network.TakeOutNode(p.old)
	}
}

func (v *View) computeFanout() {
	v.fanout = make(map[lognet.Node][]lognet.Node)
	v.Network.ForeachGate(func(n lognet.Node) bool {
		v.Network.ForeachFanin(n, func(s lognet.Signal) bool {
			v.appendFanout(s.Node(), n)
			return true
		})
		return true
	})
	if v.ps.Strict {
		v.Network.ForeachGate(func(n lognet.Node) bool {
			if len(v.fanout[n]) > v.maxFanout {
				v.log.Error("aqfp: node exceeds maximum fanout",
					"node", uint32(n), "fanout", len(v.fanout[n]), "max", v.maxFanout)
			}
			return true
		})
	}
}

func (v *View) computeLevels() {
	v.levels = make(map[lognet.Node]levelRec)
	var visit func(n lognet.Node) uint32
	visit = func(n lognet.Node) uint32 {
		if rec, ok := v.levels[n]; ok {
			return rec.raw
		}
		split := v.NumSplitterLevels(n)
		var raw uint32
		gate := false
		v.Network.ForeachFanin(n, func(s lognet.Signal) bool {
			gate = true
			if l := visit(s.Node()); l+1 > raw {
				raw = l + 1
			}
			return true
		})
		if gate {
			raw += split
		} else {
			// Inputs and constants still pay for their own splitter tree.
			raw = split
		}
		v.levels[n] = levelRec{raw: raw, split: split}
		return raw
	}

	v.Network.ForeachNode(func(n lognet.Node) bool {
		visit(n)
		return true
	})

	v.depth = 0
	sawOutput := false
	v.Network.ForeachOutput(func(s lognet.Signal) bool {
		sawOutput = true
		if l := v.levels[s.Node()].raw; l > v.depth {
			v.depth = l
		}
		return true
	})
	if !sawOutput {
		for _, rec := range v.levels {
			if rec.raw > v.depth {
				v.depth = rec.raw
			}
		}
	}
}

func (v *View) onAdd(n lognet.Node) {
	v.Network.ForeachFanin(n, func(s lognet.Signal) bool {
		v.appendFanout(s.Node(), n)
		return true
	})
}

func (v *View) onModified(n lognet.Node, previous []lognet.Signal) {
	for _, s := range previous {
		v.removeFanout(s.Node(), n)
	}
	v.Network.ForeachFanin(n, func(s lognet.Signal) bool {
		v.appendFanout(s.Node(), n)
		return true
	})
}

func (v *View) onDelete(n lognet.Node) {
	delete(v.fanout, n)
	v.Network.ForeachFanin(n, func(s lognet.Signal) bool {
		v.removeFanout(s.Node(), n)
		return true
	})
}

// appendFanout appends fo to n's fanout set, keeping it duplicate-free.
func (v *View) appendFanout(n, fo lognet.Node) {
	for _, x := range v.fanout[n] {
		if x == fo {
			return
		}
	}
	v.fanout[n] = append(v.fanout[n], fo)
}

func (v *View) removeFanout(n, fo lognet.Node) {
	fos := v.fanout[n]
	out := fos[:0]
	for _, x := range fos {
		if x != fo {
			out = append(out, x)
		}
	}
	if len(out) == 0 {
		delete(v.fanout, n)
		return
	}
	v.fanout[n] = out
}
