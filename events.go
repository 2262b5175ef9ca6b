// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package lognet

// Events is a registry for structural-change notifications. Networks emit an
// add event after a node is created, a modify event after a node's fanin list
// changed (with the previous fanins), and a delete event when a node is taken
// out, before its fanins become unavailable.
//
// Register methods return a handle for the matching Off method, so observers
// can detach when they are discarded. Handlers run synchronously on the
// goroutine performing the mutation.
type Events struct {
	add      []func(n Node)
	modified []func(n Node, previous []Signal)
	delete   []func(n Node)
}

// OnAdd registers fn to run after a node is added.
func (e *Events) OnAdd(fn func(n Node)) int {
	e.add = append(e.add, fn)
	return len(e.add) - 1
}

// OffAdd removes the handler registered under id.
func (e *Events) OffAdd(id int) { e.add[id] = nil }

// OnModified registers fn to run after a node's fanin list changed.
func (e *Events) OnModified(fn func(n Node, previous []Signal)) int {
	e.modified = append(e.modified, fn)
	return len(e.modified) - 1
}

// OffModified removes the handler registered under id.
func (e *Events) OffModified(id int) { e.modified[id] = nil }

// OnDelete registers fn to run when a node is taken out.
func (e *Events) OnDelete(fn func(n Node)) int {
	e.delete = append(e.delete, fn)
	return len(e.delete) - 1
}

// OffDelete removes the handler registered under id.
func (e *Events) OffDelete(id int) { e.delete[id] = nil }

// EmitAdd notifies all add handlers. Called by network implementations.
func (e *Events) EmitAdd(n Node) {
	for _, fn := range e.add {
		if fn != nil {
			fn(n)
		}
	}
}

// EmitModified notifies all modify handlers.
func (e *Events) EmitModified(n Node, previous []Signal) {
	for _, fn := range e.modified {
		if fn != nil {
			fn(n, previous)
		}
	}
}

// EmitDelete notifies all delete handlers.
func (e *Events) EmitDelete(n Node) {
	for _, fn := range e.delete {
		if fn != nil {
			fn(n)
		}
	}
}
