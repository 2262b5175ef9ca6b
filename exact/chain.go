// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package exact

import "github.com/db47h/lognet/tt"

// A Step is one gate of a synthesized chain: an operator truth table over the
// step's fanins and the positional references of those fanins. References
// index the combined sequence of target inputs, divisor functions, then
// earlier steps; a step never references itself or a later step.
type Step struct {
	Op     tt.TT
	Fanins []int
}

// An Output designates one chain output: a positional reference (leaf,
// divisor or step) and whether the delivered value is complemented.
type Output struct {
	// Ref is a positional reference like a step fanin, or ConstRef for the
	// constant-false value.
	Ref      int
	Inverted bool
}

// ConstRef marks an output bound to the constant-false value.
const ConstRef = -1

// A Chain is an immutable Boolean-chain synthesis result.
type Chain struct {
	// NumVars is the arity of the synthesized targets.
	NumVars int
	// Divisors holds the functions of the extra inputs that were offered to
	// the synthesizer, in registration order.
	Divisors []tt.TT
	Steps    []Step
	Outputs  []Output
}

// NumInputs returns the number of positional leaves (targets' variables plus
// divisors) preceding the steps in the reference space.
func (c *Chain) NumInputs() int { return c.NumVars + len(c.Divisors) }

// NumSteps returns the number of gate steps.
func (c *Chain) NumSteps() int { return len(c.Steps) }

// Simulate evaluates the chain over all input assignments and returns the
// function of each output, output inversions applied.
func (c *Chain) Simulate() []tt.TT {
	values := make([]tt.TT, 0, c.NumInputs()+len(c.Steps))
	for i := 0; i < c.NumVars; i++ {
		values = append(values, tt.Nth(c.NumVars, i))
	}
	values = append(values, c.Divisors...)
	for _, st := range c.Steps {
		v := tt.New(c.NumVars)
		for row := 0; row < v.NumBits(); row++ {
			p := 0
			for l, ref := range st.Fanins {
				if values[ref].Bit(row) {
					p |= 1 << uint(l)
				}
			}
			if st.Op.Bit(p) {
				v.SetBit(row)
			}
		}
		values = append(values, v)
	}

	outs := make([]tt.TT, len(c.Outputs))
	for h, o := range c.Outputs {
		var v tt.TT
		if o.Ref == ConstRef {
			v = tt.New(c.NumVars)
		} else {
			v = values[o.Ref]
		}
		if o.Inverted {
			v = v.Not()
		}
		outs[h] = v
	}
	return outs
}

// Denormalize folds output inversions into the operator of the designated
// step wherever that step is referenced by nothing else, so that consumers
// without complemented edges can splice the chain directly. Outputs bound to
// leaves, divisors or shared steps keep their inversion flag.
func (c *Chain) Denormalize() {
	for h := range c.Outputs {
		o := &c.Outputs[h]
		if !o.Inverted || o.Ref < c.NumInputs() {
			continue
		}
		if c.refCount(o.Ref) > 1 {
			continue
		}
		step := &c.Steps[o.Ref-c.NumInputs()]
		step.Op = step.Op.Not()
		o.Inverted = false
	}
}

// refCount counts references to positional index ref from steps and outputs.
func (c *Chain) refCount(ref int) int {
	n := 0
	for _, st := range c.Steps {
		for _, f := range st.Fanins {
			if f == ref {
				n++
			}
		}
	}
	for _, o := range c.Outputs {
		if o.Ref == ref {
			n++
		}
	}
	return n
}
