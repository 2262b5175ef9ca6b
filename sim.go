// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package lognet

import "github.com/db47h/lognet/tt"

// Simulate computes the function realized by root in terms of the given
// ordered input nodes: input i maps to truth-table variable i. Nodes outside
// the transitive fanin cone of root are never visited. Gates reachable from
// root whose support is not covered by inputs yield the constant-false
// contribution of their NodeFunc applied to constant-false leaves.
func Simulate(n Network, root Signal, inputs []Node) tt.TT {
	nvars := len(inputs)
	values := make(map[Node]tt.TT, 16)
	for i, in := range inputs {
		values[in] = tt.Nth(nvars, i)
	}

	var eval func(nd Node) tt.TT
	eval = func(nd Node) tt.TT {
		if v, ok := values[nd]; ok {
			return v
		}
		var fv []tt.TT
		var fc []bool
		n.ForeachFanin(nd, func(s Signal) bool {
			fv = append(fv, eval(s.Node()))
			fc = append(fc, s.Complemented())
			return true
		})
		fn := n.NodeFunc(nd)
		v := tt.New(nvars)
		for row := 0; row < v.NumBits(); row++ {
			p := 0
			for i := range fv {
				if fv[i].Bit(row) != fc[i] {
					p |= 1 << uint(i)
				}
			}
			if fn.Bit(p) {
				v.SetBit(row)
			}
		}
		values[nd] = v
		return v
	}

	v := eval(root.Node())
	if root.Complemented() {
		v = v.Not()
	}
	return v
}
