// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package exact

import (
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/db47h/lognet/tt"
)

// Synthesize searches for a minimum-step chain realizing every target of s.
// Step counts are tried bottom-up starting at the initial-steps bound, so a
// successful result is size-optimal. The solver, encoder and method
// selectors pick the backend; only the built-in gini/SSV/standard
// combination is available.
//
// The outcome is StatusSuccess with a chain, StatusInfeasible when the step
// cap was exhausted with an unsatisfiability proof at every size,
// StatusTimeout when the conflict budget ran out, or StatusFailure for a
// malformed specification.
func Synthesize(s *Spec, solver SolverType, enc EncoderType, method SynthMethod) (*Chain, Status) {
	if solver != SolverGini || enc != EncoderSSV || method != SynthStd {
		return nil, StatusFailure
	}
	if s.Fanin < 2 || len(s.Targets) == 0 {
		return nil, StatusFailure
	}
	if s.Primitive == PrimAIG && s.Fanin != 2 {
		return nil, StatusFailure
	}
	n := s.Targets[0].NumVars()
	for _, f := range s.Targets {
		if f.NumVars() != n {
			return nil, StatusFailure
		}
	}
	for _, d := range s.Functions {
		if d.NumVars() != n {
			return nil, StatusFailure
		}
	}
	for _, dc := range s.DontCares {
		if dc.NumVars() != 0 && dc.NumVars() != n {
			return nil, StatusFailure
		}
	}
	if s.Fanin > n+len(s.Functions) {
		return nil, StatusFailure
	}

	// Bind trivially realizable outputs to leaves, divisors or constants up
	// front; only the rest needs gate steps.
	outs := make([]Output, len(s.Targets))
	var work []pendingOutput
	for h, f := range s.Targets {
		dc := s.dontCare(h)
		if ref, inv, ok := trivialRef(s, f, dc); ok {
			outs[h] = Output{Ref: ref, Inverted: inv}
			continue
		}
		inv := f.Bit(0)
		norm := f
		if inv {
			norm = f.Not()
		}
		work = append(work, pendingOutput{idx: h, fn: norm, inverted: inv, dc: dc})
	}

	chain := &Chain{
		NumVars:  n,
		Divisors: append([]tt.TT(nil), s.Functions...),
		Outputs:  outs,
	}
	if len(work) == 0 {
		return chain, StatusSuccess
	}

	bud := budget{limited: s.ConflictLimit > 0,
		remaining: time.Duration(s.ConflictLimit) * time.Millisecond}

	r := s.InitialSteps
	if r < 1 {
		r = 1
	}
	for ; ; r++ {
		if s.MaxSteps > 0 && r > s.MaxSteps {
			return nil, StatusInfeasible
		}
		steps, work2, res := synthFixed(s, work, r, &bud)
		switch res {
		case 1:
			chain.Steps = steps
			for _, w := range work2 {
				chain.Outputs[w.idx] = Output{Ref: chain.NumInputs() + w.step, Inverted: w.inverted}
			}
			return chain, StatusSuccess
		case 0:
			return nil, StatusTimeout
		}
	}
}

type pendingOutput struct {
	idx      int
	fn       tt.TT
	inverted bool
	dc       tt.TT // zero-arity value when absent
	step     int   // chosen step, set on success
}

func (s *Spec) dontCare(h int) tt.TT {
	if h < len(s.DontCares) && s.DontCares[h].NumVars() != 0 {
		return s.DontCares[h]
	}
	return tt.TT{}
}

func (p *pendingOutput) care(row int) bool {
	return p.dc.NumVars() == 0 || !p.dc.Bit(row)
}

// trivialRef reports whether f coincides, on its care rows, with a constant,
// a variable, a divisor, or a complement of one of those.
func trivialRef(s *Spec, f, dc tt.TT) (ref int, inverted, ok bool) {
	n := f.NumVars()
	eq := func(g tt.TT) (bool, bool) { // matches g, matches not-g
		pos, neg := true, true
		for row := 0; row < f.NumBits(); row++ {
			if dc.NumVars() != 0 && dc.Bit(row) {
				continue
			}
			if f.Bit(row) != g.Bit(row) {
				pos = false
			}
			if f.Bit(row) == g.Bit(row) {
				neg = false
			}
		}
		return pos, neg
	}
	if pos, neg := eq(tt.New(n)); pos || neg {
		return ConstRef, neg, true
	}
	for j := 0; j < n; j++ {
		if pos, neg := eq(tt.Nth(n, j)); pos || neg {
			return j, neg, true
		}
	}
	for j, d := range s.Functions {
		if pos, neg := eq(d); pos || neg {
			return n + j, neg, true
		}
	}
	return 0, false, false
}

type budget struct {
	limited   bool
	remaining time.Duration
}

// solve runs the solver under the remaining budget. Returns 1 for SAT, -1
// for UNSAT, 0 when the budget ran out.
func (b *budget) solve(g *gini.Gini) int {
	if !b.limited {
		return g.Solve()
	}
	if b.remaining <= 0 {
		return 0
	}
	start := time.Now()
	res := g.GoSolve().Try(b.remaining)
	b.remaining -= time.Since(start)
	return res
}

// synthFixed encodes and solves the r-step instance. On SAT it returns the
// decoded steps and the per-output step bindings.
func synthFixed(s *Spec, work []pendingOutput, r int, bud *budget) ([]Step, []pendingOutput, int) {
	var (
		n    = s.Targets[0].NumVars()
		k    = s.Fanin
		big  = n + len(s.Functions) // leaf count
		rows = 1 << uint(n)
		g    = gini.New()
	)

	clause := func(ms ...z.Lit) {
		for _, m := range ms {
			g.Add(m)
		}
		g.Add(0)
	}

	// Simulation variables, per step and truth row.
	simLit := make([][]z.Lit, r)
	for i := range simLit {
		simLit[i] = make([]z.Lit, rows)
		for t := range simLit[i] {
			simLit[i][t] = g.Lit()
		}
	}

	// Selection variables, one per candidate fanin combination of each step.
	combos := make([][][]int, r)
	selLit := make([][]z.Lit, r)
	for i := 0; i < r; i++ {
		combos[i] = kSubsets(big+i, k)
		selLit[i] = make([]z.Lit, len(combos[i]))
		for ci := range selLit[i] {
			selLit[i][ci] = g.Lit()
		}
		clause(selLit[i]...)
		for a := 0; a < len(selLit[i]); a++ {
			for b := a + 1; b < len(selLit[i]); b++ {
				clause(selLit[i][a].Not(), selLit[i][b].Not())
			}
		}
	}

	// Operator bits, per step and non-zero input pattern. The all-zero
	// pattern maps to false: chains are normalized.
	npat := 1 << uint(k)
	opLit := make([][]z.Lit, r)
	for i := range opLit {
		opLit[i] = make([]z.Lit, npat-1)
		for p := range opLit[i] {
			opLit[i][p] = g.Lit()
		}
	}

	// leafVal resolves the value of positional index ref at a truth row:
	// constant for leaves and divisors, a literal for steps.
	leafVal := func(ref, t int) (lit z.Lit, constVal, isConst bool) {
		switch {
		case ref < n:
			return 0, t>>uint(ref)&1 != 0, true
		case ref < big:
			return 0, s.Functions[ref-n].Bit(t), true
		default:
			return simLit[ref-big][t], false, false
		}
	}

	// Simulation clauses: selecting combination c ties the step's value at
	// each row to the operator bit of the fanin pattern at that row.
	for i := 0; i < r; i++ {
		for ci, c := range combos[i] {
			for t := 0; t < rows; t++ {
				for p := 0; p < npat; p++ {
					base := []z.Lit{selLit[i][ci].Not()}
					sat := false
					for l, ref := range c {
						want := p>>uint(l)&1 != 0
						lit, cv, isConst := leafVal(ref, t)
						if isConst {
							if cv != want {
								sat = true
								break
							}
							continue
						}
						if want {
							base = append(base, lit.Not())
						} else {
							base = append(base, lit)
						}
					}
					if sat {
						continue
					}
					x := simLit[i][t]
					if p == 0 {
						clause(append(base, x.Not())...)
						continue
					}
					f := opLit[i][p-1]
					clause(append(append([]z.Lit(nil), base...), x.Not(), f)...)
					clause(append(base, f.Not(), x)...)
				}
			}
		}
	}

	// Output constraints on care rows.
	multi := len(work) > 1
	var outLit [][]z.Lit
	if !multi {
		w := &work[0]
		for t := 0; t < rows; t++ {
			if !w.care(t) {
				continue
			}
			if w.fn.Bit(t) {
				clause(simLit[r-1][t])
			} else {
				clause(simLit[r-1][t].Not())
			}
		}
	} else {
		outLit = make([][]z.Lit, len(work))
		for h := range work {
			outLit[h] = make([]z.Lit, r)
			for i := 0; i < r; i++ {
				outLit[h][i] = g.Lit()
			}
			clause(outLit[h]...)
			for a := 0; a < r; a++ {
				for b := a + 1; b < r; b++ {
					clause(outLit[h][a].Not(), outLit[h][b].Not())
				}
			}
			w := &work[h]
			for i := 0; i < r; i++ {
				for t := 0; t < rows; t++ {
					if !w.care(t) {
						continue
					}
					if w.fn.Bit(t) {
						clause(outLit[h][i].Not(), simLit[i][t])
					} else {
						clause(outLit[h][i].Not(), simLit[i][t].Not())
					}
				}
			}
		}
		last := make([]z.Lit, len(work))
		for h := range work {
			last[h] = outLit[h][r-1]
		}
		clause(last...)
	}

	if s.AddNontrivClauses {
		for i := 0; i < r; i++ {
			// Not constant false.
			clause(opLit[i]...)
			// Not a projection of any operand.
			for l := 0; l < k; l++ {
				block := make([]z.Lit, 0, npat-1)
				for p := 1; p < npat; p++ {
					if p>>uint(l)&1 != 0 {
						block = append(block, opLit[i][p-1].Not())
					} else {
						block = append(block, opLit[i][p-1])
					}
				}
				clause(block...)
			}
		}
	}

	if s.Primitive == PrimAIG {
		// Exclude XOR; with normalization and the nontriviality clauses the
		// remaining two-input operators are exactly the AND family.
		for i := 0; i < r; i++ {
			clause(opLit[i][0].Not(), opLit[i][1].Not(), opLit[i][2])
		}
	}

	if s.AddAlonceClauses {
		for i := 0; i < r; i++ {
			if !multi && i == r-1 {
				continue
			}
			var used []z.Lit
			for i2 := i + 1; i2 < r; i2++ {
				for ci, c := range combos[i2] {
					if containsRef(c, big+i) {
						used = append(used, selLit[i2][ci])
					}
				}
			}
			if multi {
				for h := range work {
					used = append(used, outLit[h][i])
				}
			}
			clause(used...)
		}
	}

	if s.AddColexClauses {
		// Consecutive steps that do not feed each other must have their
		// fanin combinations in co-lexicographic order.
		for i := 0; i+1 < r; i++ {
			for ca, cA := range combos[i] {
				for cb, cB := range combos[i+1] {
					if containsRef(cB, big+i) {
						continue
					}
					if colexLess(cB, cA) {
						clause(selLit[i][ca].Not(), selLit[i+1][cb].Not())
					}
				}
			}
		}
	}

	switch bud.solve(g) {
	case 1:
	case -1:
		return nil, nil, -1
	default:
		return nil, nil, 0
	}

	steps := make([]Step, r)
	for i := 0; i < r; i++ {
		op := tt.New(k)
		for p := 1; p < npat; p++ {
			if g.Value(opLit[i][p-1]) {
				op.SetBit(p)
			}
		}
		var fanins []int
		for ci := range combos[i] {
			if g.Value(selLit[i][ci]) {
				fanins = append([]int(nil), combos[i][ci]...)
				break
			}
		}
		steps[i] = Step{Op: op, Fanins: fanins}
	}
	out := append([]pendingOutput(nil), work...)
	if !multi {
		out[0].step = r - 1
	} else {
		for h := range out {
			for i := 0; i < r; i++ {
				if g.Value(outLit[h][i]) {
					out[h].step = i
					break
				}
			}
		}
	}
	return steps, out, 1
}

// kSubsets enumerates all ascending k-element subsets of [0, m).
func kSubsets(m, k int) [][]int {
	var out [][]int
	cur := make([]int, k)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == k {
			out = append(out, append([]int(nil), cur...))
			return
		}
		for v := start; v < m-(k-depth-1); v++ {
			cur[depth] = v
			rec(v+1, depth+1)
		}
	}
	rec(0, 0)
	return out
}

func containsRef(c []int, ref int) bool {
	for _, v := range c {
		if v == ref {
			return true
		}
	}
	return false
}

// colexLess orders ascending index combinations by their largest differing
// element.
func colexLess(a, b []int) bool {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
