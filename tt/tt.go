// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

// Package tt implements the truth-table value used throughout the module as
// synthesis target, cache key and verification value.
//
// A table over n variables holds 2^n bits. Bit i is the function value for
// the input assignment whose j-th variable equals bit j of i (variable 0 is
// the least significant position). Tables of fewer than 7 variables fit in a
// single machine word.
package tt

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// TT is a Boolean function of a fixed number of variables. The zero value is
// the constant-false function of zero variables.
//
// TT values share their backing storage when copied; use Clone before
// mutating a table obtained from elsewhere.
type TT struct {
	words []uint64
	nvars int
}

// New returns the constant-false function of nvars variables. A constant-zero
// table doubles as the "no don't-cares" sentinel for synthesis requests.
func New(nvars int) TT {
	return TT{words: make([]uint64, wordCount(nvars)), nvars: nvars}
}

// FromUint64 returns the function of nvars <= 6 variables whose truth bits
// are the low 2^nvars bits of v.
func FromUint64(nvars int, v uint64) TT {
	t := New(nvars)
	t.words[0] = v & mask(nvars)
	return t
}

// FromHex parses a table of nvars variables from its big-endian hex string,
// as produced by Hex.
func FromHex(nvars int, s string) (TT, error) {
	t := New(nvars)
	digits := hexDigits(nvars)
	if len(s) != digits {
		return TT{}, errors.New("truth table hex string must have " + strconv.Itoa(digits) + " digits")
	}
	for i := 0; i < len(s); i++ {
		d, err := hexVal(s[len(s)-1-i])
		if err != nil {
			return TT{}, err
		}
		t.words[i/16] |= uint64(d) << uint((i%16)*4)
	}
	if nvars < 6 {
		t.words[0] &= mask(nvars)
	}
	return t, nil
}

// Nth returns the projection function of variable i among nvars variables.
func Nth(nvars, i int) TT {
	t := New(nvars)
	for b := 0; b < t.NumBits(); b++ {
		if b>>uint(i)&1 != 0 {
			t.SetBit(b)
		}
	}
	return t
}

// NumVars returns the number of variables of t.
func (t TT) NumVars() int { return t.nvars }

// NumBits returns the number of truth bits of t (2^NumVars).
func (t TT) NumBits() int { return 1 << uint(t.nvars) }

// Bit returns the function value for input assignment i.
func (t TT) Bit(i int) bool {
	return t.words[i>>6]>>(uint(i)&63)&1 != 0
}

// SetBit sets the function value for input assignment i to true. The backing
// storage is modified in place.
func (t TT) SetBit(i int) {
	t.words[i>>6] |= 1 << (uint(i) & 63)
}

// ClearBit sets the function value for input assignment i to false.
func (t TT) ClearBit(i int) {
	t.words[i>>6] &^= 1 << (uint(i) & 63)
}

// Clone returns a copy of t with its own backing storage.
func (t TT) Clone() TT {
	c := TT{words: make([]uint64, len(t.words)), nvars: t.nvars}
	copy(c.words, t.words)
	return c
}

// Equal reports whether t and o have the same arity and the same truth bits.
func (t TT) Equal(o TT) bool {
	if t.nvars != o.nvars {
		return false
	}
	for i, w := range t.words {
		if w != o.words[i] {
			return false
		}
	}
	return true
}

// Not returns the complement of t as a new table.
func (t TT) Not() TT {
	c := t.Clone()
	for i := range c.words {
		c.words[i] = ^c.words[i]
	}
	c.words[len(c.words)-1] &= mask(c.nvars)
	return c
}

// IsConst0 reports whether t is the constant-false function.
func (t TT) IsConst0() bool {
	for _, w := range t.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// CountOnes returns the number of true rows of t.
func (t TT) CountOnes() int {
	n := 0
	for _, w := range t.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// DependsOn reports whether the value of t can change with variable i alone.
func (t TT) DependsOn(i int) bool {
	for b := 0; b < t.NumBits(); b++ {
		if b>>uint(i)&1 != 0 {
			continue
		}
		if t.Bit(b) != t.Bit(b|1<<uint(i)) {
			return true
		}
	}
	return false
}

// ShrinkTo drops the trailing variables of t down to nvars. It fails when t
// depends on any dropped variable, meaning the function is not expressible
// with fewer variables.
func (t TT) ShrinkTo(nvars int) (TT, bool) {
	if nvars >= t.nvars {
		return t, nvars == t.nvars
	}
	for i := nvars; i < t.nvars; i++ {
		if t.DependsOn(i) {
			return TT{}, false
		}
	}
	s := New(nvars)
	for b := 0; b < s.NumBits(); b++ {
		if t.Bit(b) {
			s.SetBit(b)
		}
	}
	return s, true
}

// Key returns a compact representation of t usable as a map key. Tables are
// equal if and only if their keys are equal.
func (t TT) Key() string {
	var b strings.Builder
	b.Grow(1 + 8*len(t.words))
	b.WriteByte(byte(t.nvars))
	for _, w := range t.words {
		var enc [8]byte
		for i := range enc {
			enc[i] = byte(w >> uint(8*i))
		}
		b.Write(enc[:])
	}
	return b.String()
}

// Hex returns the big-endian hex representation of t, one digit per four
// truth bits and at least one digit.
func (t TT) Hex() string {
	digits := hexDigits(t.nvars)
	out := make([]byte, digits)
	for i := 0; i < digits; i++ {
		d := t.words[i/16] >> uint((i%16)*4) & 0xf
		out[digits-1-i] = hexdigit(byte(d))
	}
	return string(out)
}

func (t TT) String() string { return t.Hex() }

func wordCount(nvars int) int {
	if nvars < 6 {
		return 1
	}
	return 1 << uint(nvars-6)
}

func mask(nvars int) uint64 {
	if nvars >= 6 {
		return ^uint64(0)
	}
	return 1<<(1<<uint(nvars)) - 1
}

func hexDigits(nvars int) int {
	if nvars < 2 {
		return 1
	}
	return 1 << uint(nvars-2)
}

func hexdigit(d byte) byte {
	if d < 10 {
		return '0' + d
	}
	return 'a' + d - 10
}

func hexVal(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	}
	return 0, errors.New("invalid hex digit " + string(rune(c)))
}
