// Copyright 2026 The lognet authors.
// Licensed under the MIT license. See license text in the LICENSE file.

package resyn

import (
	"github.com/db47h/lognet/exact"
	"github.com/db47h/lognet/tt"
)

// Cache memoizes successful synthesis results by target truth table. A cache
// is created by the caller and shared by reference across engine instances;
// it has no eviction and is not safe for concurrent use without external
// serialization. Only results of don't-care-free requests are stored.
type Cache struct {
	m map[string]*exact.Chain
}

// NewCache returns an empty chain cache.
func NewCache() *Cache {
	return &Cache{m: make(map[string]*exact.Chain)}
}

// Lookup returns the cached chain for fn, if any.
func (c *Cache) Lookup(fn tt.TT) (*exact.Chain, bool) {
	ch, ok := c.m[fn.Key()]
	return ch, ok
}

// Store records ch as the synthesis result for fn.
func (c *Cache) Store(fn tt.TT, ch *exact.Chain) {
	c.m[fn.Key()] = ch
}

// Len returns the number of cached chains.
func (c *Cache) Len() int { return len(c.m) }

// blacklistProven marks a function proven unsynthesizable, as opposed to one
// that merely timed out under some budget.
const blacklistProven = 0

// Blacklist memoizes failed synthesis attempts by target truth table. An
// entry is either the proven-unsynthesizable sentinel or the conflict budget
// under which the attempt timed out. Like Cache, a blacklist is caller-owned
// and reference-shared.
type Blacklist struct {
	m map[string]int
}

// NewBlacklist returns an empty blacklist.
func NewBlacklist() *Blacklist {
	return &Blacklist{m: make(map[string]int)}
}

// Suppresses reports whether a new oracle call for fn under the given
// conflict budget is known to be futile: the function is proven
// unsynthesizable, or it already timed out under a budget at least as large.
// A strictly larger budget is allowed to retry; 0 is the unbounded budget and
// always retries a timeout.
func (b *Blacklist) Suppresses(fn tt.TT, conflictLimit int) bool {
	rec, ok := b.m[fn.Key()]
	if !ok {
		return false
	}
	return rec == blacklistProven || (conflictLimit != 0 && conflictLimit <= rec)
}

// Record notes a failed attempt for fn: the sentinel when the failure is a
// proof of infeasibility, the spent conflict budget when it is a timeout.
func (b *Blacklist) Record(fn tt.TT, status exact.Status, conflictLimit int) {
	if status == exact.StatusTimeout {
		b.m[fn.Key()] = conflictLimit
	} else {
		b.m[fn.Key()] = blacklistProven
	}
}

// Len returns the number of blacklisted functions.
func (b *Blacklist) Len() int { return len(b.m) }
