// Package sortedmap defines the ordered key storage a multimap is built on,
// together with adapters over real tree implementations.
package sortedmap

import (
	"fmt"
	"strings"
)

// SortedMap is an ordered key/value store.
// Implementations are not safe for concurrent mutation.
type SortedMap[K, V any] interface {
	// Set inserts or overwrites the value stored under key.
	Set(key K, value V)
	Get(key K) (V, bool)
	// Delete removes key and reports whether it was present.
	Delete(key K) bool
	Min() (K, bool)
	Max() (K, bool)
	Len() int
	// Ascend calls fn for every pair whose key lies in r, in ascending key
	// order, until fn returns false.
	Ascend(r Range[K], fn func(key K, value V) bool)
	// Copy returns an independent map holding the same pairs. Mutating
	// either map afterwards never affects the other, so a copy may be read
	// while the source map keeps changing.
	Copy() SortedMap[K, V]
}

// Range is an interval of keys. Each end is either unbounded or inclusive.
// The zero Range covers every key.
type Range[K any] struct {
	lo, hi       K
	hasLo, hasHi bool
}

// All returns the unbounded range.
func All[K any]() Range[K] { return Range[K]{} }

// From returns [lo, ∞).
func From[K any](lo K) Range[K] { return Range[K]{lo: lo, hasLo: true} }

// To returns (-∞, hi].
func To[K any](hi K) Range[K] { return Range[K]{hi: hi, hasHi: true} }

// Between returns [lo, hi].
func Between[K any](lo, hi K) Range[K] {
	return Range[K]{lo: lo, hi: hi, hasLo: true, hasHi: true}
}

// Bounds builds a range from optional ends; a nil end is unbounded.
func Bounds[K any](lo, hi *K) Range[K] {
	var r Range[K]
	if lo != nil {
		r.lo, r.hasLo = *lo, true
	}
	if hi != nil {
		r.hi, r.hasHi = *hi, true
	}
	return r
}

func (r Range[K]) Low() (K, bool)  { return r.lo, r.hasLo }
func (r Range[K]) High() (K, bool) { return r.hi, r.hasHi }

// contains reports whether key lies in r under cmp.
func (r Range[K]) contains(cmp func(K, K) int, key K) bool {
	if r.hasLo && cmp(key, r.lo) < 0 {
		return false
	}
	return !r.hasHi || cmp(key, r.hi) <= 0
}

// above reports whether key is past the upper end of r.
func (r Range[K]) above(cmp func(K, K) int, key K) bool {
	return r.hasHi && cmp(key, r.hi) > 0
}

// empty reports whether no key can lie in r.
func (r Range[K]) empty(cmp func(K, K) int) bool {
	return r.hasLo && r.hasHi && cmp(r.lo, r.hi) > 0
}

func (r Range[K]) String() string {
	var b strings.Builder
	if r.hasLo {
		fmt.Fprintf(&b, "[%v", r.lo)
	} else {
		b.WriteString("(-∞")
	}
	b.WriteString(", ")
	if r.hasHi {
		fmt.Fprintf(&b, "%v]", r.hi)
	} else {
		b.WriteString("∞)")
	}
	return b.String()
}
