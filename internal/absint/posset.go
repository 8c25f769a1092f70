// Package absint is the abstract-value lattice and symbolic evaluator that
// underlie the bound checker: position sets, the
// abstract value lattice (Undef/Const/Array/Int/Sum/Rec), the symbolic
// expression tree, and the environment and evaluation/refinement/join
// operations that work over them. It has no dependency on checkast — it
// only knows about source.Span (as the position type) and ident.ID (as the
// tag/field key type), so it can be exercised and tested independently of
// any particular AST shape, mirroring the compiler's own separation between
// its value representation (internal/vm) and its AST (internal/ast).
package absint

import (
	"sort"

	"boundcheck/internal/source"
)

// Position is this project's opaque, totally ordered source-location token.
// source.Span already carries a total order (Span.Less) and node identity,
// so it plays this role directly rather than introducing a parallel type.
type Position = source.Span

// PositionSet is an ordered set of Positions, kept as a sorted slice per
// this project's "a sorted-array or balanced-tree set is appropriate. Empty
// sets are the common case" — a nil PositionSet is a valid empty set with
// no allocation.
type PositionSet struct {
	items []Position
}

// NewPositionSet builds a set from the given positions, deduplicating and
// sorting them.
func NewPositionSet(ps ...Position) PositionSet {
	var s PositionSet
	for _, p := range ps {
		s = s.Add(p)
	}
	return s
}

func (s PositionSet) search(p Position) int {
	return sort.Search(len(s.items), func(i int) bool {
		return !s.items[i].Less(p)
	})
}

// Add returns a set with p inserted, leaving s unmodified.
func (s PositionSet) Add(p Position) PositionSet {
	i := s.search(p)
	if i < len(s.items) && s.items[i] == p {
		return s
	}
	out := make([]Position, 0, len(s.items)+1)
	out = append(out, s.items[:i]...)
	out = append(out, p)
	out = append(out, s.items[i:]...)
	return PositionSet{items: out}
}

// Contains reports whether p is a member of s.
func (s PositionSet) Contains(p Position) bool {
	i := s.search(p)
	return i < len(s.items) && s.items[i] == p
}

// Len returns the number of elements in s.
func (s PositionSet) Len() int { return len(s.items) }

// IsEmpty reports whether s has no elements.
func (s PositionSet) IsEmpty() bool { return len(s.items) == 0 }

// Items returns the set's elements in ascending order. The caller must not
// mutate the returned slice.
func (s PositionSet) Items() []Position { return s.items }

// Any returns an arbitrary element of s and true, or the zero Position and
// false if s is empty. Used by bound_up's "witness = any position in P"
// — the smallest element under the total order, so the
// choice is deterministic across runs.
func (s PositionSet) Any() (Position, bool) {
	if len(s.items) == 0 {
		return Position{}, false
	}
	return s.items[0], true
}

// Union returns the set union of s and o.
func (s PositionSet) Union(o PositionSet) PositionSet {
	out := make([]Position, 0, len(s.items)+len(o.items))
	i, j := 0, 0
	for i < len(s.items) && j < len(o.items) {
		switch {
		case s.items[i] == o.items[j]:
			out = append(out, s.items[i])
			i++
			j++
		case s.items[i].Less(o.items[j]):
			out = append(out, s.items[i])
			i++
		default:
			out = append(out, o.items[j])
			j++
		}
	}
	out = append(out, s.items[i:]...)
	out = append(out, o.items[j:]...)
	return PositionSet{items: out}
}

// Intersect returns the set intersection of s and o.
func (s PositionSet) Intersect(o PositionSet) PositionSet {
	var out []Position
	i, j := 0, 0
	for i < len(s.items) && j < len(o.items) {
		switch {
		case s.items[i] == o.items[j]:
			out = append(out, s.items[i])
			i++
			j++
		case s.items[i].Less(o.items[j]):
			i++
		default:
			j++
		}
	}
	return PositionSet{items: out}
}

// Diff returns the elements of s not present in o — used to restore
// good/bad disjointness.
func (s PositionSet) Diff(o PositionSet) PositionSet {
	var out []Position
	for _, p := range s.items {
		if !o.Contains(p) {
			out = append(out, p)
		}
	}
	return PositionSet{items: out}
}

// Equal reports whether s and o contain exactly the same elements. Used by
// memoization keying.
func (s PositionSet) Equal(o PositionSet) bool {
	if len(s.items) != len(o.items) {
		return false
	}
	for i := range s.items {
		if s.items[i] != o.items[i] {
			return false
		}
	}
	return true
}
