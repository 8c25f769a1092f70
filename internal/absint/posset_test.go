package absint

import (
	"testing"

	"boundcheck/internal/source"
)

func pos(n uint32) Position {
	return source.Span{File: 1, Start: n, End: n + 1}
}

func TestPositionSetAddDedupsAndSorts(t *testing.T) {
	s := NewPositionSet(pos(3), pos(1), pos(2), pos(1))
	if s.Len() != 3 {
		t.Fatalf("expected 3 unique elements, got %d", s.Len())
	}
	items := s.Items()
	for i := 1; i < len(items); i++ {
		if !items[i-1].Less(items[i]) {
			t.Fatalf("expected sorted order, got %v", items)
		}
	}
}

func TestPositionSetUnionIntersectDiff(t *testing.T) {
	a := NewPositionSet(pos(1), pos(2), pos(3))
	b := NewPositionSet(pos(2), pos(3), pos(4))

	union := a.Union(b)
	if union.Len() != 4 {
		t.Fatalf("expected union of size 4, got %d", union.Len())
	}

	inter := a.Intersect(b)
	if inter.Len() != 2 || !inter.Contains(pos(2)) || !inter.Contains(pos(3)) {
		t.Fatalf("expected intersection {2,3}, got %v", inter.Items())
	}

	diff := a.Diff(b)
	if diff.Len() != 1 || !diff.Contains(pos(1)) {
		t.Fatalf("expected diff {1}, got %v", diff.Items())
	}
}

func TestPositionSetAnyIsDeterministic(t *testing.T) {
	s := NewPositionSet(pos(5), pos(1), pos(3))
	p, ok := s.Any()
	if !ok || p != pos(1) {
		t.Fatalf("expected deterministic smallest element pos(1), got %v ok=%v", p, ok)
	}
}

func TestPositionSetEmptyAnyFails(t *testing.T) {
	var s PositionSet
	if _, ok := s.Any(); ok {
		t.Fatalf("expected empty set to have no Any()")
	}
}
