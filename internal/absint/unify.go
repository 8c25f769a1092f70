package absint

import "boundcheck/internal/ident"

// Unify is the lattice join. Const is lifted to
// IntV before joining with anything but an identical Const.
func Unify(a, b Value) Value {
	if a.Kind == ConstV && b.Kind == ConstV && a.N == b.N {
		return a
	}
	if a.Kind == ConstV {
		a = liftConst(a.N)
	}
	if b.Kind == ConstV {
		b = liftConst(b.N)
	}

	switch {
	case a.IsUndef() || b.IsUndef():
		return UndefV
	case a.Kind == IntV && b.Kind == IntV:
		return Int(a.NonNeg && b.NonNeg, a.Good.Intersect(b.Good), a.Bad.Intersect(b.Bad))
	case a.Kind == ArrayV && b.Kind == ArrayV:
		return Array(a.Positions.Union(b.Positions), minInt64(a.Len, b.Len))
	case a.Kind == SumV && b.Kind == SumV:
		return Sum(unifyTagMap(a.Sum, b.Sum))
	case a.Kind == RecV && b.Kind == RecV:
		return Rec(unifyTagMap(a.Rec, b.Rec))
	default:
		return UndefV
	}
}

func unifyTagMap(a, b map[ident.ID][]Value) map[ident.ID][]Value {
	out := make(map[ident.ID][]Value, len(a))
	for tag, av := range a {
		if bv, ok := b[tag]; ok {
			out[tag] = UnifyList(av, bv)
		} else {
			out[tag] = av
		}
	}
	for tag, bv := range b {
		if _, ok := a[tag]; !ok {
			out[tag] = bv
		}
	}
	return out
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// UnifyList joins two result lists pointwise. Mismatched lengths are an internal invariant
// breach — the producer guarantees every branch of a well-typed
// conditional or match yields the same arity.
func UnifyList(a, b []Value) []Value {
	if len(a) != len(b) {
		panic("absint: unify_list arity mismatch")
	}
	out := make([]Value, len(a))
	for i := range a {
		out[i] = Unify(a[i], b[i])
	}
	return out
}
