package absint

import "boundcheck/internal/ident"

// checkedAdd computes a+b, reporting overflow rather than wrapping
//. This is same-width int64 overflow detection, not a
// narrowing conversion between integer types — fortio.org/safecast checks
// the latter (see internal/cache, which uses it at the msgpack decode
// boundary) but has no operation for the former, so the check here is the
// standard two's-complement bounds test.
func checkedAdd(a, b int64) (sum int64, ok bool) {
	sum = a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// checkedMul computes a*b with the same overflow-detection contract as
// checkedAdd, performing the mathematically correct multiplication rather
// than folding it into repeated addition, and treating overflow as unknown.
func checkedMul(a, b int64) (prod int64, ok bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if b == -1 && a == -1<<63 {
		return 0, false
	}
	prod = a * b
	if prod/b != a {
		return 0, false
	}
	return prod, true
}

func negate(n int64) (int64, bool) {
	if n == -1<<63 {
		return 0, false
	}
	return -n, true
}

// Eval reduces a symbolic expression to an abstract value under env
//.
func Eval(env *Env, s *Sym) Value {
	return evalGuarded(env, s, map[ident.ID]bool{})
}

func evalGuarded(env *Env, s *Sym, visiting map[ident.ID]bool) Value {
	if s == nil {
		return UndefV
	}
	switch s.Op {
	case SymId:
		return evalID(env, s.Name, visiting)
	case SymValue:
		return s.Val
	case SymPlus:
		return evalPlus(env, s.L, s.R, visiting)
	case SymMinus:
		n, isConst := evalGuarded(env, s.R, visiting).AsConst()
		if !isConst {
			return UndefV
		}
		negN, ok := negate(n)
		if !ok {
			return UndefV
		}
		return evalPlus(env, s.L, ConstSym(negN), visiting)
	case SymMult:
		return evalMult(env, s.L, s.R, visiting)
	case SymDiv:
		return evalDiv(env, s, visiting)
	default:
		// Comparisons and logical operators only take effect through
		// refine_true/refine_false.
		return UndefV
	}
}

// evalID dereferences Id x through env, recursively, until fixpoint or
// absence. visiting guards against a cyclic binding, which
// would otherwise loop forever — an internal-invariant condition the
// producer should never generate, but the guard keeps this pass total.
func evalID(env *Env, name ident.ID, visiting map[ident.ID]bool) Value {
	if visiting[name] {
		return UndefV
	}
	bound := env.Lookup(name)
	if bound == nil {
		return UndefV
	}
	visiting[name] = true
	defer delete(visiting, name)
	return evalGuarded(env, bound, visiting)
}

func evalPlus(env *Env, l, r *Sym, visiting map[ident.ID]bool) Value {
	lv := evalGuarded(env, l, visiting)
	rv := evalGuarded(env, r, visiting)

	if ln, ok := lv.AsConst(); ok {
		if rn, ok := rv.AsConst(); ok {
			if sum, ok := checkedAdd(ln, rn); ok {
				return Const(sum)
			}
			return Int(ln >= 0 && rn >= 0, PositionSet{}, PositionSet{})
		}
		if ri, ok := rv.AsInt(); ok {
			return addConstInt(ln, ri)
		}
		return UndefV
	}
	if rn, ok := rv.AsConst(); ok {
		if li, ok := lv.AsInt(); ok {
			return addConstInt(rn, li)
		}
		return UndefV
	}
	li, lok := lv.AsInt()
	ri, rok := rv.AsInt()
	if lok && rok {
		return Int(li.NonNeg && ri.NonNeg, PositionSet{}, PositionSet{})
	}
	return UndefV
}

// addConstInt implements this project's "Const n + Int(b,g,b')" rule:
// cleared to empty good/bad if n >= 0 (the value only grew, so any
// strict/weak bound against a length is no longer known to hold), unioned
// into the bad side if n < 0 (the value only shrank, so a bound that
// used to be strict is now merely weak).
func addConstInt(n int64, iv Value) Value {
	nonneg := iv.NonNeg && n >= 0
	if n >= 0 {
		return Int(nonneg, PositionSet{}, PositionSet{})
	}
	return Int(nonneg, PositionSet{}, iv.Good.Union(iv.Bad))
}

func evalMult(env *Env, l, r *Sym, visiting map[ident.ID]bool) Value {
	lv := evalGuarded(env, l, visiting)
	rv := evalGuarded(env, r, visiting)

	if ln, ok := lv.AsConst(); ok {
		if rn, ok := rv.AsConst(); ok {
			if prod, ok := checkedMul(ln, rn); ok {
				return Const(prod)
			}
			return Int(ln >= 0 && rn >= 0, PositionSet{}, PositionSet{})
		}
		if ri, ok := rv.AsInt(); ok {
			return Int(ri.NonNeg && ln >= 0, PositionSet{}, PositionSet{})
		}
		return UndefV
	}
	if rn, ok := rv.AsConst(); ok {
		if li, ok := lv.AsInt(); ok {
			return Int(li.NonNeg && rn >= 0, PositionSet{}, PositionSet{})
		}
	}
	return UndefV
}

func evalDiv(env *Env, s *Sym, visiting map[ident.ID]bool) Value {
	l, r := s.L, s.R
	lv := evalGuarded(env, l, visiting)
	rv := evalGuarded(env, r, visiting)

	if ln, ok := lv.AsConst(); ok {
		if rn, ok := rv.AsConst(); ok {
			if rn == 0 {
				return UndefV
			}
			return Const(ln / rn)
		}
	}

	// Special rule: Div(Plus(x, y), Const n) with n >= 2, when both x and
	// y evaluate to Ints, produces the intersection rule:
	// averaging two indices known strictly below a set of lengths is
	// itself strictly below that intersection. Checked before the general
	// Int/Const rule below, since it is a refinement of it for this one
	// numerator shape.
	if l.Op == SymPlus {
		if rn, ok := rv.AsConst(); ok && rn >= 2 {
			xi, xok := evalGuarded(env, l.L, visiting).AsInt()
			yi, yok := evalGuarded(env, l.R, visiting).AsInt()
			if xok && yok {
				return Int(xi.NonNeg && yi.NonNeg, xi.Good.Intersect(yi.Good), PositionSet{})
			}
		}
	}

	if rn, ok := rv.AsConst(); ok && rn > 0 {
		if li, ok := lv.AsInt(); ok {
			return Int(li.NonNeg, li.Good.Union(li.Bad), PositionSet{})
		}
	}

	return UndefV
}
