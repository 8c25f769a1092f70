package absint

import "boundcheck/internal/ident"

// RefineTrue narrows env along the assumption that s evaluates truthy
//. It only rebinds Id leaves it can see
// through the comparison/logical shape directly — it does not attempt to
// solve arbitrary symbolic conditions.
func RefineTrue(env *Env, s *Sym) *Env {
	if s == nil {
		return env
	}
	switch s.Op {
	case SymAnd:
		return RefineTrue(RefineTrue(env, s.L), s.R)
	case SymNot:
		return RefineFalse(env, s.X)
	case SymLte:
		return refineLte(env, s.L, s.R)
	case SymGte:
		return refineGte(env, s.L, s.R)
	case SymLt:
		return refineLt(env, s.L, s.R)
	case SymGt:
		return refineGt(env, s.L, s.R)
	default:
		return env
	}
}

// RefineFalse is RefineTrue's dual: Or distributes, Not inverts, and each
// comparison swaps to its negation before delegating.
func RefineFalse(env *Env, s *Sym) *Env {
	if s == nil {
		return env
	}
	switch s.Op {
	case SymOr:
		return RefineFalse(RefineFalse(env, s.L), s.R)
	case SymNot:
		return RefineTrue(env, s.X)
	case SymLte:
		return RefineTrue(env, Gt(s.L, s.R))
	case SymGte:
		return RefineTrue(env, Lt(s.L, s.R))
	case SymLt:
		return RefineTrue(env, Gte(s.L, s.R))
	case SymGt:
		return RefineTrue(env, Lte(s.L, s.R))
	default:
		return env
	}
}

// refineLte handles "x <= y": merge y's good and bad into x's, then
// restore disjointness; symmetrically refine y >= x.
func refineLte(env *Env, x, y *Sym) *Env {
	env = refineBound(env, x, y)
	return refineGte(env, y, x)
}

func refineBound(env *Env, x, y *Sym) *Env {
	name, ok := idName(x)
	if !ok {
		return env
	}
	cur, hasCur := currentInt(env, name)
	yv, yok := Eval(env, y).AsInt()
	if !yok {
		return env
	}
	var nonneg bool
	var good, bad PositionSet
	if hasCur {
		nonneg = cur.NonNeg
		good = cur.Good
		bad = cur.Bad
	}
	good = good.Union(yv.Good)
	bad = bad.Union(yv.Bad)
	return env.Bind(name, SymOfValue(Int(nonneg, good, bad)))
}

// refineGte handles "x >= y": raise x's nonneg if y evaluates to a
// non-negative Const or Int(true, _, _).
func refineGte(env *Env, x, y *Sym) *Env {
	name, ok := idName(x)
	if !ok {
		return env
	}
	if !yIsNonNegative(env, y) {
		return env
	}
	cur, hasCur := currentInt(env, name)
	var good, bad PositionSet
	if hasCur {
		good, bad = cur.Good, cur.Bad
	}
	return env.Bind(name, SymOfValue(Int(true, good, bad)))
}

// refineLt handles "x < y": merge y's good ∪ bad into x's good, clear
// x's bad.
func refineLt(env *Env, x, y *Sym) *Env {
	name, ok := idName(x)
	if !ok {
		return env
	}
	cur, hasCur := currentInt(env, name)
	yv, yok := Eval(env, y).AsInt()
	if !yok {
		return env
	}
	var nonneg bool
	var good PositionSet
	if hasCur {
		nonneg = cur.NonNeg
		good = cur.Good
	}
	good = good.Union(yv.Good).Union(yv.Bad)
	return env.Bind(name, SymOfValue(Int(nonneg, good, PositionSet{})))
}

// refineGt handles "x > y": raise x's nonneg if y >= -1.
func refineGt(env *Env, x, y *Sym) *Env {
	name, ok := idName(x)
	if !ok {
		return env
	}
	if yv, ok := Eval(env, y).AsConst(); !ok || yv < -1 {
		return env
	}
	cur, hasCur := currentInt(env, name)
	var good, bad PositionSet
	if hasCur {
		good, bad = cur.Good, cur.Bad
	}
	return env.Bind(name, SymOfValue(Int(true, good, bad)))
}

// idName reports whether s is a bare Id leaf, and if so, its name — only
// a variable can be narrowed by refinement, per this project's rules,
// which are all stated in terms of "for x = Id x".
func idName(s *Sym) (ident.ID, bool) {
	if s != nil && s.Op == SymId {
		return s.Name, true
	}
	return 0, false
}

// currentInt evaluates name's current binding to its IntV form, if any.
func currentInt(env *Env, name ident.ID) (Value, bool) {
	bound := env.Lookup(name)
	if bound == nil {
		return Value{}, false
	}
	return Eval(env, bound).AsInt()
}

func yIsNonNegative(env *Env, y *Sym) bool {
	v := Eval(env, y)
	if n, ok := v.AsConst(); ok {
		return n >= 0
	}
	if iv, ok := v.AsInt(); ok {
		return iv.NonNeg
	}
	return false
}
