package boundcheck

import (
	"boundcheck/internal/absint"
	"boundcheck/internal/checkast"
	"boundcheck/internal/ident"
)

// interpretExpr is the bound checker's expression interpretation
//: returns the environment as extended by e's evaluation,
// and e's result list (a symbolic expression per component, since tuples
// are first-class).
func (in *interpreter) interpretExpr(env *absint.Env, e checkast.Expr) (*absint.Env, []*absint.Sym) {
	switch expr := e.(type) {

	case *checkast.Eid:
		if _, isPrivate := in.privates[expr.Name]; isPrivate {
			in.forcePublicCheckOfPrivate(expr.Name)
			return env, []*absint.Sym{absint.SymOfValue(absint.UndefV)}
		}
		return env, []*absint.Sym{absint.Id(expr.Name)}

	case *checkast.Eobs:
		return env, []*absint.Sym{absint.Id(expr.Name)}

	case *checkast.Evalue:
		return env, []*absint.Sym{absint.ConstSym(expr.N)}

	case *checkast.Evariant:
		values := make([]absint.Value, len(expr.Payload))
		for i, p := range expr.Payload {
			var results []*absint.Sym
			env, results = in.interpretExpr(env, p)
			values[i] = evalOne(env, results)
		}
		sum := absint.Sum(map[ident.ID][]absint.Value{expr.Tag: values})
		return env, []*absint.Sym{absint.SymOfValue(sum)}

	case *checkast.Erecord:
		fields := make(map[ident.ID][]absint.Value, len(expr.Fields))
		for _, f := range expr.Fields {
			var results []*absint.Sym
			env, results = in.interpretExpr(env, f.Value)
			fields[f.Field] = evalResults(env, results)
		}
		return env, []*absint.Sym{absint.SymOfValue(absint.Rec(fields))}

	case *checkast.Ewith:
		var baseResults []*absint.Sym
		env, baseResults = in.interpretExpr(env, expr.Base)
		baseVal := evalOne(env, baseResults)

		fields := map[ident.ID][]absint.Value{}
		if baseVal.Kind == absint.RecV {
			for k, v := range baseVal.Rec {
				fields[k] = v
			}
		}
		for _, f := range expr.Fields {
			var results []*absint.Sym
			env, results = in.interpretExpr(env, f.Value)
			fields[f.Field] = evalResults(env, results)
		}
		return env, []*absint.Sym{absint.SymOfValue(absint.Rec(fields))}

	case *checkast.Efield:
		var baseResults []*absint.Sym
		env, baseResults = in.interpretExpr(env, expr.Base)
		baseVal := evalOne(env, baseResults)
		if baseVal.Kind == absint.RecV {
			if vs, ok := baseVal.Rec[expr.Field]; ok {
				return env, toSyms(vs)
			}
		}
		return env, []*absint.Sym{absint.SymOfValue(absint.UndefV)}

	case *checkast.Ebinop:
		var lres, rres []*absint.Sym
		env, lres = in.interpretExpr(env, expr.Left)
		env, rres = in.interpretExpr(env, expr.Right)
		l, r := joinSingle(lres), joinSingle(rres)
		return env, []*absint.Sym{buildBinopSym(expr.Op, l, r)}

	case *checkast.Euop:
		var ores []*absint.Sym
		env, ores = in.interpretExpr(env, expr.Operand)
		o := joinSingle(ores)
		if expr.Op == checkast.OpNeg {
			return env, []*absint.Sym{absint.Neg(o)}
		}
		return env, []*absint.Sym{absint.Not(o)}

	case *checkast.Elet:
		var valResults []*absint.Sym
		env, valResults = in.interpretExpr(env, expr.Value)
		env = in.bindPatternToResults(env, expr.Pattern, valResults)
		return in.interpretExpr(env, expr.Body)

	case *checkast.Eif:
		var condResults []*absint.Sym
		env, condResults = in.interpretExpr(env, expr.Cond)
		cond := joinSingle(condResults)

		thenEnv := absint.RefineTrue(env, cond)
		thenEnv, thenResults := in.interpretExpr(thenEnv, expr.Then)

		elseEnv := absint.RefineFalse(env, cond)
		elseEnv, elseResults := in.interpretExpr(elseEnv, expr.Else)

		joined := absint.UnifyList(evalResults(thenEnv, thenResults), evalResults(elseEnv, elseResults))
		return env, toSyms(joined)

	case *checkast.Ematch:
		var scrutResults []*absint.Sym
		env, scrutResults = in.interpretExpr(env, expr.Scrutinee)

		var joined []absint.Value
		for i, arm := range expr.Arms {
			armEnv := in.bindPatternToResults(env, arm.Pattern, scrutResults)
			armEnv, armResults := in.interpretExpr(armEnv, arm.Body)
			vals := evalResults(armEnv, armResults)
			if i == 0 {
				joined = vals
			} else {
				joined = absint.UnifyList(joined, vals)
			}
		}
		if joined == nil {
			// assert false: a match with no arms is an internal
			// invariant breach — the
			// producer guarantees at least one arm.
			panic("boundcheck: match with no arms")
		}
		return env, toSyms(joined)

	case *checkast.Eseq:
		env, _ = in.interpretExpr(env, expr.First)
		return in.interpretExpr(env, expr.Second)

	case *checkast.Eapply:
		return in.interpretApply(env, expr)

	default:
		// assert false: checkast.Expr is a closed set; the producer never
		// hands the interpreter a shape outside it.
		panic("boundcheck: unhandled expression shape")
	}
}

// joinSingle takes the first symbolic result, the shape every
// single-valued sub-expression (conditions, binop operands, record base)
// is expected to produce. An empty list is an internal invariant breach.
func joinSingle(results []*absint.Sym) *absint.Sym {
	if len(results) == 0 {
		panic("boundcheck: expected a single-valued expression result")
	}
	return results[0]
}

func evalOne(env *absint.Env, results []*absint.Sym) absint.Value {
	return absint.Eval(env, joinSingle(results))
}

func buildBinopSym(op checkast.BinOp, l, r *absint.Sym) *absint.Sym {
	switch op {
	case checkast.OpPlus:
		return absint.Plus(l, r)
	case checkast.OpMinus:
		return absint.Minus(l, r)
	case checkast.OpMult:
		return absint.Mult(l, r)
	case checkast.OpDiv:
		return absint.Div(l, r)
	case checkast.OpLt:
		return absint.Lt(l, r)
	case checkast.OpLte:
		return absint.Lte(l, r)
	case checkast.OpGt:
		return absint.Gt(l, r)
	case checkast.OpGte:
		return absint.Gte(l, r)
	case checkast.OpAnd:
		return absint.And(l, r)
	case checkast.OpOr:
		return absint.Or(l, r)
	default:
		return absint.SymOfValue(absint.UndefV)
	}
}
