package boundcheck

import (
	"boundcheck/internal/absint"
	"boundcheck/internal/checkast"
	"boundcheck/internal/diag"
	"boundcheck/internal/ident"
	"boundcheck/internal/registry"
)

// interpretApply dispatches Eapply(f, args) by f's identity (this project's design
// §4.2 "Eapply(f, args) dispatches by f").
func (in *interpreter) interpretApply(env *absint.Env, expr *checkast.Eapply) (*absint.Env, []*absint.Sym) {
	switch in.reg.PrimitiveOf(expr.Callee) {
	case registry.PrimAssert:
		return in.applyAssert(env, expr)
	case registry.PrimAMake:
		return in.applyAMake(env, expr)
	case registry.PrimALength:
		return in.applyALength(env, expr)
	case registry.PrimAGet:
		return in.applyAGet(env, expr)
	case registry.PrimASet:
		return in.applyASetOrSwap(env, expr, 1)
	case registry.PrimASwap:
		return in.applyASetOrSwap(env, expr, 1)
	default:
		return in.applyCall(env, expr)
	}
}

func (in *interpreter) applyAssert(env *absint.Env, expr *checkast.Eapply) (*absint.Env, []*absint.Sym) {
	if len(expr.Args) != 1 {
		// assert false: the producer guarantees assert's arity.
		panic("boundcheck: assert expects exactly one argument")
	}
	var argResults []*absint.Sym
	env, argResults = in.interpretExpr(env, expr.Args[0])
	cond := joinSingle(argResults)
	env = absint.RefineTrue(env, cond)
	return env, nil
}

// applyAMake implements this project's amake(init, size): sz =
// const_size(size); push (sz, {p}) onto env.arrays; if size names an
// identifier, join p into its bad set (or seed it with Int(false, ∅,
// {p}) if unbound); yield [Array({p}, sz)].
func (in *interpreter) applyAMake(env *absint.Env, expr *checkast.Eapply) (*absint.Env, []*absint.Sym) {
	if len(expr.Args) != 2 {
		// assert false: the producer guarantees amake's arity.
		panic("boundcheck: amake expects exactly two arguments")
	}
	var initResults, sizeResults []*absint.Sym
	env, initResults = in.interpretExpr(env, expr.Args[0])
	_ = initResults
	env, sizeResults = in.interpretExpr(env, expr.Args[1])

	sizeSym := joinSingle(sizeResults)
	sizeVal := absint.Eval(env, sizeSym)
	sz := absint.MaxInt
	if n, ok := sizeVal.AsConst(); ok {
		sz = n
	}

	p := expr.Sp
	env = env.PushArray(absint.ArrayRecord{Len: sz, Positions: absint.NewPositionSet(p)})

	if sizeID, ok := expr.Args[1].(*checkast.Eid); ok {
		cur, hasCur := currentIntBinding(env, sizeID.Name)
		var nonneg bool
		var good, bad absint.PositionSet
		if hasCur {
			nonneg, good, bad = cur.NonNeg, cur.Good, cur.Bad
		}
		bad = bad.Add(p)
		env = env.Bind(sizeID.Name, absint.SymOfValue(absint.Int(nonneg, good, bad)))
	}

	return env, []*absint.Sym{absint.SymOfValue(absint.Array(absint.NewPositionSet(p), sz))}
}

func currentIntBinding(env *absint.Env, name ident.ID) (absint.Value, bool) {
	bound := env.Lookup(name)
	if bound == nil {
		return absint.Value{}, false
	}
	return absint.Eval(env, bound).AsInt()
}

func (in *interpreter) applyALength(env *absint.Env, expr *checkast.Eapply) (*absint.Env, []*absint.Sym) {
	if len(expr.Args) != 1 {
		// assert false: the producer guarantees alength's arity.
		panic("boundcheck: alength expects exactly one argument")
	}
	var argResults []*absint.Sym
	env, argResults = in.interpretExpr(env, expr.Args[0])
	arrVal := evalOne(env, argResults)
	if arrVal.Kind == absint.ArrayV {
		return env, []*absint.Sym{absint.SymOfValue(absint.Int(true, absint.PositionSet{}, arrVal.Positions))}
	}
	return env, []*absint.Sym{absint.SymOfValue(absint.UndefV)}
}

func (in *interpreter) applyAGet(env *absint.Env, expr *checkast.Eapply) (*absint.Env, []*absint.Sym) {
	if len(expr.Args) != 2 {
		// assert false: the producer guarantees aget's arity.
		panic("boundcheck: aget expects exactly two arguments")
	}
	if !arrayElemPrim(expr.ResultTypes, 0) {
		diag.ReportError(in.rep, diag.BoundExpectedPrimArray, expr.Sp, "aget requires an array of a primitive element type").Emit()
	}
	var arrResults, idxResults []*absint.Sym
	env, arrResults = in.interpretExpr(env, expr.Args[0])
	env, idxResults = in.interpretExpr(env, expr.Args[1])
	arrVal := evalOne(env, arrResults)
	idxVal := evalOne(env, idxResults)
	checkBound(in.rep, expr.Sp, arrVal, idxVal)
	return env, []*absint.Sym{absint.SymOfValue(absint.UndefV)}
}

// applyASetOrSwap implements both aset and aswap: same bound check, same
// result shape [Value(eval arr); Undef]. elemIndex names
// where the element type sits in Eapply.ResultTypes (see doc.go).
func (in *interpreter) applyASetOrSwap(env *absint.Env, expr *checkast.Eapply, elemIndex int) (*absint.Env, []*absint.Sym) {
	if len(expr.Args) != 3 {
		// assert false: the producer guarantees aset/aswap's arity.
		panic("boundcheck: aset/aswap expects exactly three arguments")
	}
	if !arrayElemPrim(expr.ResultTypes, elemIndex) {
		diag.ReportError(in.rep, diag.BoundExpectedPrimArray, expr.Sp, "aset/aswap requires an array of a primitive element type").Emit()
	}
	var arrResults, idxResults, valResults []*absint.Sym
	env, arrResults = in.interpretExpr(env, expr.Args[0])
	env, idxResults = in.interpretExpr(env, expr.Args[1])
	env, valResults = in.interpretExpr(env, expr.Args[2])
	_ = valResults
	arrVal := evalOne(env, arrResults)
	idxVal := evalOne(env, idxResults)
	checkBound(in.rep, expr.Sp, arrVal, idxVal)
	return env, []*absint.Sym{absint.SymOfValue(arrVal), absint.SymOfValue(absint.UndefV)}
}

// applyCall handles every non-primitive Eapply: a private callee enters
// the memoization protocol; a public or external callee yields Undef
// placeholders.
func (in *interpreter) applyCall(env *absint.Env, expr *checkast.Eapply) (*absint.Env, []*absint.Sym) {
	def, isPrivate := in.privates[expr.Callee]
	if !isPrivate {
		arity := len(expr.ResultTypes)
		if arity == 0 {
			arity = 1
		}
		placeholders := make([]*absint.Sym, arity)
		for i := range placeholders {
			placeholders[i] = absint.SymOfValue(absint.UndefV)
		}
		for _, a := range expr.Args {
			env, _ = in.interpretExpr(env, a)
		}
		return env, placeholders
	}

	args := make([]absint.Value, len(expr.Args))
	for i, a := range expr.Args {
		var results []*absint.Sym
		env, results = in.interpretExpr(env, a)
		v := evalOne(env, results)
		if n, ok := v.AsConst(); ok {
			v = absint.ConstToInterval(env, n)
		}
		args[i] = v
	}

	results := in.enterMemoized(def, args)
	return env, toSyms(results)
}

// enterMemoized implements this project's "Memoization" and "State
// machine of a call": look up (callee_id, args); if present, return it;
// otherwise store an Undef placeholder (Entered), interpret the body, and
// overwrite the placeholder with the real result (Settled).
func (in *interpreter) enterMemoized(def *checkast.Def, args []absint.Value) []absint.Value {
	key := memoKey(def.Name, args)
	if entry, ok := in.memo.entries[key]; ok {
		return entry.results
	}

	placeholder := make([]absint.Value, len(def.ResultType))
	for i := range placeholder {
		placeholder[i] = absint.UndefV
	}
	in.memo.entries[key] = &memoEntry{state: stateEntered, results: placeholder}

	env := absint.NewEnv()
	for i, p := range def.Params {
		if i < len(args) {
			env = in.bindPattern(env, p.Pattern, args[i])
		}
	}
	_, bodyResults := in.interpretExpr(env, def.Body)
	final := evalResults(env, bodyResults)

	in.memo.entries[key] = &memoEntry{state: stateSettled, results: final}
	return final
}
