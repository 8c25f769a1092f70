package boundcheck

import (
	"testing"

	"boundcheck/internal/checkast"
	"boundcheck/internal/diag"
	"boundcheck/internal/ident"
	"boundcheck/internal/registry"
	"boundcheck/internal/source"
)

type collectingReporter struct {
	diags []diag.Diagnostic
}

func (r *collectingReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diags = append(r.diags, diag.Diagnostic{
		Severity: sev, Code: code, Primary: primary, Message: msg, Notes: notes, Fixes: fixes,
	})
}

func sp(n uint32) source.Span { return source.Span{File: 1, Start: n, End: n + 1} }

func hasCode(diags []diag.Diagnostic, code diag.Code) bool {
	for _, d := range diags {
		if d.Code == code {
			return true
		}
	}
	return false
}

func setup() (*ident.Table, *registry.Registry, *collectingReporter, *Driver) {
	idents := ident.NewTable()
	reg := registry.NewDefault(idents)
	rep := &collectingReporter{}
	return idents, reg, rep, New(reg, rep)
}

// arrayParamType builds Array<int> as it would arrive on a public def's
// parameter, so typeToAbstract lifts it to an Array value at def_public
// entry.
func arrayParamType(idents *ident.Table, at uint32) checkast.TypeExpr {
	return &checkast.TApply{
		Sp:   sp(at),
		Ctor: idents.Intern("Array"),
		Args: []checkast.TypeExpr{&checkast.TCon{Sp: sp(at + 1), Name: idents.Intern("int"), Prim: true}},
	}
}

func primIntType(idents *ident.Table, at uint32) checkast.TypeExpr {
	return &checkast.TCon{Sp: sp(at), Name: idents.Intern("int"), Prim: true}
}

func nonPrimType(idents *ident.Table, at uint32) checkast.TypeExpr {
	return &checkast.TCon{Sp: sp(at), Name: idents.Intern("Widget"), Prim: false}
}

func publicModule(idents *ident.Table, arrName, idxName ident.ID, arrType checkast.TypeExpr, body checkast.Expr) *checkast.Module {
	return &checkast.Module{
		Path: "m",
		Defs: []checkast.Def{
			{
				Sp:   sp(1),
				Name: idents.Intern("f"),
				Vis:  checkast.Public,
				Params: []checkast.Param{
					{Pattern: &checkast.PVar{Sp: sp(2), Name: arrName}, Type: arrType},
					{Pattern: &checkast.PVar{Sp: sp(3), Name: idxName}},
				},
				ResultType: nil,
				Body:       body,
			},
		},
	}
}

func aget(idents *ident.Table, at uint32, arr, idx checkast.Expr, elemType checkast.TypeExpr) *checkast.Eapply {
	return &checkast.Eapply{
		Sp:          sp(at),
		Callee:      idents.Intern("aget"),
		Args:        []checkast.Expr{arr, idx},
		ResultTypes: []checkast.TypeExpr{elemType},
	}
}

func amakeExpr(idents *ident.Table, at uint32, size int64) *checkast.Eapply {
	return &checkast.Eapply{
		Sp:     sp(at),
		Callee: idents.Intern("amake"),
		Args:   []checkast.Expr{&checkast.Evalue{Sp: sp(at + 1), N: 0}, &checkast.Evalue{Sp: sp(at + 2), N: size}},
	}
}

func TestBoundConstantOutOfRangeAgainstKnownLength(t *testing.T) {
	idents, _, rep, d := setup()
	elem := idents.Intern("elem")
	sizeParam := idents.Intern("unused")

	body := &checkast.Elet{
		Sp:      sp(13),
		Pattern: &checkast.PVar{Sp: sp(14), Name: elem},
		Value:   amakeExpr(idents, 10, 3),
		Body:    aget(idents, 20, &checkast.Eid{Sp: sp(21), Name: elem}, &checkast.Evalue{Sp: sp(22), N: 5}, primIntType(idents, 23)),
	}
	m := &checkast.Module{
		Path: "m",
		Defs: []checkast.Def{{
			Sp: sp(1), Name: idents.Intern("f"), Vis: checkast.Public,
			Params: []checkast.Param{{Pattern: &checkast.PVar{Sp: sp(2), Name: sizeParam}}},
			Body:   body,
		}},
	}
	d.CheckModule(m)
	if !hasCode(rep.diags, diag.BoundUp) {
		t.Fatalf("expected bound_up for index 5 into a length-3 array, got %+v", rep.diags)
	}
}

func TestBoundConstantSafeAgainstKnownLength(t *testing.T) {
	idents, _, rep, d := setup()
	elem := idents.Intern("elem")
	sizeParam := idents.Intern("unused")

	body := &checkast.Elet{
		Sp:      sp(13),
		Pattern: &checkast.PVar{Sp: sp(14), Name: elem},
		Value:   amakeExpr(idents, 10, 3),
		Body:    aget(idents, 20, &checkast.Eid{Sp: sp(21), Name: elem}, &checkast.Evalue{Sp: sp(22), N: 2}, primIntType(idents, 23)),
	}
	m := &checkast.Module{
		Path: "m",
		Defs: []checkast.Def{{
			Sp: sp(1), Name: idents.Intern("f"), Vis: checkast.Public,
			Params: []checkast.Param{{Pattern: &checkast.PVar{Sp: sp(2), Name: sizeParam}}},
			Body:   body,
		}},
	}
	d.CheckModule(m)
	if hasCode(rep.diags, diag.BoundUp) || hasCode(rep.diags, diag.BoundNeg) {
		t.Fatalf("expected index 2 into a length-3 array to be provably safe, got %+v", rep.diags)
	}
}

func TestBoundNegativeConstantReported(t *testing.T) {
	idents, _, rep, d := setup()
	arr := idents.Intern("arr")
	idx := idents.Intern("idx")
	arrType := arrayParamType(idents, 5)

	body := aget(idents, 10, &checkast.Eid{Sp: sp(11), Name: arr}, &checkast.Evalue{Sp: sp(12), N: -1}, primIntType(idents, 13))
	d.CheckModule(publicModule(idents, arr, idx, arrType, body))
	if !hasCode(rep.diags, diag.BoundNeg) {
		t.Fatalf("expected bound_neg for a negative constant index, got %+v", rep.diags)
	}
}

func TestBoundUnknownIndexReportsLow(t *testing.T) {
	idents, _, rep, d := setup()
	arr := idents.Intern("arr")
	idx := idents.Intern("idx")
	arrType := arrayParamType(idents, 5)

	// aget(arr, idx) where idx is an untouched Undef parameter: falls
	// through to the "other shapes" branch (bound_low).
	body := aget(idents, 10, &checkast.Eid{Sp: sp(11), Name: arr}, &checkast.Eid{Sp: sp(12), Name: idx}, primIntType(idents, 13))
	d.CheckModule(publicModule(idents, arr, idx, arrType, body))
	if !hasCode(rep.diags, diag.BoundLow) {
		t.Fatalf("expected bound_low for an unrefined index, got %+v", rep.diags)
	}
}

func TestBoundGuardedIndexSuppressesDiagnostic(t *testing.T) {
	idents, _, rep, d := setup()
	arr := idents.Intern("arr")
	idx := idents.Intern("idx")
	arrType := arrayParamType(idents, 5)

	// if idx >= 0 && idx < alength(arr) then aget(arr, idx) else 0
	lenCall := &checkast.Eapply{
		Sp:     sp(20),
		Callee: idents.Intern("alength"),
		Args:   []checkast.Expr{&checkast.Eid{Sp: sp(21), Name: arr}},
	}
	cond := &checkast.Ebinop{
		Sp: sp(22), Op: checkast.OpAnd,
		Left:  &checkast.Ebinop{Sp: sp(23), Op: checkast.OpGte, Left: &checkast.Eid{Sp: sp(24), Name: idx}, Right: &checkast.Evalue{Sp: sp(25), N: 0}},
		Right: &checkast.Ebinop{Sp: sp(26), Op: checkast.OpLt, Left: &checkast.Eid{Sp: sp(27), Name: idx}, Right: lenCall},
	}
	body := &checkast.Eif{
		Sp:   sp(28),
		Cond: cond,
		Then: aget(idents, 29, &checkast.Eid{Sp: sp(30), Name: arr}, &checkast.Eid{Sp: sp(31), Name: idx}, primIntType(idents, 32)),
		Else: &checkast.Evalue{Sp: sp(33), N: 0},
	}
	d.CheckModule(publicModule(idents, arr, idx, arrType, body))
	if hasCode(rep.diags, diag.BoundLow) || hasCode(rep.diags, diag.BoundUp) {
		t.Fatalf("expected no bound diagnostic once idx is guarded by 0 <= idx < alength(arr), got %+v", rep.diags)
	}
}

func TestBoundMidpointDivisionStaysGuarded(t *testing.T) {
	idents, _, rep, d := setup()
	arr := idents.Intern("arr")
	idx := idents.Intern("idx")
	lo := idents.Intern("lo")
	hi := idents.Intern("hi")
	arrType := arrayParamType(idents, 5)

	// lo and hi are both already known-good indices (0 <= lo < len,
	// 0 <= hi < len); mid = (lo + hi) / 2 must stay guarded per the
	// Div(Plus(x,y), Const 2) special rule.
	lenCall := func(at uint32) *checkast.Eapply {
		return &checkast.Eapply{Sp: sp(at), Callee: idents.Intern("alength"), Args: []checkast.Expr{&checkast.Eid{Sp: sp(at + 1), Name: arr}}}
	}
	guard := func(name ident.ID, at uint32) *checkast.Ebinop {
		return &checkast.Ebinop{
			Sp: sp(at), Op: checkast.OpAnd,
			Left:  &checkast.Ebinop{Sp: sp(at + 1), Op: checkast.OpGte, Left: &checkast.Eid{Sp: sp(at + 2), Name: name}, Right: &checkast.Evalue{Sp: sp(at + 3), N: 0}},
			Right: &checkast.Ebinop{Sp: sp(at + 4), Op: checkast.OpLt, Left: &checkast.Eid{Sp: sp(at + 5), Name: name}, Right: lenCall(at + 6)},
		}
	}

	mid := &checkast.Ebinop{
		Sp: sp(50), Op: checkast.OpDiv,
		Left:  &checkast.Ebinop{Sp: sp(51), Op: checkast.OpPlus, Left: &checkast.Eid{Sp: sp(52), Name: lo}, Right: &checkast.Eid{Sp: sp(53), Name: hi}},
		Right: &checkast.Evalue{Sp: sp(54), N: 2},
	}
	access := &checkast.Elet{
		Sp:      sp(55),
		Pattern: &checkast.PVar{Sp: sp(56), Name: idx},
		Value:   mid,
		Body:    aget(idents, 57, &checkast.Eid{Sp: sp(58), Name: arr}, &checkast.Eid{Sp: sp(59), Name: idx}, primIntType(idents, 60)),
	}
	body := &checkast.Eif{
		Sp:   sp(61),
		Cond: guard(lo, 70),
		Then: &checkast.Eif{
			Sp:   sp(80),
			Cond: guard(hi, 90),
			Then: access,
			Else: &checkast.Evalue{Sp: sp(100), N: 0},
		},
		Else: &checkast.Evalue{Sp: sp(101), N: 0},
	}

	m := &checkast.Module{
		Path: "m",
		Defs: []checkast.Def{
			{
				Sp:   sp(1),
				Name: idents.Intern("f"),
				Vis:  checkast.Public,
				Params: []checkast.Param{
					{Pattern: &checkast.PVar{Sp: sp(2), Name: arr}, Type: arrType},
					{Pattern: &checkast.PVar{Sp: sp(3), Name: lo}},
					{Pattern: &checkast.PVar{Sp: sp(4), Name: hi}},
				},
				Body: body,
			},
		},
	}
	d.CheckModule(m)
	if hasCode(rep.diags, diag.BoundLow) || hasCode(rep.diags, diag.BoundUp) {
		t.Fatalf("expected the midpoint (lo+hi)/2 to stay within both guards' good sets, got %+v", rep.diags)
	}
}

func TestBoundExpectedPrimArrayOnNonPrimitiveElement(t *testing.T) {
	idents, _, rep, d := setup()
	arr := idents.Intern("arr")
	idx := idents.Intern("idx")
	arrType := arrayParamType(idents, 5)

	body := aget(idents, 10, &checkast.Eid{Sp: sp(11), Name: arr}, &checkast.Evalue{Sp: sp(12), N: 0}, nonPrimType(idents, 13))
	d.CheckModule(publicModule(idents, arr, idx, arrType, body))
	if !hasCode(rep.diags, diag.BoundExpectedPrimArray) {
		t.Fatalf("expected expected_prim_array for a non-primitive element type, got %+v", rep.diags)
	}
}

func TestBoundAssertNarrowsSubsequentAccess(t *testing.T) {
	idents, _, rep, d := setup()
	arr := idents.Intern("arr")
	idx := idents.Intern("idx")
	arrType := arrayParamType(idents, 5)

	lenCall := &checkast.Eapply{Sp: sp(20), Callee: idents.Intern("alength"), Args: []checkast.Expr{&checkast.Eid{Sp: sp(21), Name: arr}}}
	cond := &checkast.Ebinop{
		Sp: sp(22), Op: checkast.OpAnd,
		Left:  &checkast.Ebinop{Sp: sp(23), Op: checkast.OpGte, Left: &checkast.Eid{Sp: sp(24), Name: idx}, Right: &checkast.Evalue{Sp: sp(25), N: 0}},
		Right: &checkast.Ebinop{Sp: sp(26), Op: checkast.OpLt, Left: &checkast.Eid{Sp: sp(27), Name: idx}, Right: lenCall},
	}
	assertCall := &checkast.Eapply{
		Sp:     sp(28),
		Callee: idents.Intern("assert"),
		Args:   []checkast.Expr{cond},
	}
	body := &checkast.Eseq{
		Sp:     sp(29),
		First:  assertCall,
		Second: aget(idents, 30, &checkast.Eid{Sp: sp(31), Name: arr}, &checkast.Eid{Sp: sp(32), Name: idx}, primIntType(idents, 33)),
	}
	d.CheckModule(publicModule(idents, arr, idx, arrType, body))
	if hasCode(rep.diags, diag.BoundLow) || hasCode(rep.diags, diag.BoundUp) {
		t.Fatalf("expected assert(0 <= idx < alength(arr)) to guard the following aget, got %+v", rep.diags)
	}
}

func TestBoundAmakeProducesSafeIndexZero(t *testing.T) {
	idents, _, rep, d := setup()
	sizeParam := idents.Intern("size")
	elem := idents.Intern("newArr")

	amakeCall := &checkast.Eapply{
		Sp:     sp(10),
		Callee: idents.Intern("amake"),
		Args:   []checkast.Expr{&checkast.Evalue{Sp: sp(11), N: 0}, &checkast.Eid{Sp: sp(12), Name: sizeParam}},
	}
	body := &checkast.Elet{
		Sp:      sp(13),
		Pattern: &checkast.PVar{Sp: sp(14), Name: elem},
		Value:   amakeCall,
		Body:    aget(idents, 15, &checkast.Eid{Sp: sp(16), Name: elem}, &checkast.Evalue{Sp: sp(17), N: 0}, primIntType(idents, 18)),
	}

	m := &checkast.Module{
		Path: "m",
		Defs: []checkast.Def{
			{
				Sp:   sp(1),
				Name: idents.Intern("f"),
				Vis:  checkast.Public,
				Params: []checkast.Param{
					{Pattern: &checkast.PVar{Sp: sp(2), Name: sizeParam}},
				},
				Body: body,
			},
		},
	}
	d.CheckModule(m)
	if hasCode(rep.diags, diag.BoundUp) {
		t.Fatalf("index 0 into a freshly amake'd array should never be provably too large, got %+v", rep.diags)
	}
}

func TestBoundPrivateCallMemoizesIdenticalArguments(t *testing.T) {
	idents, _, rep, d := setup()
	arr := idents.Intern("arr")
	x := idents.Intern("x")
	get0 := idents.Intern("get0")

	// A negative constant index is unconditionally bound_neg, regardless
	// of the array's shape — isolates memoization (body analyzed once)
	// from the const-to-interval lifting exercised by other tests.
	privateBody := aget(idents, 20, &checkast.Eid{Sp: sp(21), Name: arr}, &checkast.Evalue{Sp: sp(22), N: -1}, primIntType(idents, 23))
	callTwice := &checkast.Eseq{
		Sp: sp(30),
		First: &checkast.Eapply{
			Sp:     sp(31),
			Callee: get0,
			Args:   []checkast.Expr{&checkast.Eid{Sp: sp(32), Name: x}},
		},
		Second: &checkast.Eapply{
			Sp:     sp(33),
			Callee: get0,
			Args:   []checkast.Expr{&checkast.Eid{Sp: sp(34), Name: x}},
		},
	}

	m := &checkast.Module{
		Path: "m",
		Defs: []checkast.Def{
			{
				Sp:   sp(1),
				Name: get0,
				Vis:  checkast.Private,
				Params: []checkast.Param{
					{Pattern: &checkast.PVar{Sp: sp(2), Name: arr}},
				},
				Body: privateBody,
			},
			{
				Sp:   sp(3),
				Name: idents.Intern("f"),
				Vis:  checkast.Public,
				Params: []checkast.Param{
					{Pattern: &checkast.PVar{Sp: sp(4), Name: x}, Type: arrayParamType(idents, 5)},
				},
				Body: callTwice,
			},
		},
	}
	d.CheckModule(m)

	count := 0
	for _, dg := range rep.diags {
		if dg.Code == diag.BoundNeg {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one bound_neg from the memoized private body (analyzed once, reused on the second call with identical arguments), got %d: %+v", count, rep.diags)
	}
}
