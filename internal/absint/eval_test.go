package absint

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"boundcheck/internal/ident"
)

var posSetComparer = cmp.Comparer(func(a, b PositionSet) bool { return a.Equal(b) })

func cmpValue(t *testing.T, got, want Value, msg string) {
	t.Helper()
	if diff := cmp.Diff(want, got, posSetComparer); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", msg, diff)
	}
}

func TestEvalConstantFolding(t *testing.T) {
	env := NewEnv()
	got := Eval(env, Plus(ConstSym(2), ConstSym(3)))
	cmpValue(t, got, Const(5), "2+3")
}

func TestEvalMultConstantFoldingIsMultiplicationNotAddition(t *testing.T) {
	// Constant folding for Mult must actually multiply, not add.
	env := NewEnv()
	got := Eval(env, Mult(ConstSym(4), ConstSym(5)))
	cmpValue(t, got, Const(20), "4*5")
}

func TestEvalMinusIsPlusOfNegatedConst(t *testing.T) {
	env := NewEnv()
	got := Eval(env, Minus(ConstSym(10), ConstSym(3)))
	cmpValue(t, got, Const(7), "10-3")
}

func TestEvalDivByZeroIsUndef(t *testing.T) {
	env := NewEnv()
	got := Eval(env, Div(ConstSym(10), ConstSym(0)))
	if !got.IsUndef() {
		t.Fatalf("expected divide-by-zero to be Undef, got %+v", got)
	}
}

func TestEvalIdDereferencesThroughEnv(t *testing.T) {
	x := ident.ID(1)
	env := NewEnv().Bind(x, ConstSym(42))
	got := Eval(env, Id(x))
	cmpValue(t, got, Const(42), "Id x")
}

func TestEvalIdUnboundIsUndef(t *testing.T) {
	env := NewEnv()
	got := Eval(env, Id(ident.ID(99)))
	if !got.IsUndef() {
		t.Fatalf("expected unbound Id to be Undef, got %+v", got)
	}
}

func TestEvalIdCycleGuardTerminates(t *testing.T) {
	x := ident.ID(1)
	y := ident.ID(2)
	env := NewEnv()
	env = env.Bind(x, Id(y))
	env = env.Bind(y, Id(x))
	got := Eval(env, Id(x))
	if !got.IsUndef() {
		t.Fatalf("expected cyclic binding to resolve to Undef, got %+v", got)
	}
}

func TestEvalDivPlusConstSpecialRule(t *testing.T) {
	// (lo + hi) / 2 where lo, hi are both known strictly below the same
	// array length p (S5's midpoint scenario).
	p := pos(1)
	lo := ident.ID(1)
	hi := ident.ID(2)
	goodSet := NewPositionSet(p)

	env := NewEnv()
	env = env.Bind(lo, SymOfValue(Int(true, goodSet, PositionSet{})))
	env = env.Bind(hi, SymOfValue(Int(true, goodSet, PositionSet{})))

	mid := Div(Plus(Id(lo), Id(hi)), ConstSym(2))
	got := Eval(env, mid)

	want, ok := got.AsInt()
	if !ok {
		t.Fatalf("expected midpoint to reduce to an Int, got %+v", got)
	}
	if !want.NonNeg || !want.Good.Contains(p) {
		t.Fatalf("expected midpoint to be nonneg and strictly below %v, got %+v", p, want)
	}
}

func TestEvalComparisonReturnsUndef(t *testing.T) {
	env := NewEnv()
	got := Eval(env, Lt(ConstSym(1), ConstSym(2)))
	if !got.IsUndef() {
		t.Fatalf("expected comparison under eval to be Undef, got %+v", got)
	}
}
