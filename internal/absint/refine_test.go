package absint

import (
	"testing"

	"boundcheck/internal/ident"
)

func TestRefineTrueGteRaisesNonNeg(t *testing.T) {
	i := ident.ID(1)
	env := NewEnv().Bind(i, SymOfValue(Int(false, PositionSet{}, PositionSet{})))

	refined := RefineTrue(env, Gte(Id(i), ConstSym(0)))
	got, ok := Eval(refined, Id(i)).AsInt()
	if !ok || !got.NonNeg {
		t.Fatalf("expected i >= 0 to raise nonneg, got %+v ok=%v", got, ok)
	}
}

func TestRefineTrueLtNarrowsGoodAgainstArrayLength(t *testing.T) {
	p := pos(1)
	i := ident.ID(1)
	a := ident.ID(2)

	env := NewEnv()
	env = env.Bind(a, SymOfValue(Array(NewPositionSet(p), MaxInt)))
	env = env.Bind(i, SymOfValue(Int(true, PositionSet{}, PositionSet{})))

	// i < alength(a) refines i's good set against p, mirroring what
	// Eapply(alength) would have produced for the comparison's right side.
	alen := SymOfValue(Int(true, PositionSet{}, NewPositionSet(p)))
	refined := RefineTrue(env, Lt(Id(i), alen))

	got, ok := Eval(refined, Id(i)).AsInt()
	if !ok || !got.Good.Contains(p) {
		t.Fatalf("expected i < alength(a) to add p to i's good set, got %+v ok=%v", got, ok)
	}
}

func TestRefineFalseInvertsComparison(t *testing.T) {
	i := ident.ID(1)
	env := NewEnv().Bind(i, SymOfValue(Int(false, PositionSet{}, PositionSet{})))

	// not (i < 0) implies i >= 0.
	refined := RefineFalse(env, Lt(Id(i), ConstSym(0)))
	got, ok := Eval(refined, Id(i)).AsInt()
	if !ok || !got.NonNeg {
		t.Fatalf("expected refine_false(i < 0) to raise nonneg, got %+v ok=%v", got, ok)
	}
}

func TestRefineTrueAndChainsBothConjuncts(t *testing.T) {
	p := pos(1)
	i := ident.ID(1)
	env := NewEnv().Bind(i, SymOfValue(Int(false, PositionSet{}, PositionSet{})))

	alen := SymOfValue(Int(true, PositionSet{}, NewPositionSet(p)))
	cond := And(Gte(Id(i), ConstSym(0)), Lt(Id(i), alen))
	refined := RefineTrue(env, cond)

	got, ok := Eval(refined, Id(i)).AsInt()
	if !ok || !got.NonNeg || !got.Good.Contains(p) {
		t.Fatalf("expected And to apply both refinements, got %+v ok=%v", got, ok)
	}
}

func TestRefineOnNonIdentifierIsNoop(t *testing.T) {
	env := NewEnv()
	refined := RefineTrue(env, Lt(ConstSym(1), ConstSym(2)))
	if refined != env {
		t.Fatalf("expected refinement over non-identifier operand to be a no-op")
	}
}
