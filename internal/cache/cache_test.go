package cache

import (
	"testing"

	"boundcheck/internal/checkast"
	"boundcheck/internal/diag"
	"boundcheck/internal/ident"
	"boundcheck/internal/source"
)

func sp(n uint32) source.Span { return source.Span{File: 1, Start: n, End: n + 1} }

func simpleModule(idents *ident.Table, path string, resultName string) *checkast.Module {
	f := idents.Intern("f")
	x := idents.Intern("x")
	return &checkast.Module{
		Path: path,
		Defs: []checkast.Def{{
			Sp:   sp(0),
			Name: f,
			Vis:  checkast.Public,
			Params: []checkast.Param{
				{Pattern: &checkast.PVar{Sp: sp(1), Name: x}, Type: &checkast.TCon{Sp: sp(2), Name: idents.Intern("int"), Prim: true}},
			},
			ResultType: []checkast.TypeExpr{&checkast.TCon{Sp: sp(3), Name: idents.Intern(resultName), Prim: true}},
			Body:       &checkast.Eid{Sp: sp(4), Name: x},
		}},
	}
}

func TestDigestModuleStableAcrossIdenticalContent(t *testing.T) {
	i1 := ident.NewTable()
	i2 := ident.NewTable()
	m1 := simpleModule(i1, "a.sg", "int")
	m2 := simpleModule(i2, "a.sg", "int")

	if DigestModule(m1) != DigestModule(m2) {
		t.Fatalf("expected identical modules built from fresh tables to digest identically")
	}
}

func TestDigestModuleSensitiveToContent(t *testing.T) {
	i1 := ident.NewTable()
	i2 := ident.NewTable()
	m1 := simpleModule(i1, "a.sg", "int")
	m2 := simpleModule(i2, "a.sg", "bool")

	if DigestModule(m1) == DigestModule(m2) {
		t.Fatalf("expected differing result types to change the digest")
	}
}

func TestDiskCacheMissWhenEmpty(t *testing.T) {
	c := &DiskCache{dir: t.TempDir()}
	idents := ident.NewTable()
	m := simpleModule(idents, "a.sg", "int")

	if _, hit := c.Lookup(m); hit {
		t.Fatalf("expected a miss against an empty cache")
	}
}

func TestDiskCacheRoundTripsDiagnostics(t *testing.T) {
	c := &DiskCache{dir: t.TempDir()}
	idents := ident.NewTable()
	m := simpleModule(idents, "a.sg", "int")

	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.BoundNeg,
		Message:  "index may be negative",
		Primary:  sp(4),
		Notes:    []diag.Note{{Span: sp(5), Msg: "here"}},
		Fixes: []diag.Fix{{
			Title: "clamp to zero",
			Edits: []diag.FixEdit{{Span: sp(4), NewText: "0"}},
		}},
	})

	c.Store(m, bag)

	got, hit := c.Lookup(m)
	if !hit {
		t.Fatalf("expected a hit after Store")
	}
	if got.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", got.Len())
	}
	d := got.Items()[0]
	if d.Severity != diag.SevError || d.Code != diag.BoundNeg || d.Message != "index may be negative" {
		t.Fatalf("unexpected diagnostic after round-trip: %+v", d)
	}
	if d.Primary != sp(4) {
		t.Fatalf("expected primary span to round-trip, got %+v", d.Primary)
	}
	if len(d.Notes) != 1 || d.Notes[0].Msg != "here" {
		t.Fatalf("expected note to round-trip, got %+v", d.Notes)
	}
	if len(d.Fixes) != 1 || d.Fixes[0].Title != "clamp to zero" || len(d.Fixes[0].Edits) != 1 {
		t.Fatalf("expected fix to round-trip, got %+v", d.Fixes)
	}
}

func TestDiskCacheMissesOnceContentChanges(t *testing.T) {
	c := &DiskCache{dir: t.TempDir()}
	idents := ident.NewTable()
	m := simpleModule(idents, "a.sg", "int")

	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.BoundNeg, Primary: sp(4)})
	c.Store(m, bag)

	changed := simpleModule(idents, "a.sg", "bool")
	if _, hit := c.Lookup(changed); hit {
		t.Fatalf("expected a miss once the module's content digest changes")
	}
}
