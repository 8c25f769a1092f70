package checkast

import (
	"testing"

	"boundcheck/internal/ident"
	"boundcheck/internal/source"
)

func wsp(n uint32) source.Span { return source.Span{File: 1, Start: n, End: n + 1} }

func buildRoundTripModule(idents *ident.Table) *Module {
	pair := idents.Intern("Pair")
	left := idents.Intern("left")
	right := idents.Intern("right")
	f := idents.Intern("f")
	x := idents.Intern("x")
	arrCtor := idents.Intern("Array")

	decl := Decl{
		Sp:   wsp(0),
		Name: pair,
		Kind: DeclRec,
		Fields: []RecordFieldDecl{
			{Field: left, Type: &TCon{Sp: wsp(1), Name: idents.Intern("int"), Prim: true}},
			{Field: right, Type: &TCon{Sp: wsp(2), Name: idents.Intern("int"), Prim: true}},
		},
	}

	arrType := &TApply{Sp: wsp(3), Ctor: arrCtor, Args: []TypeExpr{&TCon{Sp: wsp(4), Name: idents.Intern("int"), Prim: true}}}

	body := &Eif{
		Sp: wsp(10),
		Cond: &Ebinop{Sp: wsp(11), Op: OpGte, Left: &Eid{Sp: wsp(12), Name: x}, Right: &Evalue{Sp: wsp(13), N: 0}},
		Then: &Eapply{
			Sp:     wsp(14),
			Callee: idents.Intern("aget"),
			Args:   []Expr{&Eid{Sp: wsp(15), Name: x}, &Evalue{Sp: wsp(16), N: 1}},
			ResultTypes: []TypeExpr{&TCon{Sp: wsp(17), Name: idents.Intern("int"), Prim: true}},
		},
		Else: &Eseq{
			Sp:     wsp(18),
			First:  &Euop{Sp: wsp(19), Op: OpNeg, Operand: &Evalue{Sp: wsp(20), N: 1}},
			Second: &Erecord{Sp: wsp(21), Fields: []RecordField{{Field: left, Value: &Evalue{Sp: wsp(22), N: 2}}}},
		},
	}

	def := Def{
		Sp:   wsp(30),
		Name: f,
		Vis:  Public,
		Params: []Param{
			{Pattern: &PVar{Sp: wsp(31), Name: x, Type: arrType}, Type: arrType},
		},
		ResultType: []TypeExpr{&TVar{Sp: wsp(32), Name: idents.Intern("'a")}},
		Body:       body,
	}

	return &Module{Path: "roundtrip.sg", Decls: []Decl{decl}, Defs: []Def{def}}
}

func TestModuleMarshalUnmarshalRoundTrips(t *testing.T) {
	idents := ident.NewTable()
	m := buildRoundTripModule(idents)

	data, err := MarshalModule(m)
	if err != nil {
		t.Fatalf("MarshalModule: %v", err)
	}
	got, err := UnmarshalModule(data)
	if err != nil {
		t.Fatalf("UnmarshalModule: %v", err)
	}

	if got.Path != m.Path {
		t.Fatalf("expected path %q, got %q", m.Path, got.Path)
	}
	if len(got.Decls) != 1 || len(got.Defs) != 1 {
		t.Fatalf("expected 1 decl and 1 def, got %d decls, %d defs", len(got.Decls), len(got.Defs))
	}

	gotDef := got.Defs[0]
	if gotDef.Name != m.Defs[0].Name || gotDef.Vis != Public {
		t.Fatalf("unexpected def after round-trip: %+v", gotDef)
	}
	eif, ok := gotDef.Body.(*Eif)
	if !ok {
		t.Fatalf("expected Eif body, got %T", gotDef.Body)
	}
	cond, ok := eif.Cond.(*Ebinop)
	if !ok || cond.Op != OpGte {
		t.Fatalf("expected Ebinop(Gte) cond, got %+v", eif.Cond)
	}
	then, ok := eif.Then.(*Eapply)
	if !ok || len(then.Args) != 2 {
		t.Fatalf("expected Eapply with 2 args, got %+v", eif.Then)
	}
	els, ok := eif.Else.(*Eseq)
	if !ok {
		t.Fatalf("expected Eseq else branch, got %T", eif.Else)
	}
	if _, ok := els.First.(*Euop); !ok {
		t.Fatalf("expected Euop first, got %T", els.First)
	}
	rec, ok := els.Second.(*Erecord)
	if !ok || len(rec.Fields) != 1 {
		t.Fatalf("expected Erecord with 1 field, got %+v", els.Second)
	}

	gotDecl := got.Decls[0]
	if gotDecl.Kind != DeclRec || len(gotDecl.Fields) != 2 {
		t.Fatalf("unexpected decl after round-trip: %+v", gotDecl)
	}

	param := gotDef.Params[0]
	pvar, ok := param.Pattern.(*PVar)
	if !ok {
		t.Fatalf("expected PVar param pattern, got %T", param.Pattern)
	}
	arrType, ok := pvar.Type.(*TApply)
	if !ok || len(arrType.Args) != 1 {
		t.Fatalf("expected TApply array type on param, got %+v", pvar.Type)
	}
}
