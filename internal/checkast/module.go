package checkast

import (
	"boundcheck/internal/ident"
	"boundcheck/internal/source"
)

// Visibility distinguishes the public/private def partition this project's
// bound checker driver splits on: public defs seed the whole-program
// analysis (their parameters get type_to_abstract'd from declared array
// types), private defs are analyzed on demand and memoized per callee and
// abstract argument list.
type Visibility uint8

const (
	Private Visibility = iota
	Public
)

// Param is one formal parameter of a Def: a pattern paired with its
// declared type, mirroring this project's per-parameter type list used by
// both the normalizer's observability walk and type_to_abstract.
type Param struct {
	Pattern Pattern
	Type    TypeExpr
}

// Def is one top-level function definition.
type Def struct {
	Sp         source.Span
	Name       ident.ID
	Vis        Visibility
	Params     []Param
	ResultType []TypeExpr
	Body       Expr
}

// VariantCase is one constructor case of a Decl's sum type.
type VariantCase struct {
	Tag     ident.ID
	Payload []TypeExpr
}

// RecordFieldDecl declares one field of a Decl's record type.
type RecordFieldDecl struct {
	Field ident.ID
	Type  TypeExpr
}

// DeclKind distinguishes the two type-declaration shapes this project's design
// recognizes: Sum and Rec.
type DeclKind uint8

const (
	DeclSum DeclKind = iota
	DeclRec
)

// Decl is a top-level type declaration: either a sum type (tagged variant
// cases) or a record type (named fields). It carries the type parameters
// declared over it so TVar occurrences in its cases/fields resolve.
type Decl struct {
	Sp       source.Span
	Name     ident.ID
	Kind     DeclKind
	TypeArgs []ident.ID
	Cases    []VariantCase      // DeclSum
	Fields   []RecordFieldDecl  // DeclRec
}

// Module is one compilation unit: a set of type declarations and function
// definitions, matching this project's "one module at a time" processing
// unit and §5's "no cross-module sharing of memoization state."
type Module struct {
	Path  string
	Decls []Decl
	Defs  []Def
}

// PublicDefs returns every def in m with Visibility Public, in
// declaration order — the seed set for the bound checker's driver
//.
func (m *Module) PublicDefs() []*Def {
	var out []*Def
	for i := range m.Defs {
		if m.Defs[i].Vis == Public {
			out = append(out, &m.Defs[i])
		}
	}
	return out
}
