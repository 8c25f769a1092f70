// Package checkast is the stripped-typed AST shape this project analyzes:
// the fixed set of type expressions, patterns, and expressions the
// normalizer rewrites and the bound checker interprets. It plays a role
// analogous to a compiler's own internal AST package, but the shapes are
// algebraic value types rather than surface syntax — this project takes the
// typed AST producer as an external collaborator and never parses source
// text into this shape itself.
//
// Every node carries a source.Span, so every node has a source position to
// report diagnostics against.
package checkast

import (
	"boundcheck/internal/ident"
	"boundcheck/internal/source"
)

// TypeExpr is a type expression as it appears on a binding, pattern,
// variant payload, record field, or declaration.
type TypeExpr interface {
	Span() source.Span
	isTypeExpr()
}

// TCon is a nullary type constructor: a base or nominal type name such as
// "int" or a user record/variant type with no arguments. Prim marks it as
// primitive for this project's "primitive type" checks (poly_is_not_prim,
// expected_prim_array); it is set by the typed AST producer, not inferred
// here, since primitiveness is a property of the source type system this
// project does not implement.
type TCon struct {
	Sp   source.Span
	Name ident.ID
	Prim bool
}

func (t *TCon) Span() source.Span { return t.Sp }
func (*TCon) isTypeExpr()         {}

// TVar is a type variable (a generic/polymorphic parameter reference).
type TVar struct {
	Sp   source.Span
	Name ident.ID
}

func (t *TVar) Span() source.Span { return t.Sp }
func (*TVar) isTypeExpr()         {}

// TAny is the type inferencer's "unconstrainable" placeholder. Its presence
// in a call's result type list is what normalize's termination check flags
// as infinite_loop.
type TAny struct {
	Sp source.Span
}

func (t *TAny) Span() source.Span { return t.Sp }
func (*TAny) isTypeExpr()         {}

// TApply is Tapply(c, args): an application of a type constructor to type
// arguments. Registry recognizes two constructors specially: the observed
// type constructor (subject to the observability check) and the array type
// constructor (interpreted by type_to_abstract at public-function entry).
type TApply struct {
	Sp   source.Span
	Ctor ident.ID
	Args []TypeExpr
}

func (t *TApply) Span() source.Span { return t.Sp }
func (*TApply) isTypeExpr()         {}

// TFun is Tfun(domain, codomain): a monomorphic function signature. The
// normalizer rewrites it like any other type expression and checks its
// domain as function-argument position.
type TFun struct {
	Sp        source.Span
	Domain    []TypeExpr
	Codomain  []TypeExpr
}

func (t *TFun) Span() source.Span { return t.Sp }
func (*TFun) isTypeExpr()         {}
