package checkast

import (
	"boundcheck/internal/ident"
	"boundcheck/internal/source"
)

// Expr is a stripped-typed expression node.
type Expr interface {
	Span() source.Span
	isExpr()
}

// BinOp enumerates this project's arithmetic and comparison binary operators.
type BinOp uint8

const (
	OpPlus BinOp = iota
	OpMinus
	OpMult
	OpDiv
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
)

// UnOp enumerates the unary operators. Neg is desugared to Minus(Const 0, v)
// by the bound checker's eval, not here — Euop keeps the
// source shape so the normalizer's observability check sees the original
// node.
type UnOp uint8

const (
	OpNeg UnOp = iota
	OpNot
)

// Eid is a bare identifier reference.
type Eid struct {
	Sp   source.Span
	Name ident.ID
}

func (e *Eid) Span() source.Span { return e.Sp }
func (*Eid) isExpr()             {}

// Evalue is an integer literal.
type Evalue struct {
	Sp source.Span
	N  int64
}

func (e *Evalue) Span() source.Span { return e.Sp }
func (*Evalue) isExpr()             {}

// Evariant constructs a tagged value: Tag applied to Payload.
type Evariant struct {
	Sp      source.Span
	Tag     ident.ID
	Payload []Expr
}

func (e *Evariant) Span() source.Span { return e.Sp }
func (*Evariant) isExpr()             {}

// RecordField is one field initializer within an Erecord.
type RecordField struct {
	Field ident.ID
	Value Expr
}

// Erecord constructs a record value.
type Erecord struct {
	Sp     source.Span
	Fields []RecordField
}

func (e *Erecord) Span() source.Span { return e.Sp }
func (*Erecord) isExpr()             {}

// Ewith is a functional record update: Base with Fields overridden.
type Ewith struct {
	Sp     source.Span
	Base   Expr
	Fields []RecordField
}

func (e *Ewith) Span() source.Span { return e.Sp }
func (*Ewith) isExpr()             {}

// Efield projects a single field out of a record.
type Efield struct {
	Sp    source.Span
	Base  Expr
	Field ident.ID
}

func (e *Efield) Span() source.Span { return e.Sp }
func (*Efield) isExpr()             {}

// Ebinop applies a binary operator.
type Ebinop struct {
	Sp          source.Span
	Op          BinOp
	Left, Right Expr
}

func (e *Ebinop) Span() source.Span { return e.Sp }
func (*Ebinop) isExpr()             {}

// Euop applies a unary operator.
type Euop struct {
	Sp      source.Span
	Op      UnOp
	Operand Expr
}

func (e *Euop) Span() source.Span { return e.Sp }
func (*Euop) isExpr()             {}

// Elet binds Pattern to Value's result within Body.
type Elet struct {
	Sp      source.Span
	Pattern Pattern
	Value   Expr
	Body    Expr
}

func (e *Elet) Span() source.Span { return e.Sp }
func (*Elet) isExpr()             {}

// Eif is a conditional. Cond is refined into the environment for Then
// (refine_true) and Else (refine_false) per this project's design.
type Eif struct {
	Sp               source.Span
	Cond, Then, Else Expr
}

func (e *Eif) Span() source.Span { return e.Sp }
func (*Eif) isExpr()             {}

// MatchArm is one arm of an Ematch.
type MatchArm struct {
	Pattern Pattern
	Body    Expr
}

// Ematch dispatches on Scrutinee's shape.
type Ematch struct {
	Sp         source.Span
	Scrutinee  Expr
	Arms       []MatchArm
}

func (e *Ematch) Span() source.Span { return e.Sp }
func (*Ematch) isExpr()             {}

// Eseq evaluates First for effect, then Second for its value.
type Eseq struct {
	Sp            source.Span
	First, Second Expr
}

func (e *Eseq) Span() source.Span { return e.Sp }
func (*Eseq) isExpr()             {}

// Eobs marks a borrowed ("observed") read of a linear variable. It behaves
// like Eid under interpretation but is distinct in the AST so the
// normalizer's observability check can treat it specially if a future
// extension needs to.
type Eobs struct {
	Sp   source.Span
	Name ident.ID
}

func (e *Eobs) Span() source.Span { return e.Sp }
func (*Eobs) isExpr()             {}

// Eapply is a function call. ResultTypes is the callee's declared result
// type list as seen by the caller — the normalizer's termination check
// inspects it for Tany, and the bound checker's Eid/Eapply
// dispatch decides public/private/primitive purely from Callee's identity
// via the registry and environment, never from ResultTypes.
type Eapply struct {
	Sp          source.Span
	Callee      ident.ID
	Args        []Expr
	ResultTypes []TypeExpr
}

func (e *Eapply) Span() source.Span { return e.Sp }
func (*Eapply) isExpr()             {}
