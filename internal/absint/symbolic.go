package absint

import "boundcheck/internal/ident"

// SymOp tags the shape of a Sym node.
type SymOp uint8

const (
	SymId SymOp = iota
	SymValue
	SymPlus
	SymMinus
	SymMult
	SymDiv
	SymLt
	SymLte
	SymGt
	SymGte
	SymAnd
	SymOr
	SymNot
)

// Sym is the deferred symbolic expression tree this project's design stands in for a
// value when it depends on program variables: leaves Id/Value, arithmetic
// Plus/Minus/Mult/Div, comparisons Lt/Lte/Gt/Gte, logical And/Or/Not.
//
// It is a tagged struct rather than an interface hierarchy, following the
// bound checker's own value representation (Value in this package) and the
// compiler's internal/vm.Value convention — symbolic trees are small,
// short-lived, and compared/rebuilt constantly during evaluation, so a
// closed set of cases in one struct avoids a type-switch at every call site
// that only needs the tag.
type Sym struct {
	Op SymOp

	Name ident.ID // SymId
	Val  Value    // SymValue

	L, R *Sym // binary ops (Minus/Div/comparisons/And/Or use both; Plus/Mult may fold >2 via nested nodes)
	X    *Sym // SymNot
}

// Id builds an Id leaf.
func Id(name ident.ID) *Sym { return &Sym{Op: SymId, Name: name} }

// SymOfValue builds a Value leaf.
func SymOfValue(v Value) *Sym { return &Sym{Op: SymValue, Val: v} }

// ConstSym is shorthand for a Value leaf wrapping a ConstV.
func ConstSym(n int64) *Sym { return SymOfValue(Const(n)) }

func bin(op SymOp, l, r *Sym) *Sym { return &Sym{Op: op, L: l, R: r} }

func Plus(l, r *Sym) *Sym  { return bin(SymPlus, l, r) }
func Minus(l, r *Sym) *Sym { return bin(SymMinus, l, r) }
func Mult(l, r *Sym) *Sym  { return bin(SymMult, l, r) }
func Div(l, r *Sym) *Sym   { return bin(SymDiv, l, r) }
func Lt(l, r *Sym) *Sym    { return bin(SymLt, l, r) }
func Lte(l, r *Sym) *Sym   { return bin(SymLte, l, r) }
func Gt(l, r *Sym) *Sym    { return bin(SymGt, l, r) }
func Gte(l, r *Sym) *Sym   { return bin(SymGte, l, r) }
func And(l, r *Sym) *Sym   { return bin(SymAnd, l, r) }
func Or(l, r *Sym) *Sym    { return bin(SymOr, l, r) }
func Not(x *Sym) *Sym      { return &Sym{Op: SymNot, X: x} }

// Neg is unary minus, desugared to Minus(Const 0, v) per this project's design.
func Neg(v *Sym) *Sym { return Minus(ConstSym(0), v) }
