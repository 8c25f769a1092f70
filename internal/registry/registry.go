// Package registry is the name registry collaborator: it designates the
// well-known identifiers the bound checker and
// normalizer must recognize by identity — the phantom "observed" type
// constructor, the array type constructor, and the primitive functions
// assert/amake/aget/aset/aswap/alength.
//
// This project's explicit non-goal is name resolution, so unlike a full
// symbol table (scopes, imports, visibility), registry never resolves an
// identifier occurring in program text — it only tells the passes which
// already-resolved ident.ID values are "special."
package registry

import "boundcheck/internal/ident"

// Primitive names the fixed set of built-in operations the bound checker
// gives special interpretation to at Eapply.
type Primitive uint8

const (
	NotPrimitive Primitive = iota
	PrimAssert
	PrimAMake
	PrimAGet
	PrimASet
	PrimASwap
	PrimALength
)

// Registry holds the well-known identifiers for one compilation. It is
// built once per typed-AST producer session and shared read-only across
// modules, mirroring §5's "no cross-module sharing" for mutable state while
// still letting every module consult the same fixed vocabulary.
type Registry struct {
	Idents *ident.Table

	observedTypeCtor ident.ID
	arrayTypeCtor    ident.ID
	primitives       map[ident.ID]Primitive
}

// New builds a Registry over an identifier table, interning the well-known
// names it needs. The caller-supplied names let the typed AST producer pick
// its own surface syntax without this package hardcoding it.
func New(idents *ident.Table, observedTypeName, arrayTypeName string, primitiveNames map[Primitive]string) *Registry {
	r := &Registry{
		Idents:     idents,
		primitives: make(map[ident.ID]Primitive, len(primitiveNames)),
	}
	r.observedTypeCtor = idents.Intern(observedTypeName)
	r.arrayTypeCtor = idents.Intern(arrayTypeName)
	// Iterate primitives in a fixed order (not map order) so a fresh
	// *ident.Table interns "assert"/"amake"/"aget"/"aset"/"aswap"/"alength"
	// at the same IDs on every run — the .module.mp wire format carries
	// bare ident.ID integers with no name strings (see internal/checkast's
	// wire.go), so a typed AST producer generating fixtures against this
	// registry only gets stable IDs if this loop's order is deterministic.
	for prim := PrimAssert; prim <= PrimALength; prim++ {
		name, ok := primitiveNames[prim]
		if !ok {
			continue
		}
		r.primitives[idents.Intern(name)] = prim
	}
	return r
}

// NewDefault builds a Registry using this project's default surface names,
// matching the vocabulary this project's §6 lists literally.
func NewDefault(idents *ident.Table) *Registry {
	return New(idents, "Observed", "Array", map[Primitive]string{
		PrimAssert:  "assert",
		PrimAMake:   "amake",
		PrimAGet:    "aget",
		PrimASet:    "aset",
		PrimASwap:   "aswap",
		PrimALength: "alength",
	})
}

// IsObservedTypeCtor reports whether id names the phantom observed type
// constructor.
func (r *Registry) IsObservedTypeCtor(id ident.ID) bool {
	return r != nil && id == r.observedTypeCtor
}

// IsArrayTypeCtor reports whether id names the array type constructor.
func (r *Registry) IsArrayTypeCtor(id ident.ID) bool {
	return r != nil && id == r.arrayTypeCtor
}

// PrimitiveOf reports which, if any, well-known primitive id names.
func (r *Registry) PrimitiveOf(id ident.ID) Primitive {
	if r == nil {
		return NotPrimitive
	}
	if p, ok := r.primitives[id]; ok {
		return p
	}
	return NotPrimitive
}
