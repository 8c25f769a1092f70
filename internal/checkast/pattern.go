package checkast

import (
	"boundcheck/internal/ident"
	"boundcheck/internal/source"
)

// Pattern destructures a value at a let-binding, a match arm, or a
// function's argument list. Tuples, records and variants are first-class,
// so patterns nest.
type Pattern interface {
	Span() source.Span
	isPattern()
}

// PWild ignores the matched value.
type PWild struct {
	Sp source.Span
}

func (p *PWild) Span() source.Span { return p.Sp }
func (*PWild) isPattern()          {}

// PVar binds the matched value to Name. Type is the pattern's declared
// type, subject to the observability check and, at a public def's
// parameter, to type_to_abstract.
type PVar struct {
	Sp   source.Span
	Name ident.ID
	Type TypeExpr
}

func (p *PVar) Span() source.Span { return p.Sp }
func (*PVar) isPattern()          {}

// PTuple destructures a tuple positionally. A function's single argument
// pattern is typically a PTuple over its formal parameters.
type PTuple struct {
	Sp    source.Span
	Elems []Pattern
}

func (p *PTuple) Span() source.Span { return p.Sp }
func (*PTuple) isPattern()          {}

// PVariant matches a tagged variant carrying one payload pattern per
// component under Tag.
type PVariant struct {
	Sp      source.Span
	Tag     ident.ID
	Payload []Pattern
}

func (p *PVariant) Span() source.Span { return p.Sp }
func (*PVariant) isPattern()          {}

// FieldPattern binds one record field within a PRecord.
type FieldPattern struct {
	Field ident.ID
	Value Pattern
}

// PRecord destructures a record by field.
type PRecord struct {
	Sp     source.Span
	Fields []FieldPattern
}

func (p *PRecord) Span() source.Span { return p.Sp }
func (*PRecord) isPattern()          {}

// Vars appends every PVar leaf reachable from p, in pattern order. Used by
// the bound checker to bind a pattern's variables to a list of symbolic
// results.
func Vars(p Pattern, out []*PVar) []*PVar {
	switch pat := p.(type) {
	case *PVar:
		return append(out, pat)
	case *PTuple:
		for _, e := range pat.Elems {
			out = Vars(e, out)
		}
		return out
	case *PVariant:
		for _, e := range pat.Payload {
			out = Vars(e, out)
		}
		return out
	case *PRecord:
		for _, f := range pat.Fields {
			out = Vars(f.Value, out)
		}
		return out
	default:
		return out
	}
}
