package normalize

import (
	"boundcheck/internal/checkast"
	"boundcheck/internal/diag"
	"boundcheck/internal/ident"
	"boundcheck/internal/registry"
)

// Normalizer holds the collaborators the pass needs: the name registry to
// recognize the observed type constructor, and the reporter to emit
// diagnostics. It carries no per-module mutable state — the naming-stage
// AST handed to NormalizeModule already annotates each Eapply with its
// own result types, so there is no need to collect top-level signatures
// separately before rewriting bodies.
type Normalizer struct {
	Reg *registry.Registry
	Rep diag.Reporter
}

// New builds a Normalizer over reg, reporting to rep.
func New(reg *registry.Registry, rep diag.Reporter) *Normalizer {
	return &Normalizer{Reg: reg, Rep: rep}
}

// NormalizeModule rewrites m into a stripped-typed module, per
// normalize_module: rewrite every decl and every def in
// declaration order. Output preserves the module id, the order of
// declarations, and the order of definitions.
func (n *Normalizer) NormalizeModule(m *checkast.Module) *checkast.Module {
	out := &checkast.Module{Path: m.Path}

	out.Decls = make([]checkast.Decl, len(m.Decls))
	for i, d := range m.Decls {
		out.Decls[i] = n.normalizeDecl(d)
	}

	out.Defs = make([]checkast.Def, len(m.Defs))
	for i, d := range m.Defs {
		out.Defs[i] = n.normalizeDef(d)
	}

	return out
}

func (n *Normalizer) normalizeDecl(d checkast.Decl) checkast.Decl {
	out := checkast.Decl{
		Sp:       d.Sp,
		Name:     d.Name,
		Kind:     d.Kind,
		TypeArgs: append([]ident.ID{}, d.TypeArgs...),
	}
	switch d.Kind {
	case checkast.DeclSum:
		out.Cases = make([]checkast.VariantCase, len(d.Cases))
		for i, c := range d.Cases {
			payload := make([]checkast.TypeExpr, len(c.Payload))
			for j, p := range c.Payload {
				payload[j] = n.normalizeType(p)
				n.checkObservability(payload[j], false)
			}
			out.Cases[i] = checkast.VariantCase{Tag: c.Tag, Payload: payload}
		}
	case checkast.DeclRec:
		out.Fields = make([]checkast.RecordFieldDecl, len(d.Fields))
		for i, f := range d.Fields {
			ty := n.normalizeType(f.Type)
			n.checkObservability(ty, false)
			out.Fields[i] = checkast.RecordFieldDecl{Field: f.Field, Type: ty}
		}
	}
	return out
}

func (n *Normalizer) normalizeDef(d checkast.Def) checkast.Def {
	out := checkast.Def{Sp: d.Sp, Name: d.Name, Vis: d.Vis}

	out.Params = make([]checkast.Param, len(d.Params))
	for i, p := range d.Params {
		ty := n.normalizeType(p.Type)
		// A function argument's type is the one legal site for a bare
		// outermost observed(...) application.
		n.checkObservability(ty, true)
		out.Params[i] = checkast.Param{Pattern: n.normalizePattern(p.Pattern), Type: ty}
	}

	out.ResultType = make([]checkast.TypeExpr, len(d.ResultType))
	for i, r := range d.ResultType {
		ty := n.normalizeType(r)
		n.checkObservability(ty, false)
		out.ResultType[i] = ty
	}

	out.Body = n.normalizeExpr(d.Body)
	return out
}

func (n *Normalizer) normalizePattern(p checkast.Pattern) checkast.Pattern {
	switch pat := p.(type) {
	case *checkast.PWild:
		return &checkast.PWild{Sp: pat.Sp}
	case *checkast.PVar:
		var ty checkast.TypeExpr
		if pat.Type != nil {
			ty = n.normalizeType(pat.Type)
		}
		return &checkast.PVar{Sp: pat.Sp, Name: pat.Name, Type: ty}
	case *checkast.PTuple:
		elems := make([]checkast.Pattern, len(pat.Elems))
		for i, e := range pat.Elems {
			elems[i] = n.normalizePattern(e)
		}
		return &checkast.PTuple{Sp: pat.Sp, Elems: elems}
	case *checkast.PVariant:
		payload := make([]checkast.Pattern, len(pat.Payload))
		for i, e := range pat.Payload {
			payload[i] = n.normalizePattern(e)
		}
		return &checkast.PVariant{Sp: pat.Sp, Tag: pat.Tag, Payload: payload}
	case *checkast.PRecord:
		fields := make([]checkast.FieldPattern, len(pat.Fields))
		for i, f := range pat.Fields {
			fields[i] = checkast.FieldPattern{Field: f.Field, Value: n.normalizePattern(f.Value)}
		}
		return &checkast.PRecord{Sp: pat.Sp, Fields: fields}
	default:
		return p
	}
}
