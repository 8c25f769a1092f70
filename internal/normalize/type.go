package normalize

import (
	"boundcheck/internal/checkast"
	"boundcheck/internal/diag"
)

// normalizeType recursively rewrites a type expression, per
// normalize_type: on Tapply(c, args) it rewrites every
// argument and, for each rewritten argument, enforces that a primitive
// type is not allowed as a polymorphic argument. Other shapes pass
// through structurally copied.
func (n *Normalizer) normalizeType(ty checkast.TypeExpr) checkast.TypeExpr {
	switch t := ty.(type) {
	case *checkast.TCon:
		return &checkast.TCon{Sp: t.Sp, Name: t.Name, Prim: t.Prim}
	case *checkast.TVar:
		return &checkast.TVar{Sp: t.Sp, Name: t.Name}
	case *checkast.TAny:
		return &checkast.TAny{Sp: t.Sp}
	case *checkast.TApply:
		args := make([]checkast.TypeExpr, len(t.Args))
		for i, a := range t.Args {
			rewritten := n.normalizeType(a)
			if isPrimitive(rewritten) {
				diag.ReportError(n.Rep, diag.NormPolyIsNotPrim, rewritten.Span(),
					"primitive type not allowed as a polymorphic argument").Emit()
			}
			args[i] = rewritten
		}
		return &checkast.TApply{Sp: t.Sp, Ctor: t.Ctor, Args: args}
	case *checkast.TFun:
		domain := make([]checkast.TypeExpr, len(t.Domain))
		for i, d := range t.Domain {
			domain[i] = n.normalizeType(d)
		}
		codomain := make([]checkast.TypeExpr, len(t.Codomain))
		for i, c := range t.Codomain {
			codomain[i] = n.normalizeType(c)
		}
		return &checkast.TFun{Sp: t.Sp, Domain: domain, Codomain: codomain}
	default:
		return ty
	}
}

func isPrimitive(ty checkast.TypeExpr) bool {
	con, ok := ty.(*checkast.TCon)
	return ok && con.Prim
}
