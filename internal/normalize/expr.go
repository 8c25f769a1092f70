package normalize

import (
	"boundcheck/internal/checkast"
	"boundcheck/internal/diag"
)

// normalizeExpr rewrites e one-to-one on the AST shape, running the
// observability check on the declared types of let- and match-bound
// patterns and the termination check on every Eapply. Other expression
// nodes carry no type annotation, so they are rewritten without an
// observability check, and an Eapply's result types get only the
// termination check.
func (n *Normalizer) normalizeExpr(e checkast.Expr) checkast.Expr {
	switch expr := e.(type) {
	case *checkast.Eid:
		return &checkast.Eid{Sp: expr.Sp, Name: expr.Name}

	case *checkast.Evalue:
		return &checkast.Evalue{Sp: expr.Sp, N: expr.N}

	case *checkast.Evariant:
		payload := make([]checkast.Expr, len(expr.Payload))
		for i, p := range expr.Payload {
			payload[i] = n.normalizeExpr(p)
		}
		return &checkast.Evariant{Sp: expr.Sp, Tag: expr.Tag, Payload: payload}

	case *checkast.Erecord:
		fields := make([]checkast.RecordField, len(expr.Fields))
		for i, f := range expr.Fields {
			fields[i] = checkast.RecordField{Field: f.Field, Value: n.normalizeExpr(f.Value)}
		}
		return &checkast.Erecord{Sp: expr.Sp, Fields: fields}

	case *checkast.Ewith:
		base := n.normalizeExpr(expr.Base)
		fields := make([]checkast.RecordField, len(expr.Fields))
		for i, f := range expr.Fields {
			fields[i] = checkast.RecordField{Field: f.Field, Value: n.normalizeExpr(f.Value)}
		}
		return &checkast.Ewith{Sp: expr.Sp, Base: base, Fields: fields}

	case *checkast.Efield:
		return &checkast.Efield{Sp: expr.Sp, Base: n.normalizeExpr(expr.Base), Field: expr.Field}

	case *checkast.Ebinop:
		return &checkast.Ebinop{
			Sp: expr.Sp, Op: expr.Op,
			Left:  n.normalizeExpr(expr.Left),
			Right: n.normalizeExpr(expr.Right),
		}

	case *checkast.Euop:
		return &checkast.Euop{Sp: expr.Sp, Op: expr.Op, Operand: n.normalizeExpr(expr.Operand)}

	case *checkast.Elet:
		n.checkObservabilityOnPattern(expr.Pattern, false)
		return &checkast.Elet{
			Sp:      expr.Sp,
			Pattern: n.normalizePattern(expr.Pattern),
			Value:   n.normalizeExpr(expr.Value),
			Body:    n.normalizeExpr(expr.Body),
		}

	case *checkast.Eif:
		return &checkast.Eif{
			Sp:   expr.Sp,
			Cond: n.normalizeExpr(expr.Cond),
			Then: n.normalizeExpr(expr.Then),
			Else: n.normalizeExpr(expr.Else),
		}

	case *checkast.Ematch:
		scrutinee := n.normalizeExpr(expr.Scrutinee)
		arms := make([]checkast.MatchArm, len(expr.Arms))
		for i, arm := range expr.Arms {
			n.checkObservabilityOnPattern(arm.Pattern, false)
			arms[i] = checkast.MatchArm{
				Pattern: n.normalizePattern(arm.Pattern),
				Body:    n.normalizeExpr(arm.Body),
			}
		}
		return &checkast.Ematch{Sp: expr.Sp, Scrutinee: scrutinee, Arms: arms}

	case *checkast.Eseq:
		return &checkast.Eseq{
			Sp:     expr.Sp,
			First:  n.normalizeExpr(expr.First),
			Second: n.normalizeExpr(expr.Second),
		}

	case *checkast.Eobs:
		return &checkast.Eobs{Sp: expr.Sp, Name: expr.Name}

	case *checkast.Eapply:
		args := make([]checkast.Expr, len(expr.Args))
		for i, a := range expr.Args {
			args[i] = n.normalizeExpr(a)
		}
		resultTypes := make([]checkast.TypeExpr, len(expr.ResultTypes))
		hasAny := false
		for i, r := range expr.ResultTypes {
			resultTypes[i] = n.normalizeType(r)
			if _, isAny := resultTypes[i].(*checkast.TAny); isAny {
				hasAny = true
			}
		}
		if hasAny {
			diag.ReportError(n.Rep, diag.NormInfiniteLoop, expr.Sp,
				"call's declared result type is unconstrained; this can only mean non-termination in a strict call").Emit()
		}
		return &checkast.Eapply{Sp: expr.Sp, Callee: expr.Callee, Args: args, ResultTypes: resultTypes}

	default:
		return e
	}
}
