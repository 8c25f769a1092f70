package boundcheck

import (
	"boundcheck/internal/absint"
	"boundcheck/internal/checkast"
	"boundcheck/internal/diag"
	"boundcheck/internal/registry"
	"boundcheck/internal/source"
)

// typeToAbstract converts a public parameter's declared type to its
// starting abstract value: an
// application of the observed constructor strips to its underlying type;
// an application of the array constructor becomes Array({p}, MAX_INT)
// where p is the type's own source position; everything else is Undef.
func typeToAbstract(reg *registry.Registry, ty checkast.TypeExpr) absint.Value {
	apply, ok := ty.(*checkast.TApply)
	if !ok {
		return absint.UndefV
	}
	if reg.IsObservedTypeCtor(apply.Ctor) {
		if len(apply.Args) == 1 {
			return typeToAbstract(reg, apply.Args[0])
		}
		return absint.UndefV
	}
	if reg.IsArrayTypeCtor(apply.Ctor) {
		return absint.Array(absint.NewPositionSet(ty.Span()), absint.MaxInt)
	}
	return absint.UndefV
}

// arrayElemPrim reports whether resultTypes' element-type slot (see
// doc.go's design decision) names a primitive type, at the given index.
func arrayElemPrim(resultTypes []checkast.TypeExpr, elemIndex int) bool {
	if elemIndex >= len(resultTypes) {
		return false
	}
	con, ok := resultTypes[elemIndex].(*checkast.TCon)
	return ok && con.Prim
}

// checkBound implements this project's "Bound check": given an array
// operand's abstract value arr and an index operand's abstract value idx,
// reports a bound error at pos through rep if the access cannot be proven
// safe. It does not stop analysis on failure.
func checkBound(rep diag.Reporter, pos source.Span, arr, idx absint.Value) {
	switch {
	case arr.Kind == absint.ArrayV && idx.Kind == absint.ConstV:
		k := idx.N
		switch {
		case k < 0:
			diag.ReportError(rep, diag.BoundNeg, pos, "array index is a negative constant").Emit()
		case k >= arr.Len:
			b := diag.ReportError(rep, diag.BoundUp, pos, "array index constant is not below the array's declared length")
			if witness, ok := arr.Positions.Any(); ok {
				b = b.WithNote(witness, "array created here")
			}
			b.Emit()
		}
	case arr.Kind == absint.ArrayV && idx.Kind == absint.IntV:
		if !idx.NonNeg {
			diag.ReportError(rep, diag.BoundLow, pos, "array index is not known to be non-negative").Emit()
			return
		}
		missing := arr.Positions.Diff(idx.Good)
		if !missing.IsEmpty() {
			b := diag.ReportError(rep, diag.BoundUp, pos, "array index is not known to be strictly below the array's declared length")
			if witness, ok := missing.Any(); ok {
				b = b.WithNote(witness, "array created here")
			}
			b.Emit()
		}
	default:
		diag.ReportError(rep, diag.BoundLow, pos, "array index is not known to be non-negative").Emit()
	}
}
