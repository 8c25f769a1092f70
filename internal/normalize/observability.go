package normalize

import (
	"boundcheck/internal/checkast"
	"boundcheck/internal/diag"
	"boundcheck/internal/source"
)

// checkObservability walks ty and enforces this project's observability
// rules:
//   - A bare type identifier equal to the observed type constructor is
//     forbidden in value position (obs_not_value).
//   - An application of the observed constructor is forbidden anywhere
//     except as the single outermost application of a function-argument
//     type (obs_not_allowed).
//   - All other shapes recurse into their children.
//
// outermostArg is true only when ty is the top-level type of a function
// parameter being checked directly (never for a nested position), which
// is the one legal site for a bare observed(...) application.
func (n *Normalizer) checkObservability(ty checkast.TypeExpr, outermostArg bool) {
	switch t := ty.(type) {
	case *checkast.TCon:
		if n.Reg.IsObservedTypeCtor(t.Name) {
			n.reportObsNotValue(t.Sp)
		}
	case *checkast.TVar, *checkast.TAny:
		// no constructor identity to check
	case *checkast.TApply:
		if n.Reg.IsObservedTypeCtor(t.Ctor) {
			if !outermostArg {
				n.reportObsNotAllowed(t.Sp)
			}
			// The observed application's own arguments are still in
			// value position for the purposes of nested checks.
			for _, a := range t.Args {
				n.checkObservability(a, false)
			}
			return
		}
		for _, a := range t.Args {
			n.checkObservability(a, false)
		}
	case *checkast.TFun:
		for _, d := range t.Domain {
			n.checkObservability(d, true)
		}
		for _, c := range t.Codomain {
			n.checkObservability(c, false)
		}
	}
}

func (n *Normalizer) reportObsNotValue(pos source.Span) {
	diag.ReportError(n.Rep, diag.NormObsNotValue, pos,
		"the observed type constructor is not allowed in value position").Emit()
}

func (n *Normalizer) reportObsNotAllowed(pos source.Span) {
	diag.ReportError(n.Rep, diag.NormObsNotAllowed, pos,
		"the observed type constructor may only appear as the outermost application of a function argument's type").Emit()
}

// checkObservabilityOnPattern applies the observability check to every
// PVar's declared type reachable from p, per this project's "applied to
// each ... pattern-bound sub-expression."
func (n *Normalizer) checkObservabilityOnPattern(p checkast.Pattern, outermostArg bool) {
	switch pat := p.(type) {
	case *checkast.PVar:
		if pat.Type != nil {
			n.checkObservability(pat.Type, outermostArg)
		}
	case *checkast.PTuple:
		for _, e := range pat.Elems {
			n.checkObservabilityOnPattern(e, outermostArg)
		}
	case *checkast.PVariant:
		for _, e := range pat.Payload {
			n.checkObservabilityOnPattern(e, false)
		}
	case *checkast.PRecord:
		for _, f := range pat.Fields {
			n.checkObservabilityOnPattern(f.Value, false)
		}
	}
}
