package boundcheck

import (
	"boundcheck/internal/absint"
	"boundcheck/internal/checkast"
	"boundcheck/internal/diag"
	"boundcheck/internal/ident"
	"boundcheck/internal/registry"
)

// interpreter holds the bound-check environment's non-value pieces
//: the catalog of private
// definitions for inter-procedural expansion, and the shared memoization
// table. The value environment itself (absint.Env) is threaded through
// interpretExpr rather than stored here, since it is extended and
// restored per-scope during a single interpretation.
type interpreter struct {
	reg      *registry.Registry
	rep      diag.Reporter
	privates map[ident.ID]*checkast.Def
	memo     *memoTable
	forced   map[ident.ID]bool
}

// defPublic runs a public definition's entry: converts each parameter's declared type to an
// abstract value via type_to_abstract, binds it to the parameter pattern,
// and interprets the body for effect only.
func (in *interpreter) defPublic(def *checkast.Def) {
	env := absint.NewEnv()
	for _, p := range def.Params {
		env = in.bindPattern(env, p.Pattern, typeToAbstract(in.reg, p.Type))
	}
	_, results := in.interpretExpr(env, def.Body)
	_ = results
}

// bindPattern binds every PVar reachable from p to v. Nested patterns
// (tuples/variants/records) over a single parameter's type are bound
// conservatively: every leaf variable receives the same starting value,
// since this project's type_to_abstract is defined over a parameter's whole
// declared type, not per pattern leaf, and a public entry's declared type
// does not carry enough structure here to distribute across a nested
// pattern precisely.
func (in *interpreter) bindPattern(env *absint.Env, p checkast.Pattern, v absint.Value) *absint.Env {
	for _, pv := range checkast.Vars(p, nil) {
		env = env.Bind(pv.Name, absint.SymOfValue(v))
	}
	return env
}

// bindPatternToResults binds each PVar leaf of p, in order, to the
// corresponding symbolic result in results.
func (in *interpreter) bindPatternToResults(env *absint.Env, p checkast.Pattern, results []*absint.Sym) *absint.Env {
	vars := checkast.Vars(p, nil)
	for i, pv := range vars {
		if i < len(results) {
			env = env.Bind(pv.Name, results[i])
		} else {
			env = env.Bind(pv.Name, absint.SymOfValue(absint.UndefV))
		}
	}
	return env
}

// forcePublicCheckOfPrivate runs a bare (unapplied) private def's body
// once, with every parameter bound to Undef, purely to surface bound
// errors reachable without call-site context. forced guards against re-running (and, for mutually
// referencing privates that only ever reference each other by bare name,
// against non-termination).
func (in *interpreter) forcePublicCheckOfPrivate(name ident.ID) {
	if in.forced[name] {
		return
	}
	in.forced[name] = true
	def, ok := in.privates[name]
	if !ok {
		return
	}
	env := absint.NewEnv()
	for _, p := range def.Params {
		env = in.bindPattern(env, p.Pattern, absint.UndefV)
	}
	in.interpretExpr(env, def.Body)
}

// evalResults reduces a symbolic result list to concrete abstract values
// (used wherever this project's design needs "the evaluated results," e.g. private call
// returns and Eif/Ematch's join).
func evalResults(env *absint.Env, results []*absint.Sym) []absint.Value {
	out := make([]absint.Value, len(results))
	for i, s := range results {
		out[i] = absint.Eval(env, s)
	}
	return out
}

func toSyms(values []absint.Value) []*absint.Sym {
	out := make([]*absint.Sym, len(values))
	for i, v := range values {
		out[i] = absint.SymOfValue(v)
	}
	return out
}
