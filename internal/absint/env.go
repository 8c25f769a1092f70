package absint

import "boundcheck/internal/ident"

// ArrayRecord is a live array-creation record: a declared minimum length
// paired with the set of positions that created arrays of (at least) that
// length.
type ArrayRecord struct {
	Len       int64
	Positions PositionSet
}

// Env is the value environment: a mapping from identifier to
// symbolic expression, plus the active arrays list needed to lift a
// literal constant into an interval at a call boundary. It is immutable
// from the caller's perspective — Bind and PushArray return a new Env —
// matching the purely functional semantics the language under analysis
// itself has.
type Env struct {
	vars   map[ident.ID]*Sym
	arrays []ArrayRecord
}

// NewEnv returns an empty environment.
func NewEnv() *Env {
	return &Env{vars: make(map[ident.ID]*Sym)}
}

// Bind returns a new Env with name bound to expr, leaving e unmodified.
func (e *Env) Bind(name ident.ID, expr *Sym) *Env {
	out := &Env{
		vars:   make(map[ident.ID]*Sym, len(e.vars)+1),
		arrays: e.arrays,
	}
	for k, v := range e.vars {
		out.vars[k] = v
	}
	out.vars[name] = expr
	return out
}

// Lookup returns the symbolic expression bound to name, or nil if unbound.
func (e *Env) Lookup(name ident.ID) *Sym {
	if e == nil {
		return nil
	}
	return e.vars[name]
}

// PushArray returns a new Env with rec appended to the arrays list.
func (e *Env) PushArray(rec ArrayRecord) *Env {
	out := &Env{
		vars:   e.vars,
		arrays: append(append([]ArrayRecord{}, e.arrays...), rec),
	}
	return out
}

// Arrays returns the live array-creation records, most recent last.
func (e *Env) Arrays() []ArrayRecord {
	if e == nil {
		return nil
	}
	return e.arrays
}

// ConstToInterval lifts a concrete Const n to an Int(n≥0, good, bad) by
// consulting env's arrays list, per this project's "Const-to-interval at
// call boundary": for each (length m, positions P), n < m puts P in good,
// n == m puts P in bad.
func ConstToInterval(env *Env, n int64) Value {
	good := PositionSet{}
	bad := PositionSet{}
	for _, rec := range env.Arrays() {
		switch {
		case n < rec.Len:
			good = good.Union(rec.Positions)
		case n == rec.Len:
			bad = bad.Union(rec.Positions)
		}
	}
	return Int(n >= 0, good, bad)
}
