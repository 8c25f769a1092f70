// Package normalize implements the naming-stage-to-stripped-typed-AST pass:
// it rewrites a module's declarations and definitions, enforcing that
// polymorphic type arguments are non-primitive, that the phantom "observed"
// type constructor only ever appears in a legal position, and that a call
// whose declared result type contains Tany is flagged as non-terminating.
//
// The pass is purely structural: it builds no abstract values and keeps no
// memoization table, unlike internal/boundcheck.
//
// # Open design decisions
//
// The observability check is applied uniformly to every field of a record
// or variant payload, regardless of whether that field is ever read by the
// definitions in the module. This is conservative; a smarter,
// usage-sensitive check might be preferable, but this implementation keeps
// the uniform, conservative behavior rather than guessing at a narrower
// policy.
//
// The termination check inspects only the result type list examined at
// Eapply — it does not additionally scan argument types for Tany, and it
// does not attempt to detect the two looping shapes by name (`let rec f x =
// f f` and self-application `(fun x -> x x) (fun x -> x x)`). This pass
// reports neither as infinite_loop.
//
// Separately, Eapply's declared result type list is normalized but never
// re-run through the observability check, unlike the declared types of
// let- and match-bound patterns. This implementation preserves that asymmetry rather
// than silently fixing it, treating it as a known property of the behavior
// being specified rather than a defect to close.
package normalize
