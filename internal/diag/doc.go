// Package diag defines the diagnostic model shared by the normalizer and the
// bound checker: the error-reporting collaborator both passes report through.
//
// Diagnostic is the central record: a Severity, a Code, a human-oriented
// Message, a primary source.Span, and optional Notes (used to carry a bound
// error's witness position, per §7's bound_up(p, witness)).
//
// Producers depend only on the Reporter interface, not on Bag, so tests can
// substitute their own Reporter or assert directly against a BagReporter's Bag.
// Bag additionally supports a diagnostic cap (Cap, checked by cmd/boundcheck
// against the run that filled it) and a deterministic Sort; live duplicate
// suppression happens earlier, at report time, via DedupReporter.
//
// Package diag performs no rendering; internal/diagfmt turns a Bag into
// human or JSON output. This split keeps the analysis core free of any
// formatting decision, per this project's explicit non-goal on diagnostic
// formatting.
package diag
