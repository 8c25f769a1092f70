// Package diagfmt renders a diag.Bag for a human (colorized text, gated on
// terminal detection) or a machine (JSON) — a formatting concern kept out
// of the analysis core, which only decides *when* to raise
// poly_is_not_prim/obs_not_value/obs_not_allowed/infinite_loop/bound_low/
// bound_up/bound_neg/expected_prim_array, never how they look on a screen.
//
// options.go defines the PrettyOpts/JSONOpts/PathMode split, json.go
// defines the DiagnosticJSON/LocationJSON payload shape, and preview.go
// reconstructs a fixed-up source line for a suggested edit. This project
// has no lexer or parser — checkast values are handed in directly — so
// nothing here renders an AST or a token list, and no SARIF renderer
// exists since no component in this repository calls for one.
package diagfmt
