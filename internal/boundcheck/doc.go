// Package boundcheck implements the whole-program, memoized abstract
// interpreter that proves array accesses in bounds: the driver partitions a
// module's definitions into public entry points and privates available for
// memoized inter-procedural expansion, then walks every public definition's
// body, dispatching primitives (assert, amake, alength, aget, aset, aswap)
// and ordinary calls through the fixed-point memoization protocol described
// in memo.go's "Memoization" and "State machine of a call" sections.
//
// # Design decision: element-type primitiveness at aget/aset/aswap
//
// aget/aset/aswap must check that the array type's element type is
// primitive (expected_prim_array), but the stripped AST (internal/checkast)
// has no separate type-annotation slot for an arbitrary expression — only
// Eapply carries a declared result type list, modeling generally "the
// callee's declared result type as seen by the caller" (see
// checkast.Eapply's doc comment). This package reuses that same field for
// the three array primitives: aget's ResultTypes is the element type;
// aset/aswap's ResultTypes is (array type, element type), matching their
// declared signatures ("aset(a, i, v) -> (a, old)"). This keeps a single,
// uniform place on Eapply for "the type information the caller's producer
// already computed," rather than inventing a second type-bearing field only
// for these three calls.
package boundcheck
