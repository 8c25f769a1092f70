package cache

// DigestModule keys are computed from ident.ID numbers, not resolved names
// (WriteTypeExpr/WritePattern/WriteExpr are called with a nil table, the
// same "id#<n>" fallback internal/checkast/string.go documents). This is
// safe within a single process's cache lifetime: nothing in this codebase's
// pipeline stores a Digest across a change to how modules are interned, and
// a fresh process re-derives every ident.ID by re-running the same sequence
// of Table.Intern calls its module loader always performs, in the same
// order, for the same input — so identical input produces identical IDs,
// and therefore identical digests, run after run. A cache keyed on resolved
// names instead would need driver.Cache's interface to thread an
// *ident.Table through Lookup/Store; that widening was not worth it for a
// cache whose whole purpose is skipping *unchanged* input.
