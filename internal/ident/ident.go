// Package ident implements this project's Identifier: an interned, totally
// ordered name. It is adapted from the compiler's source-string interner
// (internal/source/interner.go) — same append-only byID/index shape — kept
// as its own package because identifiers here name functions, variants,
// fields and type constructors across the whole bound-checker core, not
// just file text.
package ident

// ID is an interned identifier. The zero value, NoID, never names anything;
// IDs are totally ordered by allocation order, which is enough for this project's
// "totally ordered" requirement (map keys, sorted diagnostics, and the
// position-set/abstract-value machinery never depend on the order matching
// lexical or declaration order).
type ID uint32

// NoID is the identifier that names nothing.
const NoID ID = 0

// Table interns names to IDs and back.
type Table struct {
	byID  []string
	index map[string]ID
}

// NewTable returns an empty identifier table.
func NewTable() *Table {
	return &Table{
		byID:  []string{""},
		index: map[string]ID{"": NoID},
	}
}

// Intern returns the ID for name, allocating a new one if this is the first
// occurrence.
func (t *Table) Intern(name string) ID {
	if id, ok := t.index[name]; ok {
		return id
	}
	cpy := string([]byte(name))
	id := ID(len(t.byID))
	t.byID = append(t.byID, cpy)
	t.index[cpy] = id
	return id
}

// Name returns the interned string for id, or "" and false if id is unknown.
func (t *Table) Name(id ID) (string, bool) {
	if int(id) < 0 || int(id) >= len(t.byID) {
		return "", false
	}
	return t.byID[id], true
}

// MustName returns the interned string for id, panicking if id is unknown.
// Reserved for callers that have already validated the ID (e.g. registry
// lookups keyed on a Table they own) — an internal invariant breach here
// indicates a producer bug, per this project's design.
func (t *Table) MustName(id ID) string {
	name, ok := t.Name(id)
	if !ok {
		panic("ident: unknown id")
	}
	return name
}

// Len reports how many distinct identifiers have been interned, including
// the reserved empty name at NoID.
func (t *Table) Len() int {
	return len(t.byID)
}
