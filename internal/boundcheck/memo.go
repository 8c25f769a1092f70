package boundcheck

import (
	"fmt"
	"strings"

	"boundcheck/internal/absint"
	"boundcheck/internal/ident"
)

// callState is one memo table entry's lifecycle stage: Fresh has no entry at all; Entered holds an
// Undef placeholder while the body is being interpreted; Settled holds the
// computed result.
type callState uint8

const (
	stateEntered callState = iota
	stateSettled
)

type memoEntry struct {
	state   callState
	results []absint.Value
}

// memoTable is the shared per-module memoization table:
// keyed by (callee_id, abstract_arg_list), mutated only by the single
// thread analyzing this module.
type memoTable struct {
	entries map[string]*memoEntry
}

func newMemoTable() *memoTable {
	return &memoTable{entries: make(map[string]*memoEntry)}
}

// key builds the memo key for a call to callee with the given (already
// const-to-interval-lifted) argument values, per this project's "Const-to-
// interval at call boundary": lifting equivalent-bound arguments to the
// same Int shape lets cached results share across callers.
func memoKey(callee ident.ID, args []absint.Value) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d(", callee)
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		writeValueKey(&b, a)
	}
	b.WriteByte(')')
	return b.String()
}

func writeValueKey(b *strings.Builder, v absint.Value) {
	switch v.Kind {
	case absint.Undef:
		b.WriteString("U")
	case absint.ConstV:
		fmt.Fprintf(b, "C%d", v.N)
	case absint.ArrayV:
		fmt.Fprintf(b, "A%d[", v.Len)
		writePositionKey(b, v.Positions)
		b.WriteByte(']')
	case absint.IntV:
		fmt.Fprintf(b, "I%v[", v.NonNeg)
		writePositionKey(b, v.Good)
		b.WriteByte('|')
		writePositionKey(b, v.Bad)
		b.WriteByte(']')
	case absint.SumV:
		b.WriteString("S{")
		writeTagMapKey(b, v.Sum)
		b.WriteByte('}')
	case absint.RecV:
		b.WriteString("R{")
		writeTagMapKey(b, v.Rec)
		b.WriteByte('}')
	}
}

func writeTagMapKey(b *strings.Builder, m map[ident.ID][]absint.Value) {
	// Deterministic ordering: identifiers are already totally ordered
	// integers, so a simple insertion-sorted pass keeps this dependency
	// free and matches ident.ID's own total order.
	keys := make([]ident.ID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(b, "%d:(", k)
		for j, v := range m[k] {
			if j > 0 {
				b.WriteByte(',')
			}
			writeValueKey(b, v)
		}
		b.WriteByte(')')
	}
}

func writePositionKey(b *strings.Builder, s absint.PositionSet) {
	for i, p := range s.Items() {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%d:%d:%d", p.File, p.Start, p.End)
	}
}
