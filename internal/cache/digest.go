// Package cache implements an on-disk memoization cache across runs: a run
// may skip re-analyzing a module whose content digest already has
// diagnostics recorded from a previous run, keyed the same way
// internal/boundcheck's memo table keys a call — by a deterministic
// textual serialization of the value being cached, not by pointer
// identity.
package cache

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"boundcheck/internal/checkast"
)

// Digest is a module's content hash: the cache key. Two modules with the
// same path, declarations and definitions (up to ident.ID numbering, which
// is stable across runs given the same input sequence — see doc.go) hash
// identically regardless of which run produced them.
type Digest [32]byte

// DigestModule hashes m's path, declarations and definitions using checkast's own
// debug printers (WriteTypeExpr/WritePattern/WriteExpr), the same
// deterministic-serialization idiom internal/boundcheck/memo.go uses to key
// its call memo table on absint.Value.
func DigestModule(m *checkast.Module) Digest {
	var b strings.Builder
	fmt.Fprintf(&b, "path:%s\n", m.Path)
	for _, d := range m.Decls {
		writeDeclKey(&b, d)
	}
	for _, def := range m.Defs {
		writeDefKey(&b, def)
	}
	return sha256.Sum256([]byte(b.String()))
}

func writeDeclKey(b *strings.Builder, d checkast.Decl) {
	fmt.Fprintf(b, "decl %d kind=%d args=%v\n", d.Name, d.Kind, d.TypeArgs)
	for _, c := range d.Cases {
		fmt.Fprintf(b, "  case %d(", c.Tag)
		for i, p := range c.Payload {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(checkast.WriteTypeExpr(p, nil))
		}
		b.WriteString(")\n")
	}
	for _, f := range d.Fields {
		fmt.Fprintf(b, "  field %d:%s\n", f.Field, checkast.WriteTypeExpr(f.Type, nil))
	}
}

func writeDefKey(b *strings.Builder, def checkast.Def) {
	fmt.Fprintf(b, "def %d vis=%d(", def.Name, def.Vis)
	for i, p := range def.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%s:%s", checkast.WritePattern(p.Pattern, nil), checkast.WriteTypeExpr(p.Type, nil))
	}
	b.WriteString(") -> (")
	for i, rt := range def.ResultType {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(checkast.WriteTypeExpr(rt, nil))
	}
	b.WriteString(")\n  ")
	b.WriteString(checkast.WriteExpr(def.Body, nil))
	b.WriteByte('\n')
}
