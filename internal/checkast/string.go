package checkast

import (
	"fmt"
	"strings"

	"boundcheck/internal/ident"
)

// String renders a type expression for diagnostics and debug traces. Names
// come out as "id#<n>" when idents is nil, since a bare ident.ID carries no
// text on its own — callers that have a table should use WriteTypeExpr.
func (t *TCon) String() string   { return WriteTypeExpr(t, nil) }
func (t *TVar) String() string   { return WriteTypeExpr(t, nil) }
func (t *TAny) String() string   { return WriteTypeExpr(t, nil) }
func (t *TApply) String() string { return WriteTypeExpr(t, nil) }
func (t *TFun) String() string   { return WriteTypeExpr(t, nil) }

// WriteTypeExpr renders t to a string, resolving names through idents when
// non-nil.
func WriteTypeExpr(t TypeExpr, idents *ident.Table) string {
	var s strings.Builder
	buildTypeExprString(t, idents, &s)
	return s.String()
}

func name(idents *ident.Table, id ident.ID) string {
	if idents == nil {
		return fmt.Sprintf("id#%d", id)
	}
	if n, ok := idents.Name(id); ok {
		return n
	}
	return fmt.Sprintf("id#%d", id)
}

func buildTypeExprString(t TypeExpr, idents *ident.Table, s *strings.Builder) {
	switch t := t.(type) {
	case *TCon:
		s.WriteString(name(idents, t.Name))
	case *TVar:
		s.WriteRune('\'')
		s.WriteString(name(idents, t.Name))
	case *TAny:
		s.WriteString("Any")
	case *TApply:
		s.WriteString(name(idents, t.Ctor))
		s.WriteRune('<')
		for i, a := range t.Args {
			if i > 0 {
				s.WriteString(", ")
			}
			buildTypeExprString(a, idents, s)
		}
		s.WriteRune('>')
	case *TFun:
		s.WriteRune('(')
		for i, d := range t.Domain {
			if i > 0 {
				s.WriteString(", ")
			}
			buildTypeExprString(d, idents, s)
		}
		s.WriteString(") -> (")
		for i, c := range t.Codomain {
			if i > 0 {
				s.WriteString(", ")
			}
			buildTypeExprString(c, idents, s)
		}
		s.WriteRune(')')
	default:
		s.WriteString("<?type>")
	}
}

// WritePattern renders p to a string, resolving names through idents when
// non-nil.
func WritePattern(p Pattern, idents *ident.Table) string {
	var s strings.Builder
	buildPatternString(p, idents, &s)
	return s.String()
}

func buildPatternString(p Pattern, idents *ident.Table, s *strings.Builder) {
	switch p := p.(type) {
	case *PWild:
		s.WriteRune('_')
	case *PVar:
		s.WriteString(name(idents, p.Name))
		if p.Type != nil {
			s.WriteString(": ")
			buildTypeExprString(p.Type, idents, s)
		}
	case *PTuple:
		s.WriteRune('(')
		for i, e := range p.Elems {
			if i > 0 {
				s.WriteString(", ")
			}
			buildPatternString(e, idents, s)
		}
		s.WriteRune(')')
	case *PVariant:
		s.WriteString(name(idents, p.Tag))
		if len(p.Payload) > 0 {
			s.WriteRune('(')
			for i, e := range p.Payload {
				if i > 0 {
					s.WriteString(", ")
				}
				buildPatternString(e, idents, s)
			}
			s.WriteRune(')')
		}
	case *PRecord:
		s.WriteRune('{')
		for i, f := range p.Fields {
			if i > 0 {
				s.WriteString(", ")
			}
			s.WriteString(name(idents, f.Field))
			s.WriteString(": ")
			buildPatternString(f.Value, idents, s)
		}
		s.WriteRune('}')
	default:
		s.WriteString("<?pattern>")
	}
}

// WriteExpr renders e to a string, resolving names through idents when
// non-nil. It is a debug aid for driver logging and test failure messages,
// not a source pretty-printer — spacing follows this project's mathematical
// notation for the underlying operations rather than any surface syntax.
func WriteExpr(e Expr, idents *ident.Table) string {
	var s strings.Builder
	buildExprString(e, idents, &s)
	return s.String()
}

var binOpSymbol = map[BinOp]string{
	OpPlus: "+", OpMinus: "-", OpMult: "*", OpDiv: "/",
	OpLt: "<", OpLte: "<=", OpGt: ">", OpGte: ">=",
	OpAnd: "&&", OpOr: "||",
}

func buildExprString(e Expr, idents *ident.Table, s *strings.Builder) {
	switch e := e.(type) {
	case *Eid:
		s.WriteString(name(idents, e.Name))
	case *Evalue:
		fmt.Fprintf(s, "%d", e.N)
	case *Evariant:
		s.WriteString(name(idents, e.Tag))
		if len(e.Payload) > 0 {
			s.WriteRune('(')
			for i, p := range e.Payload {
				if i > 0 {
					s.WriteString(", ")
				}
				buildExprString(p, idents, s)
			}
			s.WriteRune(')')
		}
	case *Erecord:
		s.WriteRune('{')
		for i, f := range e.Fields {
			if i > 0 {
				s.WriteString(", ")
			}
			s.WriteString(name(idents, f.Field))
			s.WriteString(": ")
			buildExprString(f.Value, idents, s)
		}
		s.WriteRune('}')
	case *Ewith:
		buildExprString(e.Base, idents, s)
		s.WriteString(" with {")
		for i, f := range e.Fields {
			if i > 0 {
				s.WriteString(", ")
			}
			s.WriteString(name(idents, f.Field))
			s.WriteString(": ")
			buildExprString(f.Value, idents, s)
		}
		s.WriteRune('}')
	case *Efield:
		buildExprString(e.Base, idents, s)
		s.WriteRune('.')
		s.WriteString(name(idents, e.Field))
	case *Ebinop:
		s.WriteRune('(')
		buildExprString(e.Left, idents, s)
		s.WriteRune(' ')
		s.WriteString(binOpSymbol[e.Op])
		s.WriteRune(' ')
		buildExprString(e.Right, idents, s)
		s.WriteRune(')')
	case *Euop:
		if e.Op == OpNeg {
			s.WriteRune('-')
		} else {
			s.WriteString("!")
		}
		buildExprString(e.Operand, idents, s)
	case *Elet:
		s.WriteString("let ")
		buildPatternString(e.Pattern, idents, s)
		s.WriteString(" = ")
		buildExprString(e.Value, idents, s)
		s.WriteString(" in ")
		buildExprString(e.Body, idents, s)
	case *Eif:
		s.WriteString("if ")
		buildExprString(e.Cond, idents, s)
		s.WriteString(" then ")
		buildExprString(e.Then, idents, s)
		s.WriteString(" else ")
		buildExprString(e.Else, idents, s)
	case *Ematch:
		s.WriteString("match ")
		buildExprString(e.Scrutinee, idents, s)
		s.WriteString(" { ")
		for i, arm := range e.Arms {
			if i > 0 {
				s.WriteString(" | ")
			}
			buildPatternString(arm.Pattern, idents, s)
			s.WriteString(" => ")
			buildExprString(arm.Body, idents, s)
		}
		s.WriteString(" }")
	case *Eseq:
		buildExprString(e.First, idents, s)
		s.WriteString("; ")
		buildExprString(e.Second, idents, s)
	case *Eobs:
		s.WriteRune('~')
		s.WriteString(name(idents, e.Name))
	case *Eapply:
		s.WriteString(name(idents, e.Callee))
		s.WriteRune('(')
		for i, a := range e.Args {
			if i > 0 {
				s.WriteString(", ")
			}
			buildExprString(a, idents, s)
		}
		s.WriteRune(')')
	default:
		s.WriteString("<?expr>")
	}
}
