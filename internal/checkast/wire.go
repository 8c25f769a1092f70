package checkast

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"boundcheck/internal/ident"
	"boundcheck/internal/source"
)

// wire.go serializes a Module to and from msgpack. This is the boundary
// left external to this project's own logic: the typed AST producer's own
// encoding of the checkast shapes it hands this project. Since every
// checkast interface (TypeExpr, Pattern, Expr) is a closed tagged union
// rather than an open hierarchy, each is given a single flat wire struct
// carrying a Kind tag plus every field any case might need, following the
// same "kind plus a documented union of fields" idiom internal/absint's
// Value already uses for the same reason.

type wireSpan struct {
	File  uint32
	Start uint32
	End   uint32
}

func toWireSpan(sp source.Span) wireSpan {
	return wireSpan{File: uint32(sp.File), Start: sp.Start, End: sp.End}
}

func fromWireSpan(w wireSpan) source.Span {
	return source.Span{File: source.FileID(w.File), Start: w.Start, End: w.End}
}

// --- TypeExpr ---

const (
	kindTCon   = "con"
	kindTVar   = "var"
	kindTAny   = "any"
	kindTApply = "apply"
	kindTFun   = "fun"
)

type wireType struct {
	Kind     string
	Sp       wireSpan
	Name     uint32
	Prim     bool
	Ctor     uint32
	Args     []wireType
	Domain   []wireType
	Codomain []wireType
}

func encodeType(t TypeExpr) wireType {
	switch t := t.(type) {
	case *TCon:
		return wireType{Kind: kindTCon, Sp: toWireSpan(t.Sp), Name: uint32(t.Name), Prim: t.Prim}
	case *TVar:
		return wireType{Kind: kindTVar, Sp: toWireSpan(t.Sp), Name: uint32(t.Name)}
	case *TAny:
		return wireType{Kind: kindTAny, Sp: toWireSpan(t.Sp)}
	case *TApply:
		return wireType{Kind: kindTApply, Sp: toWireSpan(t.Sp), Ctor: uint32(t.Ctor), Args: encodeTypes(t.Args)}
	case *TFun:
		return wireType{Kind: kindTFun, Sp: toWireSpan(t.Sp), Domain: encodeTypes(t.Domain), Codomain: encodeTypes(t.Codomain)}
	default:
		panic(fmt.Sprintf("checkast: unknown TypeExpr shape %T", t))
	}
}

func encodeTypes(ts []TypeExpr) []wireType {
	out := make([]wireType, len(ts))
	for i, t := range ts {
		out[i] = encodeType(t)
	}
	return out
}

func decodeType(w wireType) TypeExpr {
	sp := fromWireSpan(w.Sp)
	switch w.Kind {
	case kindTCon:
		return &TCon{Sp: sp, Name: ident.ID(w.Name), Prim: w.Prim}
	case kindTVar:
		return &TVar{Sp: sp, Name: ident.ID(w.Name)}
	case kindTAny:
		return &TAny{Sp: sp}
	case kindTApply:
		return &TApply{Sp: sp, Ctor: ident.ID(w.Ctor), Args: decodeTypes(w.Args)}
	case kindTFun:
		return &TFun{Sp: sp, Domain: decodeTypes(w.Domain), Codomain: decodeTypes(w.Codomain)}
	default:
		panic(fmt.Sprintf("checkast: unknown wire type kind %q", w.Kind))
	}
}

func decodeTypes(ws []wireType) []TypeExpr {
	out := make([]TypeExpr, len(ws))
	for i, w := range ws {
		out[i] = decodeType(w)
	}
	return out
}

// --- Pattern ---

const (
	kindPWild    = "wild"
	kindPVar     = "pvar"
	kindPTuple   = "tuple"
	kindPVariant = "pvariant"
	kindPRecord  = "precord"
)

type wireFieldPattern struct {
	Field uint32
	Value wirePattern
}

type wirePattern struct {
	Kind    string
	Sp      wireSpan
	Name    uint32
	Type    *wireType
	Elems   []wirePattern
	Tag     uint32
	Payload []wirePattern
	Fields  []wireFieldPattern
}

func encodePattern(p Pattern) wirePattern {
	switch p := p.(type) {
	case *PWild:
		return wirePattern{Kind: kindPWild, Sp: toWireSpan(p.Sp)}
	case *PVar:
		t := encodeType(p.Type)
		return wirePattern{Kind: kindPVar, Sp: toWireSpan(p.Sp), Name: uint32(p.Name), Type: &t}
	case *PTuple:
		return wirePattern{Kind: kindPTuple, Sp: toWireSpan(p.Sp), Elems: encodePatterns(p.Elems)}
	case *PVariant:
		return wirePattern{Kind: kindPVariant, Sp: toWireSpan(p.Sp), Tag: uint32(p.Tag), Payload: encodePatterns(p.Payload)}
	case *PRecord:
		fields := make([]wireFieldPattern, len(p.Fields))
		for i, f := range p.Fields {
			fields[i] = wireFieldPattern{Field: uint32(f.Field), Value: encodePattern(f.Value)}
		}
		return wirePattern{Kind: kindPRecord, Sp: toWireSpan(p.Sp), Fields: fields}
	default:
		panic(fmt.Sprintf("checkast: unknown Pattern shape %T", p))
	}
}

func encodePatterns(ps []Pattern) []wirePattern {
	out := make([]wirePattern, len(ps))
	for i, p := range ps {
		out[i] = encodePattern(p)
	}
	return out
}

func decodePattern(w wirePattern) Pattern {
	sp := fromWireSpan(w.Sp)
	switch w.Kind {
	case kindPWild:
		return &PWild{Sp: sp}
	case kindPVar:
		var t TypeExpr
		if w.Type != nil {
			t = decodeType(*w.Type)
		}
		return &PVar{Sp: sp, Name: ident.ID(w.Name), Type: t}
	case kindPTuple:
		return &PTuple{Sp: sp, Elems: decodePatterns(w.Elems)}
	case kindPVariant:
		return &PVariant{Sp: sp, Tag: ident.ID(w.Tag), Payload: decodePatterns(w.Payload)}
	case kindPRecord:
		fields := make([]FieldPattern, len(w.Fields))
		for i, f := range w.Fields {
			fields[i] = FieldPattern{Field: ident.ID(f.Field), Value: decodePattern(f.Value)}
		}
		return &PRecord{Sp: sp, Fields: fields}
	default:
		panic(fmt.Sprintf("checkast: unknown wire pattern kind %q", w.Kind))
	}
}

func decodePatterns(ws []wirePattern) []Pattern {
	out := make([]Pattern, len(ws))
	for i, w := range ws {
		out[i] = decodePattern(w)
	}
	return out
}

// --- Expr ---

const (
	kindEid      = "id"
	kindEvalue   = "value"
	kindEvariant = "evariant"
	kindErecord  = "erecord"
	kindEwith    = "with"
	kindEfield   = "efield"
	kindEbinop   = "binop"
	kindEuop     = "uop"
	kindElet     = "let"
	kindEif      = "if"
	kindEmatch   = "match"
	kindEseq     = "seq"
	kindEobs     = "obs"
	kindEapply   = "eapply"
)

type wireRecordField struct {
	Field uint32
	Value wireExpr
}

type wireMatchArm struct {
	Pattern wirePattern
	Body    wireExpr
}

type wireExpr struct {
	Kind        string
	Sp          wireSpan
	Name        uint32
	N           int64
	Tag         uint32
	Payload     []wireExpr
	Fields      []wireRecordField
	Base        *wireExpr
	Field       uint32
	Op          uint8
	Left        *wireExpr
	Right       *wireExpr
	Operand     *wireExpr
	Pattern     *wirePattern
	Value       *wireExpr
	Body        *wireExpr
	Cond        *wireExpr
	Then        *wireExpr
	Else        *wireExpr
	Scrutinee   *wireExpr
	Arms        []wireMatchArm
	First       *wireExpr
	Second      *wireExpr
	Callee      uint32
	Args        []wireExpr
	ResultTypes []wireType
}

func encodeExpr(e Expr) wireExpr {
	switch e := e.(type) {
	case *Eid:
		return wireExpr{Kind: kindEid, Sp: toWireSpan(e.Sp), Name: uint32(e.Name)}
	case *Evalue:
		return wireExpr{Kind: kindEvalue, Sp: toWireSpan(e.Sp), N: e.N}
	case *Evariant:
		return wireExpr{Kind: kindEvariant, Sp: toWireSpan(e.Sp), Tag: uint32(e.Tag), Payload: encodeExprs(e.Payload)}
	case *Erecord:
		return wireExpr{Kind: kindErecord, Sp: toWireSpan(e.Sp), Fields: encodeRecordFields(e.Fields)}
	case *Ewith:
		base := encodeExpr(e.Base)
		return wireExpr{Kind: kindEwith, Sp: toWireSpan(e.Sp), Base: &base, Fields: encodeRecordFields(e.Fields)}
	case *Efield:
		base := encodeExpr(e.Base)
		return wireExpr{Kind: kindEfield, Sp: toWireSpan(e.Sp), Base: &base, Field: uint32(e.Field)}
	case *Ebinop:
		l, r := encodeExpr(e.Left), encodeExpr(e.Right)
		return wireExpr{Kind: kindEbinop, Sp: toWireSpan(e.Sp), Op: uint8(e.Op), Left: &l, Right: &r}
	case *Euop:
		operand := encodeExpr(e.Operand)
		return wireExpr{Kind: kindEuop, Sp: toWireSpan(e.Sp), Op: uint8(e.Op), Operand: &operand}
	case *Elet:
		pat := encodePattern(e.Pattern)
		val := encodeExpr(e.Value)
		body := encodeExpr(e.Body)
		return wireExpr{Kind: kindElet, Sp: toWireSpan(e.Sp), Pattern: &pat, Value: &val, Body: &body}
	case *Eif:
		cond, then, els := encodeExpr(e.Cond), encodeExpr(e.Then), encodeExpr(e.Else)
		return wireExpr{Kind: kindEif, Sp: toWireSpan(e.Sp), Cond: &cond, Then: &then, Else: &els}
	case *Ematch:
		scrutinee := encodeExpr(e.Scrutinee)
		arms := make([]wireMatchArm, len(e.Arms))
		for i, a := range e.Arms {
			arms[i] = wireMatchArm{Pattern: encodePattern(a.Pattern), Body: encodeExpr(a.Body)}
		}
		return wireExpr{Kind: kindEmatch, Sp: toWireSpan(e.Sp), Scrutinee: &scrutinee, Arms: arms}
	case *Eseq:
		first, second := encodeExpr(e.First), encodeExpr(e.Second)
		return wireExpr{Kind: kindEseq, Sp: toWireSpan(e.Sp), First: &first, Second: &second}
	case *Eobs:
		return wireExpr{Kind: kindEobs, Sp: toWireSpan(e.Sp), Name: uint32(e.Name)}
	case *Eapply:
		return wireExpr{
			Kind:        kindEapply,
			Sp:          toWireSpan(e.Sp),
			Callee:      uint32(e.Callee),
			Args:        encodeExprs(e.Args),
			ResultTypes: encodeTypes(e.ResultTypes),
		}
	default:
		panic(fmt.Sprintf("checkast: unknown Expr shape %T", e))
	}
}

func encodeExprs(es []Expr) []wireExpr {
	out := make([]wireExpr, len(es))
	for i, e := range es {
		out[i] = encodeExpr(e)
	}
	return out
}

func encodeRecordFields(fs []RecordField) []wireRecordField {
	out := make([]wireRecordField, len(fs))
	for i, f := range fs {
		out[i] = wireRecordField{Field: uint32(f.Field), Value: encodeExpr(f.Value)}
	}
	return out
}

func decodeExpr(w wireExpr) Expr {
	sp := fromWireSpan(w.Sp)
	switch w.Kind {
	case kindEid:
		return &Eid{Sp: sp, Name: ident.ID(w.Name)}
	case kindEvalue:
		return &Evalue{Sp: sp, N: w.N}
	case kindEvariant:
		return &Evariant{Sp: sp, Tag: ident.ID(w.Tag), Payload: decodeExprs(w.Payload)}
	case kindErecord:
		return &Erecord{Sp: sp, Fields: decodeRecordFields(w.Fields)}
	case kindEwith:
		return &Ewith{Sp: sp, Base: decodeExpr(*w.Base), Fields: decodeRecordFields(w.Fields)}
	case kindEfield:
		return &Efield{Sp: sp, Base: decodeExpr(*w.Base), Field: ident.ID(w.Field)}
	case kindEbinop:
		return &Ebinop{Sp: sp, Op: BinOp(w.Op), Left: decodeExpr(*w.Left), Right: decodeExpr(*w.Right)}
	case kindEuop:
		return &Euop{Sp: sp, Op: UnOp(w.Op), Operand: decodeExpr(*w.Operand)}
	case kindElet:
		return &Elet{Sp: sp, Pattern: decodePattern(*w.Pattern), Value: decodeExpr(*w.Value), Body: decodeExpr(*w.Body)}
	case kindEif:
		return &Eif{Sp: sp, Cond: decodeExpr(*w.Cond), Then: decodeExpr(*w.Then), Else: decodeExpr(*w.Else)}
	case kindEmatch:
		arms := make([]MatchArm, len(w.Arms))
		for i, a := range w.Arms {
			arms[i] = MatchArm{Pattern: decodePattern(a.Pattern), Body: decodeExpr(a.Body)}
		}
		return &Ematch{Sp: sp, Scrutinee: decodeExpr(*w.Scrutinee), Arms: arms}
	case kindEseq:
		return &Eseq{Sp: sp, First: decodeExpr(*w.First), Second: decodeExpr(*w.Second)}
	case kindEobs:
		return &Eobs{Sp: sp, Name: ident.ID(w.Name)}
	case kindEapply:
		return &Eapply{
			Sp:          sp,
			Callee:      ident.ID(w.Callee),
			Args:        decodeExprs(w.Args),
			ResultTypes: decodeTypes(w.ResultTypes),
		}
	default:
		panic(fmt.Sprintf("checkast: unknown wire expr kind %q", w.Kind))
	}
}

func decodeExprs(ws []wireExpr) []Expr {
	out := make([]Expr, len(ws))
	for i, w := range ws {
		out[i] = decodeExpr(w)
	}
	return out
}

func decodeRecordFields(ws []wireRecordField) []RecordField {
	out := make([]RecordField, len(ws))
	for i, w := range ws {
		out[i] = RecordField{Field: ident.ID(w.Field), Value: decodeExpr(w.Value)}
	}
	return out
}

// --- Decl / Def / Module ---

type wireVariantCase struct {
	Tag     uint32
	Payload []wireType
}

type wireRecordFieldDecl struct {
	Field uint32
	Type  wireType
}

type wireDecl struct {
	Sp       wireSpan
	Name     uint32
	Kind     uint8
	TypeArgs []uint32
	Cases    []wireVariantCase
	Fields   []wireRecordFieldDecl
}

type wireParam struct {
	Pattern wirePattern
	Type    wireType
}

type wireDef struct {
	Sp         wireSpan
	Name       uint32
	Vis        uint8
	Params     []wireParam
	ResultType []wireType
	Body       wireExpr
}

// WireModule is Module's on-the-wire shape: a msgpack-encodable plain
// struct with no interface-typed fields, produced by EncodeModule and
// consumed by DecodeModule. Exported so a caller that already has a
// *WireModule (e.g. after msgpack.Unmarshal) can hand it straight to
// DecodeModule without going through the byte-slice helpers.
type WireModule struct {
	Path  string
	Decls []wireDecl
	Defs  []wireDef
}

func encodeDecl(d Decl) wireDecl {
	cases := make([]wireVariantCase, len(d.Cases))
	for i, c := range d.Cases {
		cases[i] = wireVariantCase{Tag: uint32(c.Tag), Payload: encodeTypes(c.Payload)}
	}
	fields := make([]wireRecordFieldDecl, len(d.Fields))
	for i, f := range d.Fields {
		fields[i] = wireRecordFieldDecl{Field: uint32(f.Field), Type: encodeType(f.Type)}
	}
	typeArgs := make([]uint32, len(d.TypeArgs))
	for i, a := range d.TypeArgs {
		typeArgs[i] = uint32(a)
	}
	return wireDecl{
		Sp:       toWireSpan(d.Sp),
		Name:     uint32(d.Name),
		Kind:     uint8(d.Kind),
		TypeArgs: typeArgs,
		Cases:    cases,
		Fields:   fields,
	}
}

func decodeDecl(w wireDecl) Decl {
	cases := make([]VariantCase, len(w.Cases))
	for i, c := range w.Cases {
		cases[i] = VariantCase{Tag: ident.ID(c.Tag), Payload: decodeTypes(c.Payload)}
	}
	fields := make([]RecordFieldDecl, len(w.Fields))
	for i, f := range w.Fields {
		fields[i] = RecordFieldDecl{Field: ident.ID(f.Field), Type: decodeType(f.Type)}
	}
	typeArgs := make([]ident.ID, len(w.TypeArgs))
	for i, a := range w.TypeArgs {
		typeArgs[i] = ident.ID(a)
	}
	return Decl{
		Sp:       fromWireSpan(w.Sp),
		Name:     ident.ID(w.Name),
		Kind:     DeclKind(w.Kind),
		TypeArgs: typeArgs,
		Cases:    cases,
		Fields:   fields,
	}
}

func encodeDef(d Def) wireDef {
	params := make([]wireParam, len(d.Params))
	for i, p := range d.Params {
		params[i] = wireParam{Pattern: encodePattern(p.Pattern), Type: encodeType(p.Type)}
	}
	return wireDef{
		Sp:         toWireSpan(d.Sp),
		Name:       uint32(d.Name),
		Vis:        uint8(d.Vis),
		Params:     params,
		ResultType: encodeTypes(d.ResultType),
		Body:       encodeExpr(d.Body),
	}
}

func decodeDef(w wireDef) Def {
	params := make([]Param, len(w.Params))
	for i, p := range w.Params {
		params[i] = Param{Pattern: decodePattern(p.Pattern), Type: decodeType(p.Type)}
	}
	return Def{
		Sp:         fromWireSpan(w.Sp),
		Name:       ident.ID(w.Name),
		Vis:        Visibility(w.Vis),
		Params:     params,
		ResultType: decodeTypes(w.ResultType),
		Body:       decodeExpr(w.Body),
	}
}

// EncodeModule converts m to its wire shape.
func EncodeModule(m *Module) *WireModule {
	decls := make([]wireDecl, len(m.Decls))
	for i, d := range m.Decls {
		decls[i] = encodeDecl(d)
	}
	defs := make([]wireDef, len(m.Defs))
	for i, d := range m.Defs {
		defs[i] = encodeDef(d)
	}
	return &WireModule{Path: m.Path, Decls: decls, Defs: defs}
}

// DecodeModule converts a wire shape back to a Module.
func DecodeModule(w *WireModule) *Module {
	decls := make([]Decl, len(w.Decls))
	for i, d := range w.Decls {
		decls[i] = decodeDecl(d)
	}
	defs := make([]Def, len(w.Defs))
	for i, d := range w.Defs {
		defs[i] = decodeDef(d)
	}
	return &Module{Path: w.Path, Decls: decls, Defs: defs}
}

// MarshalModule encodes m as msgpack, the format the CLI reads typed-AST
// module fixtures from.
func MarshalModule(m *Module) ([]byte, error) {
	return msgpack.Marshal(EncodeModule(m))
}

// UnmarshalModule decodes msgpack bytes produced by MarshalModule.
func UnmarshalModule(data []byte) (*Module, error) {
	var w WireModule
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return DecodeModule(&w), nil
}
