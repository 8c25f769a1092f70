package diag

import "fmt"

// Code identifies the kind of a diagnostic.
//
// The 1000-series belongs to the normalizer (structural checks over the
// naming-stage AST, §4.1). The 2000-series belongs to the bound checker
// (abstract interpretation over the stripped AST, §4.2). This mirrors the
// coarse per-stage ranges the compiler uses for its lexer/parser/sema codes,
// scaled down to the two passes this repository implements.
type Code uint16

const (
	UnknownCode Code = 0

	// Normalizer diagnostics ("Structural" in §7).
	NormInfo            Code = 1000
	NormPolyIsNotPrim   Code = 1001 // poly_is_not_prim(position)
	NormObsNotValue     Code = 1002 // obs_not_value(position)
	NormObsNotAllowed   Code = 1003 // obs_not_allowed(position)
	NormInfiniteLoop    Code = 1004 // infinite_loop(position)

	// Bound checker diagnostics ("Bound" in §7).
	BoundInfo              Code = 2000
	BoundExpectedPrimArray Code = 2001 // expected_prim_array(position)
	BoundNeg               Code = 2002 // bound_neg(position)
	BoundLow               Code = 2003 // bound_low(position)
	BoundUp                Code = 2004 // bound_up(position, witness)

	// Internal invariant breaches (§4.2 "Failure semantics", §7). These are
	// fatal by construction: the normalizer/checker call panic instead of
	// reporting through the Reporter, so no diagnostic Code is emitted for
	// them. Kept here only so a future harness has a slot to log the
	// recovered panic message under, should it choose to.
	InternalInvariant Code = 9000
)

var codeDescription = map[Code]string{
	UnknownCode:            "unknown diagnostic",
	NormInfo:               "normalizer information",
	NormPolyIsNotPrim:      "primitive type used as polymorphic type argument",
	NormObsNotValue:        "observed type used in value position",
	NormObsNotAllowed:      "observed type constructor applied outside the function-argument position",
	NormInfiniteLoop:       "call site cannot terminate (inferred return type is unconstrainable)",
	BoundInfo:              "bound checker information",
	BoundExpectedPrimArray: "array element type must be primitive for this operation",
	BoundNeg:               "index may be negative",
	BoundLow:               "index is not known to be non-negative",
	BoundUp:                "index is not known to be within the array's declared length",
	InternalInvariant:      "internal invariant violated",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("NORM%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("BND%04d", ic)
	case ic >= 9000:
		return fmt.Sprintf("INT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
