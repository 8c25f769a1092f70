package registry

import (
	"testing"

	"boundcheck/internal/ident"
)

func TestNewDefaultRecognizesPrimitives(t *testing.T) {
	idents := ident.NewTable()
	reg := NewDefault(idents)

	agetID := idents.Intern("aget")
	if reg.PrimitiveOf(agetID) != PrimAGet {
		t.Fatalf("expected aget to resolve to PrimAGet")
	}

	unrelated := idents.Intern("frobnicate")
	if reg.PrimitiveOf(unrelated) != NotPrimitive {
		t.Fatalf("expected unrelated identifier to not be a primitive")
	}
}

func TestNewDefaultRecognizesTypeConstructors(t *testing.T) {
	idents := ident.NewTable()
	reg := NewDefault(idents)

	observed := idents.Intern("Observed")
	array := idents.Intern("Array")
	if !reg.IsObservedTypeCtor(observed) {
		t.Fatalf("expected Observed to be recognized as the observed type constructor")
	}
	if !reg.IsArrayTypeCtor(array) {
		t.Fatalf("expected Array to be recognized as the array type constructor")
	}
	if reg.IsObservedTypeCtor(array) || reg.IsArrayTypeCtor(observed) {
		t.Fatalf("type constructors must not be confused with each other")
	}
}
