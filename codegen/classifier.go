package codegen

import (
	"github.com/Yamashou/tsgenc/typeinfo"
)

// Class is the result of classifying a type descriptor.
type Class int

const (
	// Primitive types are rendered inline and never get their own unit.
	Primitive Class = iota
	// Composite types (enums and structs) get exactly one unit each.
	Composite
)

func (c Class) String() string {
	if c == Composite {
		return "Composite"
	}
	return "Primitive"
}

// TypeClassifier decides whether a type needs its own declaration unit.
type TypeClassifier struct{}

// NewTypeClassifier creates a new TypeClassifier.
func NewTypeClassifier() *TypeClassifier {
	return &TypeClassifier{}
}

// Classify reports whether t is Primitive or Composite.
//
// Optional values are unwrapped first, so ?Color classifies like Color.
//
//   - Bool, String, UUID, Number, Time, Array, Enumerable -> Primitive
//   - Enum, Struct -> Composite
//   - Unsupported -> Primitive
//
// Unsupported types (maps, interfaces, anonymous structs...) have no
// declaration to emit. They are rendered by name where they are used.
func (c *TypeClassifier) Classify(t *typeinfo.Type) Class {
	if t == nil {
		return Primitive
	}
	if t.Unwrap().IsComposite() {
		return Composite
	}
	return Primitive
}

// dependency returns the composite type a field of type t refers to, or nil.
// With elements set, element types of arrays and enumerables are followed too.
func (c *TypeClassifier) dependency(t *typeinfo.Type, elements bool) *typeinfo.Type {
	for t != nil {
		t = t.Unwrap()
		if c.Classify(t) == Composite {
			return t
		}
		if !elements || (t.Kind != typeinfo.KindArray && t.Kind != typeinfo.KindEnumerable) {
			return nil
		}
		t = t.Elem
	}
	return nil
}

// unsupported returns the first Unsupported type found in t, looking through
// optionals, arrays and enumerables.
func (c *TypeClassifier) unsupported(t *typeinfo.Type) *typeinfo.Type {
	for t != nil {
		switch t.Kind {
		case typeinfo.KindUnsupported:
			return t
		case typeinfo.KindOptional, typeinfo.KindArray, typeinfo.KindEnumerable:
			t = t.Elem
		default:
			return nil
		}
	}
	return nil
}
