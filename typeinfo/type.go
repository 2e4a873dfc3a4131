// Package typeinfo describes the type graph that tsgenc walks.
//
// A *Type is an opaque handle into some host type system (Go source, Go
// runtime reflection, a GraphQL schema). Handles are compared by pointer, so a
// Provider must hand out the same *Type every time it sees the same host type.
package typeinfo

import (
	"fmt"
)

// Kind identifies the category of a type descriptor.
type Kind int

const (
	KindUnsupported Kind = iota // maps, interfaces, funcs, tuples and everything else without a mapping
	KindBool
	KindString
	KindUUID
	KindNumber
	KindTime
	KindArray      // fixed length array, [N]T
	KindEnumerable // single type parameter sequence, []T
	KindOptional   // value that may be absent, *T or sql.Null[T]
	KindEnum
	KindStruct
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindString:
		return "String"
	case KindUUID:
		return "UUID"
	case KindNumber:
		return "Number"
	case KindTime:
		return "Time"
	case KindArray:
		return "Array"
	case KindEnumerable:
		return "Enumerable"
	case KindOptional:
		return "Optional"
	case KindEnum:
		return "Enum"
	case KindStruct:
		return "Struct"
	default:
		return "Unsupported"
	}
}

// Type is a type descriptor.
type Type struct {
	Kind Kind
	// Name is the declared name for Enum and Struct, and a best-effort
	// rendering of the host type for Unsupported.
	Name    string
	PkgPath string
	// Elem is set for Array, Enumerable and Optional.
	Elem *Type
	// Source is the provider's host handle (types.Type, reflect.Type, *ast.Definition).
	Source any
}

var (
	BoolType   = &Type{Kind: KindBool, Name: "bool"}
	StringType = &Type{Kind: KindString, Name: "string"}
	UUIDType   = &Type{Kind: KindUUID, Name: "uuid"}
	NumberType = &Type{Kind: KindNumber, Name: "number"}
	TimeType   = &Type{Kind: KindTime, Name: "time"}
)

func ArrayOf(elem *Type) *Type {
	return &Type{Kind: KindArray, Elem: elem}
}

func EnumerableOf(elem *Type) *Type {
	return &Type{Kind: KindEnumerable, Elem: elem}
}

// OptionalOf wraps t as a value that may be absent. Wrapping an Optional
// again returns it unchanged.
func OptionalOf(t *Type) *Type {
	if t.Kind == KindOptional {
		return t
	}
	return &Type{Kind: KindOptional, Elem: t}
}

func NewEnum(pkgPath, name string, source any) *Type {
	return &Type{Kind: KindEnum, Name: name, PkgPath: pkgPath, Source: source}
}

func NewStruct(pkgPath, name string, source any) *Type {
	return &Type{Kind: KindStruct, Name: name, PkgPath: pkgPath, Source: source}
}

func NewUnsupported(name string, source any) *Type {
	return &Type{Kind: KindUnsupported, Name: name, Source: source}
}

// Unwrap removes an Optional wrapper. Other kinds are returned as is.
func (t *Type) Unwrap() *Type {
	if t.Kind == KindOptional && t.Elem != nil {
		return t.Elem
	}
	return t
}

// IsComposite reports whether t is an enum or a struct.
func (t *Type) IsComposite() bool {
	return t.Kind == KindEnum || t.Kind == KindStruct
}

func (t *Type) String() string {
	switch t.Kind {
	case KindArray:
		return fmt.Sprintf("[...]%s", t.Elem)
	case KindEnumerable:
		return fmt.Sprintf("[]%s", t.Elem)
	case KindOptional:
		return fmt.Sprintf("?%s", t.Elem)
	case KindEnum, KindStruct:
		if t.PkgPath != "" {
			return t.PkgPath + "." + t.Name
		}
	}
	return t.Name
}

// Annotations are the per-field markers that change how a field is emitted.
type Annotations struct {
	// OverrideName replaces the field name verbatim when not empty.
	OverrideName string
	Ignore       bool
}

// Field is a public instance field of a struct type.
type Field struct {
	Name        string
	Type        *Type
	Annotations Annotations
}

// Member is one enumeration constant.
type Member struct {
	Name  string
	Value int64
}

// Provider exposes the metadata of a host type system.
type Provider interface {
	// Fields returns the public instance fields of a Struct in declaration order.
	Fields(t *Type) ([]*Field, error)
	// Members returns the members of an Enum in declaration order.
	Members(t *Type) ([]Member, error)
}
