package codegen

import (
	"github.com/Yamashou/tsgenc/naming"
	"github.com/Yamashou/tsgenc/typeinfo"
)

// TypeMapper renders the TypeScript type text of a field.
type TypeMapper struct {
	typeNamer naming.Policy
}

// NewTypeMapper creates a TypeMapper that names enums and structs with typeNamer.
func NewTypeMapper(typeNamer naming.Policy) *TypeMapper {
	return &TypeMapper{typeNamer: typeNamer}
}

// Render maps a type descriptor to TypeScript:
//
//	string, uuid, time      -> string
//	bool                    -> boolean
//	every numeric width     -> number
//	enum, struct            -> the rendered type name
//	array, enumerable of E  -> Render(E)[]
//	optional X              -> Render(X) | null
//
// Unsupported types fall through to their rendered name.
func (m *TypeMapper) Render(t *typeinfo.Type) string {
	if t == nil {
		return "unknown"
	}

	switch t.Kind {
	case typeinfo.KindString, typeinfo.KindUUID, typeinfo.KindTime:
		return "string"
	case typeinfo.KindBool:
		return "boolean"
	case typeinfo.KindNumber:
		return "number"
	case typeinfo.KindArray, typeinfo.KindEnumerable:
		elem := m.Render(t.Elem)
		if t.Elem != nil && t.Elem.Kind == typeinfo.KindOptional {
			// (X | null)[], not X | null[]
			return "(" + elem + ")[]"
		}
		return elem + "[]"
	case typeinfo.KindOptional:
		return m.Render(t.Elem) + " | null"
	default:
		return m.TypeName(t)
	}
}

// TypeName returns the rendered declaration name of t.
func (m *TypeMapper) TypeName(t *typeinfo.Type) string {
	return m.typeNamer(t.Name)
}
