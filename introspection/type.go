// Package introspection holds the GraphQL introspection query and converts its
// result into a gqlparser schema document.
package introspection

// TypeKind is the __TypeKind of an introspected type.
type TypeKind string

const (
	TypeKindScalar      TypeKind = "SCALAR"
	TypeKindObject      TypeKind = "OBJECT"
	TypeKindInterface   TypeKind = "INTERFACE"
	TypeKindUnion       TypeKind = "UNION"
	TypeKindEnum        TypeKind = "ENUM"
	TypeKindInputObject TypeKind = "INPUT_OBJECT"
	TypeKindList        TypeKind = "LIST"
	TypeKindNonNull     TypeKind = "NON_NULL"
)

// Query is the data returned for the Introspection query.
type Query struct {
	Schema struct {
		QueryType        *OperationType `json:"queryType"`
		MutationType     *OperationType `json:"mutationType"`
		SubscriptionType *OperationType `json:"subscriptionType"`
		Types            []*FullType    `json:"types"`
	} `json:"__schema"`
}

type OperationType struct {
	Name *string `json:"name"`
}

// FullType is one entry of __schema.types. Only the members needed to rebuild
// field types are requested.
type FullType struct {
	Kind          TypeKind     `json:"kind"`
	Name          *string      `json:"name"`
	Description   *string      `json:"description"`
	Fields        []*Field     `json:"fields"`
	InputFields   []*Value     `json:"inputFields"`
	Interfaces    []*TypeRef   `json:"interfaces"`
	EnumValues    []*EnumValue `json:"enumValues"`
	PossibleTypes []*TypeRef   `json:"possibleTypes"`
}

type Field struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Args        []*Value `json:"args"`
	Type        TypeRef  `json:"type"`
}

// Value is an argument or an input object field.
type Value struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Type        TypeRef `json:"type"`
}

type EnumValue struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// TypeRef is a possibly wrapped reference to a named type. LIST and NON_NULL
// wrap OfType.
type TypeRef struct {
	Kind   TypeKind `json:"kind"`
	Name   *string  `json:"name"`
	OfType *TypeRef `json:"ofType"`
}
