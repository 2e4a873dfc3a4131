package introspection

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// builtinScalars are declared by the gqlparser prelude.
var builtinScalars = map[string]bool{
	"Int":     true,
	"Float":   true,
	"String":  true,
	"Boolean": true,
	"ID":      true,
}

// SchemaDocument rebuilds the type system of an introspection result. Types
// provided by the gqlparser prelude (built-in scalars and "__" types) are left
// out. Directives and default values are not carried over.
func SchemaDocument(q *Query) *ast.SchemaDocument {
	doc := &ast.SchemaDocument{}

	schema := &ast.SchemaDefinition{}
	for _, op := range []struct {
		operation ast.Operation
		typ       *OperationType
	}{
		{ast.Query, q.Schema.QueryType},
		{ast.Mutation, q.Schema.MutationType},
		{ast.Subscription, q.Schema.SubscriptionType},
	} {
		if op.typ == nil || op.typ.Name == nil {
			continue
		}
		schema.OperationTypes = append(schema.OperationTypes, &ast.OperationTypeDefinition{
			Operation: op.operation,
			Type:      *op.typ.Name,
		})
	}
	if len(schema.OperationTypes) > 0 {
		doc.Schema = append(doc.Schema, schema)
	}

	for _, typ := range q.Schema.Types {
		if typ.Name == nil || strings.HasPrefix(*typ.Name, "__") || builtinScalars[*typ.Name] {
			continue
		}
		if def := definition(typ); def != nil {
			doc.Definitions = append(doc.Definitions, def)
		}
	}

	return doc
}

func definition(typ *FullType) *ast.Definition {
	def := &ast.Definition{
		Name:        *typ.Name,
		Description: deref(typ.Description),
	}

	switch typ.Kind {
	case TypeKindScalar:
		def.Kind = ast.Scalar
	case TypeKindObject, TypeKindInterface:
		def.Kind = ast.Object
		if typ.Kind == TypeKindInterface {
			def.Kind = ast.Interface
		}
		for _, f := range typ.Fields {
			def.Fields = append(def.Fields, &ast.FieldDefinition{
				Name:        f.Name,
				Description: deref(f.Description),
				Arguments:   arguments(f.Args),
				Type:        typeRef(&f.Type),
			})
		}
		for _, i := range typ.Interfaces {
			if i.Name != nil {
				def.Interfaces = append(def.Interfaces, *i.Name)
			}
		}
	case TypeKindInputObject:
		def.Kind = ast.InputObject
		for _, f := range typ.InputFields {
			def.Fields = append(def.Fields, &ast.FieldDefinition{
				Name:        f.Name,
				Description: deref(f.Description),
				Type:        typeRef(&f.Type),
			})
		}
	case TypeKindEnum:
		def.Kind = ast.Enum
		for _, v := range typ.EnumValues {
			def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{
				Name:        v.Name,
				Description: deref(v.Description),
			})
		}
	case TypeKindUnion:
		def.Kind = ast.Union
		for _, p := range typ.PossibleTypes {
			if p.Name != nil {
				def.Types = append(def.Types, *p.Name)
			}
		}
	default:
		return nil
	}

	return def
}

func arguments(args []*Value) ast.ArgumentDefinitionList {
	var list ast.ArgumentDefinitionList
	for _, arg := range args {
		list = append(list, &ast.ArgumentDefinition{
			Name:        arg.Name,
			Description: deref(arg.Description),
			Type:        typeRef(&arg.Type),
		})
	}
	return list
}

func typeRef(ref *TypeRef) *ast.Type {
	if ref == nil {
		return ast.NamedType("", nil)
	}

	switch ref.Kind {
	case TypeKindNonNull:
		t := typeRef(ref.OfType)
		t.NonNull = true
		return t
	case TypeKindList:
		return ast.ListType(typeRef(ref.OfType), nil)
	default:
		return ast.NamedType(deref(ref.Name), nil)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
