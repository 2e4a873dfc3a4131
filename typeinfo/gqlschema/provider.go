// Package gqlschema provides type metadata for GraphQL schemas parsed by
// gqlparser.
package gqlschema

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/Yamashou/tsgenc/typeinfo"
)

const (
	// NameDirective overrides the emitted field name: @tsName(name: "x").
	NameDirective = "tsName"
	// IgnoreDirective drops a field from the emitted class: @tsIgnore.
	IgnoreDirective = "tsIgnore"
)

// Directives declares the directives read by the provider. It is added to the
// sources loaded by LoadFiles.
const Directives = `directive @tsName(name: String!) on FIELD_DEFINITION | INPUT_FIELD_DEFINITION
directive @tsIgnore on FIELD_DEFINITION | INPUT_FIELD_DEFINITION
`

// Provider maps gqlparser definitions to typeinfo descriptors.
//
// Nullable scalars, enums and lists become Optional. Object and input object
// references are reference types and never Optional.
type Provider struct {
	schema  *ast.Schema
	scalars map[string]*typeinfo.Type

	mu    sync.Mutex
	named map[string]*typeinfo.Type
	refs  map[string]*typeinfo.Type
}

var _ typeinfo.Provider = (*Provider)(nil)

type Option func(*Provider)

// WithScalar maps a custom scalar to a descriptor. Unmapped custom scalars
// are strings.
func WithScalar(name string, t *typeinfo.Type) Option {
	return func(p *Provider) {
		p.scalars[name] = t
	}
}

// ScalarType resolves the descriptor names accepted in configuration.
func ScalarType(name string) (*typeinfo.Type, error) {
	switch strings.ToLower(name) {
	case "string":
		return typeinfo.StringType, nil
	case "number":
		return typeinfo.NumberType, nil
	case "boolean", "bool":
		return typeinfo.BoolType, nil
	case "uuid":
		return typeinfo.UUIDType, nil
	case "time":
		return typeinfo.TimeType, nil
	}
	return nil, fmt.Errorf("unknown scalar type %q, want one of string, number, boolean, uuid, time", name)
}

func New(schema *ast.Schema, options ...Option) *Provider {
	p := &Provider{
		schema: schema,
		scalars: map[string]*typeinfo.Type{
			"String":   typeinfo.StringType,
			"ID":       typeinfo.StringType,
			"Int":      typeinfo.NumberType,
			"Float":    typeinfo.NumberType,
			"Boolean":  typeinfo.BoolType,
			"Time":     typeinfo.TimeType,
			"DateTime": typeinfo.TimeType,
			"Date":     typeinfo.TimeType,
			"UUID":     typeinfo.UUIDType,
		},
		named: make(map[string]*typeinfo.Type),
		refs:  make(map[string]*typeinfo.Type),
	}
	for _, option := range options {
		option(p)
	}

	return p
}

// Schema returns the schema the provider reads.
func (p *Provider) Schema() *ast.Schema {
	return p.schema
}

// Lookup returns the descriptor of an object, input object or enum.
func (p *Provider) Lookup(name string) (*typeinfo.Type, error) {
	def, ok := p.schema.Types[name]
	if !ok {
		return nil, fmt.Errorf("type %s not found in schema", name)
	}
	if !isModel(def) {
		return nil, fmt.Errorf("type %s is a %s, want OBJECT, INPUT_OBJECT or ENUM", name, def.Kind)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.definition(def), nil
}

// Roots returns every object, input object and enum of the schema except the
// operation root types and built-in definitions, ordered by name.
func (p *Provider) Roots() []*typeinfo.Type {
	operations := map[*ast.Definition]bool{
		p.schema.Query:        true,
		p.schema.Mutation:     true,
		p.schema.Subscription: true,
	}

	names := make([]string, 0, len(p.schema.Types))
	for name, def := range p.schema.Types {
		if def.BuiltIn || operations[def] || strings.HasPrefix(name, "__") || !isModel(def) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)

	p.mu.Lock()
	defer p.mu.Unlock()

	roots := make([]*typeinfo.Type, 0, len(names))
	for _, name := range names {
		roots = append(roots, p.definition(p.schema.Types[name]))
	}
	return roots
}

// TypeOf returns the descriptor of a field type reference.
func (p *Provider) TypeOf(t *ast.Type) *typeinfo.Type {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.typeOf(t)
}

func (p *Provider) typeOf(t *ast.Type) *typeinfo.Type {
	key := t.String()
	if cached, ok := p.refs[key]; ok {
		return cached
	}

	var ti *typeinfo.Type
	if t.Elem != nil {
		ti = typeinfo.EnumerableOf(p.typeOf(t.Elem))
	} else {
		ti = p.definition(p.schema.Types[t.NamedType])
		if ti == nil {
			ti = typeinfo.NewUnsupported(t.NamedType, t)
		}
	}
	if !t.NonNull && ti.Kind != typeinfo.KindStruct {
		ti = typeinfo.OptionalOf(ti)
	}

	p.refs[key] = ti
	return ti
}

func (p *Provider) definition(def *ast.Definition) *typeinfo.Type {
	if def == nil {
		return nil
	}
	if cached, ok := p.named[def.Name]; ok {
		return cached
	}

	var t *typeinfo.Type
	switch def.Kind {
	case ast.Scalar:
		t = p.scalars[def.Name]
		if t == nil {
			t = typeinfo.StringType
		}
	case ast.Object, ast.InputObject:
		t = typeinfo.NewStruct("", def.Name, def)
	case ast.Enum:
		t = typeinfo.NewEnum("", def.Name, def)
	default:
		t = typeinfo.NewUnsupported(def.Name, def)
	}

	p.named[def.Name] = t
	return t
}

// Fields returns the fields of an object or input object in schema order.
func (p *Provider) Fields(t *typeinfo.Type) ([]*typeinfo.Field, error) {
	def, ok := t.Source.(*ast.Definition)
	if !ok || (def.Kind != ast.Object && def.Kind != ast.InputObject) {
		return nil, fmt.Errorf("gqlschema: %s is not an object type", t)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fields := make([]*typeinfo.Field, 0, len(def.Fields))
	for _, f := range def.Fields {
		if strings.HasPrefix(f.Name, "__") {
			continue
		}
		fields = append(fields, &typeinfo.Field{
			Name:        f.Name,
			Type:        p.typeOf(f.Type),
			Annotations: annotations(f.Directives),
		})
	}

	return fields, nil
}

// Members returns the enum values in schema order, numbered from zero.
func (p *Provider) Members(t *typeinfo.Type) ([]typeinfo.Member, error) {
	def, ok := t.Source.(*ast.Definition)
	if !ok || def.Kind != ast.Enum {
		return nil, fmt.Errorf("gqlschema: %s is not an enum type", t)
	}

	members := make([]typeinfo.Member, 0, len(def.EnumValues))
	for i, v := range def.EnumValues {
		members = append(members, typeinfo.Member{Name: v.Name, Value: int64(i)})
	}

	return members, nil
}

func annotations(directives ast.DirectiveList) typeinfo.Annotations {
	var a typeinfo.Annotations
	if directives.ForName(IgnoreDirective) != nil {
		a.Ignore = true
	}
	if d := directives.ForName(NameDirective); d != nil {
		if arg := d.Arguments.ForName("name"); arg != nil && arg.Value != nil {
			a.OverrideName = arg.Value.Raw
		}
	}
	return a
}

func isModel(def *ast.Definition) bool {
	switch def.Kind {
	case ast.Object, ast.InputObject, ast.Enum:
		return true
	}
	return false
}
