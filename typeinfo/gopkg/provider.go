// Package gopkg provides type metadata for Go source code through go/types.
package gopkg

import (
	"cmp"
	"context"
	"fmt"
	"go/constant"
	"go/types"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/types/typeutil"

	"github.com/Yamashou/tsgenc/typeinfo"
)

// Provider maps go/types types to typeinfo descriptors.
//
// Identical Go types map to the same *typeinfo.Type.
type Provider struct {
	structTag string
	logger    *zap.Logger
	pkgs      []*types.Package

	mu    sync.Mutex
	cache typeutil.Map

	// converting holds the types whose conversion is on the stack.
	converting typeutil.Map
}

var _ typeinfo.Provider = (*Provider)(nil)

type Option func(*Provider)

// WithStructTag sets the struct tag key read for field annotations. Default: "json".
func WithStructTag(key string) Option {
	return func(p *Provider) {
		if key != "" {
			p.structTag = key
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// New creates a Provider over already type-checked packages.
func New(pkgs []*types.Package, options ...Option) *Provider {
	p := &Provider{
		structTag: typeinfo.DefaultStructTag,
		logger:    zap.NewNop(),
		pkgs:      pkgs,
	}
	for _, option := range options {
		option(p)
	}

	return p
}

// Load loads the packages matching patterns, relative to dir, and creates a
// Provider over them.
func Load(ctx context.Context, dir string, patterns []string, options ...Option) (*Provider, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode:    packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages %v: %w", patterns, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found for %v", patterns)
	}

	typesPkgs := make([]*types.Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package errors: %v", pkg.Errors)
		}
		typesPkgs = append(typesPkgs, pkg.Types)
	}

	p := New(typesPkgs, options...)
	for _, pkg := range typesPkgs {
		p.logger.Debug("loaded package", zap.String("path", pkg.Path()))
	}

	return p, nil
}

// Lookup finds a type by name. The name is either a bare type name, searched
// in every loaded package, or an import path qualified name such as
// "example.com/models.User".
func (p *Provider) Lookup(name string) (*typeinfo.Type, error) {
	pkgPath, typeName := "", name
	if i := strings.LastIndex(name, "."); i > strings.LastIndex(name, "/") {
		pkgPath, typeName = name[:i], name[i+1:]
	}

	var found []*types.TypeName
	for _, pkg := range p.pkgs {
		if pkgPath != "" && pkg.Path() != pkgPath {
			continue
		}
		if obj, ok := pkg.Scope().Lookup(typeName).(*types.TypeName); ok {
			found = append(found, obj)
		}
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("type %s not found", name)
	case 1:
	default:
		return nil, fmt.Errorf("type %s is ambiguous, qualify it with its import path", name)
	}

	t := p.TypeOf(found[0].Type())
	if !t.IsComposite() {
		return nil, fmt.Errorf("type %s is not a struct or an enum", name)
	}

	return t, nil
}

// Roots returns every exported struct and enum declared in the loaded
// packages, ordered by package path and type name.
func (p *Provider) Roots() []*typeinfo.Type {
	pkgs := slices.SortedFunc(slices.Values(p.pkgs), func(a, b *types.Package) int {
		return cmp.Compare(a.Path(), b.Path())
	})

	var roots []*typeinfo.Type
	for _, pkg := range pkgs {
		scope := pkg.Scope()
		for _, name := range scope.Names() {
			obj, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !obj.Exported() || obj.IsAlias() {
				continue
			}
			if named, ok := obj.Type().(*types.Named); ok && named.TypeParams().Len() > 0 {
				continue
			}
			if t := p.TypeOf(obj.Type()); t.IsComposite() {
				roots = append(roots, t)
			}
		}
	}

	return roots
}

// TypeOf returns the descriptor of a Go type.
func (p *Provider) TypeOf(t types.Type) *typeinfo.Type {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.typeOf(t)
}

func (p *Provider) typeOf(t types.Type) *typeinfo.Type {
	if cached, ok := p.cache.At(t).(*typeinfo.Type); ok {
		return cached
	}
	// type Tree []Tree refers to itself through its underlying type
	if p.converting.At(t) != nil {
		return typeinfo.NewUnsupported(typeString(t), t)
	}
	p.converting.Set(t, true)
	ti := p.convert(t)
	p.converting.Delete(t)
	p.cache.Set(t, ti)

	return ti
}

func (p *Provider) convert(t types.Type) *typeinfo.Type {
	switch tt := t.(type) {
	case *types.Alias:
		return p.typeOf(types.Unalias(tt))
	case *types.Basic:
		return basicType(tt)
	case *types.Pointer:
		// pointers to structs are references, like class types
		elem := p.typeOf(tt.Elem())
		if elem.Kind == typeinfo.KindStruct {
			return elem
		}
		return typeinfo.OptionalOf(elem)
	case *types.Slice:
		if isByte(tt.Elem()) {
			// encoding/json writes []byte as a base64 string
			return typeinfo.StringType
		}
		return typeinfo.EnumerableOf(p.typeOf(tt.Elem()))
	case *types.Array:
		return typeinfo.ArrayOf(p.typeOf(tt.Elem()))
	case *types.Named:
		return p.named(tt)
	}

	return typeinfo.NewUnsupported(typeString(t), t)
}

func (p *Provider) named(t *types.Named) *typeinfo.Type {
	obj := t.Obj()
	pkgPath := ""
	if obj.Pkg() != nil {
		pkgPath = obj.Pkg().Path()
	}

	if known, ok := wellKnown[pkgPath+"."+obj.Name()]; ok {
		return known
	}
	if pkgPath == "database/sql" && obj.Name() == "Null" && t.TypeArgs().Len() == 1 {
		return typeinfo.OptionalOf(p.typeOf(t.TypeArgs().At(0)))
	}

	switch u := t.Underlying().(type) {
	case *types.Struct:
		name, ok := instanceName(t)
		if !ok {
			return typeinfo.NewUnsupported(typeString(t), t)
		}
		return typeinfo.NewStruct(pkgPath, name, t)
	case *types.Basic:
		if u.Info()&types.IsInteger != 0 && len(enumConsts(t)) > 0 {
			return typeinfo.NewEnum(pkgPath, obj.Name(), t)
		}
		return p.typeOf(u)
	case *types.Interface:
		return typeinfo.NewUnsupported(typeString(t), t)
	}

	return p.typeOf(t.Underlying())
}

// Fields returns the exported fields of a struct in declaration order.
// Embedded structs without a tag name are flattened like encoding/json does.
func (p *Provider) Fields(t *typeinfo.Type) ([]*typeinfo.Field, error) {
	named, ok := t.Source.(*types.Named)
	if !ok {
		return nil, fmt.Errorf("gopkg: %s is not a Go named type", t)
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, fmt.Errorf("gopkg: %s is not a struct", t)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var fields []depthField
	p.collectFields(st, 0, map[*types.Struct]bool{}, &fields)

	return dominantFields(fields), nil
}

type depthField struct {
	*typeinfo.Field
	depth int
}

func (p *Provider) collectFields(st *types.Struct, depth int, seen map[*types.Struct]bool, out *[]depthField) {
	if seen[st] {
		return
	}
	seen[st] = true
	defer delete(seen, st)

	for i := range st.NumFields() {
		f := st.Field(i)
		annotations := typeinfo.ParseTag(st.Tag(i), p.structTag)
		if annotations.Ignore {
			continue
		}

		if f.Embedded() && annotations.OverrideName == "" {
			if embedded := structOf(f.Type()); embedded != nil {
				p.collectFields(embedded, depth+1, seen, out)
				continue
			}
		}
		if !f.Exported() {
			continue
		}

		*out = append(*out, depthField{
			Field: &typeinfo.Field{
				Name:        f.Name(),
				Type:        p.typeOf(f.Type()),
				Annotations: annotations,
			},
			depth: depth,
		})
	}
}

// dominantFields keeps, for every output name, the shallowest field.
func dominantFields(fields []depthField) []*typeinfo.Field {
	shallowest := make(map[string]int, len(fields))
	for _, f := range fields {
		key := outputKey(f.Field)
		if d, ok := shallowest[key]; !ok || f.depth < d {
			shallowest[key] = f.depth
		}
	}

	result := make([]*typeinfo.Field, 0, len(fields))
	emitted := make(map[string]bool, len(fields))
	for _, f := range fields {
		key := outputKey(f.Field)
		if f.depth != shallowest[key] || emitted[key] {
			continue
		}
		emitted[key] = true
		result = append(result, f.Field)
	}
	return result
}

func outputKey(f *typeinfo.Field) string {
	if f.Annotations.OverrideName != "" {
		return f.Annotations.OverrideName
	}
	return f.Name
}

// Members returns the exported constants of an enum type in declaration order.
func (p *Provider) Members(t *typeinfo.Type) ([]typeinfo.Member, error) {
	named, ok := t.Source.(*types.Named)
	if !ok {
		return nil, fmt.Errorf("gopkg: %s is not a Go named type", t)
	}

	consts := enumConsts(named)
	members := make([]typeinfo.Member, 0, len(consts))
	for _, c := range consts {
		v, _ := constant.Int64Val(constant.ToInt(c.Val()))
		members = append(members, typeinfo.Member{Name: c.Name(), Value: v})
	}

	return members, nil
}

// enumConsts returns the exported package level constants of type t, in
// source order.
func enumConsts(t *types.Named) []*types.Const {
	pkg := t.Obj().Pkg()
	if pkg == nil {
		return nil
	}

	var consts []*types.Const
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok || !c.Exported() || !types.Identical(c.Type(), t) {
			continue
		}
		consts = append(consts, c)
	}
	slices.SortStableFunc(consts, func(a, b *types.Const) int {
		return cmp.Compare(a.Pos(), b.Pos())
	})

	return consts
}
