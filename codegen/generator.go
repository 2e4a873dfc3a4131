// Package codegen walks a type graph and renders one TypeScript declaration
// unit per enum and struct, dependencies first.
package codegen

import (
	"slices"

	"go.uber.org/zap"

	"github.com/Yamashou/tsgenc/naming"
	"github.com/Yamashou/tsgenc/typeinfo"
)

// Generator renders declaration units from a Provider.
//
// A Generator holds no per-call state; Generate may be called concurrently as
// long as the Provider supports concurrent reads.
type Generator struct {
	provider   typeinfo.Provider
	classifier *TypeClassifier
	mapper     *TypeMapper
	fieldNamer naming.Policy
	unitNamer  naming.Policy
	unitSuffix string
	cycles     CyclePolicy
	elements   bool
	logger     *zap.Logger
}

type Option func(*Generator)

// WithTypeNamer sets the policy for enum and class names. Default: naming.PascalCase.
func WithTypeNamer(p naming.Policy) Option {
	return func(g *Generator) {
		g.mapper = NewTypeMapper(p)
	}
}

// WithFieldNamer sets the policy for field names. Default: naming.CamelCase.
func WithFieldNamer(p naming.Policy) Option {
	return func(g *Generator) {
		g.fieldNamer = p
	}
}

// WithUnitNamer sets the policy for unit file stems. Default: naming.PascalCase.
func WithUnitNamer(p naming.Policy) Option {
	return func(g *Generator) {
		g.unitNamer = p
	}
}

// WithUnitSuffix sets the suffix of unit names. Default: ".model.ts".
func WithUnitSuffix(suffix string) Option {
	return func(g *Generator) {
		g.unitSuffix = suffix
	}
}

func WithCyclePolicy(p CyclePolicy) Option {
	return func(g *Generator) {
		g.cycles = p
	}
}

// WithElementTypes makes the walker also descend into the element types of
// arrays and enumerables, so []Item emits a unit for Item.
func WithElementTypes(follow bool) Option {
	return func(g *Generator) {
		g.elements = follow
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a Generator reading type metadata from provider.
func New(provider typeinfo.Provider, options ...Option) *Generator {
	g := &Generator{
		provider:   provider,
		classifier: NewTypeClassifier(),
		mapper:     NewTypeMapper(naming.PascalCase),
		fieldNamer: naming.CamelCase,
		unitNamer:  naming.PascalCase,
		unitSuffix: DefaultUnitSuffix,
		cycles:     AllowCycles,
		logger:     zap.NewNop(),
	}
	for _, option := range options {
		option(g)
	}

	return g
}

// Generate walks root and every type reachable through its fields.
//
// Errors returned by the Provider are passed through unchanged. Apart from
// those, Generate only fails with *CycleError (under RejectCycles) and
// *CollisionError.
func (g *Generator) Generate(root *typeinfo.Type) (*Result, error) {
	return g.GenerateAll(root)
}

// GenerateAll is Generate for several roots sharing one visited set, so a
// type reachable from more than one root is still emitted once.
func (g *Generator) GenerateAll(roots ...*typeinfo.Type) (*Result, error) {
	w := &walker{
		Generator: g,
		state:     make(map[*typeinfo.Type]visitState),
		byName:    make(map[string]*Unit),
		result:    &Result{},
	}
	for _, root := range roots {
		if root == nil {
			continue
		}
		if err := w.visit(root.Unwrap()); err != nil {
			return nil, err
		}
	}

	g.logger.Debug("generated units", zap.Int("units", len(w.result.Units)), zap.Int("forward_refs", len(w.result.ForwardRefs)))

	return w.result, nil
}

type visitState int

const (
	unvisited visitState = iota
	skipped
	visiting
	emitted
)

// walker is the state of one GenerateAll call.
type walker struct {
	*Generator
	state  map[*typeinfo.Type]visitState
	stack  []*typeinfo.Type
	byName map[string]*Unit
	result *Result
}

func (w *walker) visit(t *typeinfo.Type) error {
	if w.state[t] != unvisited {
		return nil
	}
	if w.classifier.Classify(t) == Primitive {
		w.state[t] = skipped
		return nil
	}

	w.state[t] = visiting
	w.stack = append(w.stack, t)
	defer func() {
		w.stack = w.stack[:len(w.stack)-1]
	}()

	w.logger.Debug("visit", zap.Stringer("type", t), zap.Stringer("kind", t.Kind))

	var decl Declaration
	var err error
	if t.Kind == typeinfo.KindEnum {
		decl, err = w.enumDecl(t)
	} else {
		decl, err = w.classDecl(t)
	}
	if err != nil {
		return err
	}

	w.state[t] = emitted
	return w.emit(t, decl)
}

func (w *walker) enumDecl(t *typeinfo.Type) (*EnumDecl, error) {
	members, err := w.provider.Members(t)
	if err != nil {
		return nil, err
	}

	decl := &EnumDecl{
		Name:    w.mapper.TypeName(t),
		Members: make([]*EnumMember, 0, len(members)),
	}
	for _, m := range members {
		decl.Members = append(decl.Members, &EnumMember{Name: m.Name, Value: m.Value})
	}
	return decl, nil
}

func (w *walker) classDecl(t *typeinfo.Type) (*ClassDecl, error) {
	fields, err := w.provider.Fields(t)
	if err != nil {
		return nil, err
	}

	kept := make([]*typeinfo.Field, 0, len(fields))
	for _, f := range fields {
		if f.Annotations.Ignore {
			continue
		}
		kept = append(kept, f)
	}

	// dependencies first, so they precede t in the output
	for _, f := range kept {
		dep := w.classifier.dependency(f.Type, w.elements)
		if dep == nil {
			continue
		}
		if w.state[dep] == visiting {
			if err := w.backEdge(t, dep, f); err != nil {
				return nil, err
			}
			continue
		}
		if err := w.visit(dep); err != nil {
			return nil, err
		}
	}

	decl := &ClassDecl{
		Name:       w.mapper.TypeName(t),
		Properties: make([]*Property, 0, len(kept)),
	}
	for _, f := range kept {
		name := f.Annotations.OverrideName
		if name == "" {
			name = w.fieldNamer(f.Name)
		}
		decl.Properties = append(decl.Properties, &Property{
			Name: name,
			Type: w.mapper.Render(f.Type),
		})
	}
	return decl, nil
}

// backEdge handles a field of from whose type to is still on the stack.
func (w *walker) backEdge(from, to *typeinfo.Type, f *typeinfo.Field) error {
	if w.cycles == RejectCycles {
		// to is on the stack: to -> ... -> from -> to
		path := slices.Clone(w.stack[slices.Index(w.stack, to):])
		return &CycleError{Path: append(path, to), Field: f.Name}
	}

	w.logger.Debug("forward reference", zap.Stringer("from", from), zap.Stringer("to", to), zap.String("field", f.Name))
	w.result.ForwardRefs = append(w.result.ForwardRefs, ForwardRef{From: from, To: to, Field: f.Name})
	return nil
}

func (w *walker) emit(t *typeinfo.Type, decl Declaration) error {
	declName := w.mapper.TypeName(t)
	unit := &Unit{
		Type:     t,
		Name:     w.unitNamer(declName) + w.unitSuffix,
		DeclName: declName,
		Content:  decl.String(0),
	}

	if prev, ok := w.byName[unit.Name]; ok {
		return &CollisionError{Name: unit.Name, First: prev.Type, Second: t}
	}
	w.byName[unit.Name] = unit
	w.result.Units = append(w.result.Units, unit)

	w.logger.Debug("emit", zap.Stringer("type", t), zap.String("unit", unit.Name))

	return nil
}
