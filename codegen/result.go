package codegen

import (
	"strings"

	"github.com/Yamashou/tsgenc/typeinfo"
)

// DefaultUnitSuffix is appended to the rendered unit name.
const DefaultUnitSuffix = ".model.ts"

// Unit is one emitted declaration, for exactly one enum or struct.
type Unit struct {
	// Type is the descriptor the unit was generated from.
	Type *typeinfo.Type
	// Name is the suggested file name, e.g. "User.model.ts".
	Name string
	// DeclName is the declared TypeScript name, e.g. "User".
	DeclName string
	// Content is the TypeScript source of the declaration.
	Content string
}

// ForwardRef is a field whose composite type had not been emitted yet when
// the field's owner was rendered. It only happens on cyclic type graphs.
type ForwardRef struct {
	From  *typeinfo.Type
	To    *typeinfo.Type
	Field string
}

// Result is the output of one Generate call.
type Result struct {
	// Units in emission order: every unit comes after the units of the
	// composite types its fields refer to, except for ForwardRefs.
	Units       []*Unit
	ForwardRefs []ForwardRef
}

// SingleFile joins the content of every unit into one source, separated by a
// blank line.
func (r *Result) SingleFile() string {
	contents := make([]string, 0, len(r.Units))
	for _, u := range r.Units {
		contents = append(contents, u.Content)
	}
	return strings.Join(contents, "\n\n")
}

// Lookup returns the unit generated from t.
func (r *Result) Lookup(t *typeinfo.Type) (*Unit, bool) {
	for _, u := range r.Units {
		if u.Type == t {
			return u, true
		}
	}
	return nil, false
}

// Names returns the unit names in emission order.
func (r *Result) Names() []string {
	names := make([]string, 0, len(r.Units))
	for _, u := range r.Units {
		names = append(names, u.Name)
	}
	return names
}
