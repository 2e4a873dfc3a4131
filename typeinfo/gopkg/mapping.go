package gopkg

import (
	"go/types"

	"github.com/Yamashou/tsgenc/naming"
	"github.com/Yamashou/tsgenc/typeinfo"
)

// wellKnown maps named library types, keyed by "importpath.Name", to the
// descriptors they marshal as.
var wellKnown = map[string]*typeinfo.Type{
	"time.Time":                       typeinfo.TimeType,
	"time.Duration":                   typeinfo.NumberType,
	"encoding/json.Number":            typeinfo.NumberType,
	"github.com/google/uuid.UUID":     typeinfo.UUIDType,
	"github.com/google/uuid.NullUUID": typeinfo.OptionalOf(typeinfo.UUIDType),
	"database/sql.NullBool":           typeinfo.OptionalOf(typeinfo.BoolType),
	"database/sql.NullString":         typeinfo.OptionalOf(typeinfo.StringType),
	"database/sql.NullByte":           typeinfo.OptionalOf(typeinfo.NumberType),
	"database/sql.NullInt16":          typeinfo.OptionalOf(typeinfo.NumberType),
	"database/sql.NullInt32":          typeinfo.OptionalOf(typeinfo.NumberType),
	"database/sql.NullInt64":          typeinfo.OptionalOf(typeinfo.NumberType),
	"database/sql.NullFloat64":        typeinfo.OptionalOf(typeinfo.NumberType),
	"database/sql.NullTime":           typeinfo.OptionalOf(typeinfo.TimeType),
}

func basicType(t *types.Basic) *typeinfo.Type {
	info := t.Info()
	switch {
	case info&types.IsBoolean != 0:
		return typeinfo.BoolType
	case info&types.IsString != 0:
		return typeinfo.StringType
	case info&(types.IsInteger|types.IsFloat) != 0:
		return typeinfo.NumberType
	}

	return typeinfo.NewUnsupported(t.Name(), t)
}

// structOf returns the struct behind t or *t.
func structOf(t types.Type) *types.Struct {
	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		t = ptr.Elem()
	}
	st, _ := t.Underlying().(*types.Struct)

	return st
}

func isByte(t types.Type) bool {
	basic, ok := types.Unalias(t).(*types.Basic)
	return ok && basic.Kind() == types.Byte
}

// typeString formats t with package names instead of import paths.
func typeString(t types.Type) string {
	return types.TypeString(t, func(pkg *types.Package) string {
		return pkg.Name()
	})
}

// instanceName appends the type arguments of a generic instance to its name:
// Page[User] is "PageUser", Page[Wrapper[User]] is "PageWrapperUser" and
// Page[[]User] is "PageUserList". Instances with more than one type argument,
// at any depth, or with an argument that has no name have none.
func instanceName(t *types.Named) (string, bool) {
	args := t.TypeArgs()
	if args.Len() > 1 {
		return "", false
	}
	name := t.Obj().Name()
	if args.Len() == 1 {
		arg, ok := argName(args.At(0))
		if !ok {
			return "", false
		}
		name += arg
	}
	return name, true
}

func argName(t types.Type) (string, bool) {
	switch tt := types.Unalias(t).(type) {
	case *types.Named:
		name, ok := instanceName(tt)
		return naming.PascalCase(name), ok
	case *types.Basic:
		// byte and rune are reported by their underlying names, as reflect does
		return naming.PascalCase(types.Typ[tt.Kind()].Name()), true
	case *types.Pointer:
		return argName(tt.Elem())
	case *types.Slice:
		elem, ok := argName(tt.Elem())
		return elem + "List", ok
	case *types.Array:
		elem, ok := argName(tt.Elem())
		return elem + "List", ok
	}
	return "", false
}
