// Package goreflect provides type metadata for compiled Go types through reflect.
//
// Go has no enum declarations at run time, so enum types are registered with
// WithEnum.
package goreflect

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Yamashou/tsgenc/naming"
	"github.com/Yamashou/tsgenc/typeinfo"
)

// Enum is the constraint for types registered with WithEnum.
type Enum interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
	fmt.Stringer
}

type Provider struct {
	structTag string

	mu         sync.Mutex
	cache      map[reflect.Type]*typeinfo.Type
	converting map[reflect.Type]bool
	enums      map[reflect.Type][]typeinfo.Member
}

var _ typeinfo.Provider = (*Provider)(nil)

type Option func(*Provider)

func WithStructTag(key string) Option {
	return func(p *Provider) {
		if key != "" {
			p.structTag = key
		}
	}
}

// WithEnum registers T as an enum whose members are values, in that order.
// Member names come from String.
func WithEnum[T Enum](values ...T) Option {
	return func(p *Provider) {
		members := make([]typeinfo.Member, 0, len(values))
		for _, v := range values {
			members = append(members, typeinfo.Member{Name: v.String(), Value: intValue(reflect.ValueOf(v))})
		}
		p.enums[reflect.TypeFor[T]()] = members
	}
}

func New(options ...Option) *Provider {
	p := &Provider{
		structTag: typeinfo.DefaultStructTag,
		cache:      make(map[reflect.Type]*typeinfo.Type),
		converting: make(map[reflect.Type]bool),
		enums:      make(map[reflect.Type][]typeinfo.Member),
	}
	for _, option := range options {
		option(p)
	}

	return p
}

// For returns the descriptor of T.
func For[T any](p *Provider) *typeinfo.Type {
	return p.TypeOf(reflect.TypeFor[T]())
}

func (p *Provider) TypeOf(t reflect.Type) *typeinfo.Type {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.typeOf(t)
}

func (p *Provider) typeOf(t reflect.Type) *typeinfo.Type {
	if cached, ok := p.cache[t]; ok {
		return cached
	}
	// type Tree []Tree refers to itself through its element type
	if p.converting[t] {
		return typeinfo.NewUnsupported(t.String(), t)
	}
	p.converting[t] = true
	ti := p.convert(t)
	delete(p.converting, t)
	p.cache[t] = ti

	return ti
}

// wellKnown maps library types to the descriptors they marshal as.
var wellKnown = map[reflect.Type]*typeinfo.Type{
	reflect.TypeFor[time.Time]():       typeinfo.TimeType,
	reflect.TypeFor[time.Duration]():   typeinfo.NumberType,
	reflect.TypeFor[json.Number]():     typeinfo.NumberType,
	reflect.TypeFor[uuid.UUID]():       typeinfo.UUIDType,
	reflect.TypeFor[uuid.NullUUID]():   typeinfo.OptionalOf(typeinfo.UUIDType),
	reflect.TypeFor[sql.NullBool]():    typeinfo.OptionalOf(typeinfo.BoolType),
	reflect.TypeFor[sql.NullString]():  typeinfo.OptionalOf(typeinfo.StringType),
	reflect.TypeFor[sql.NullByte]():    typeinfo.OptionalOf(typeinfo.NumberType),
	reflect.TypeFor[sql.NullInt16]():   typeinfo.OptionalOf(typeinfo.NumberType),
	reflect.TypeFor[sql.NullInt32]():   typeinfo.OptionalOf(typeinfo.NumberType),
	reflect.TypeFor[sql.NullInt64]():   typeinfo.OptionalOf(typeinfo.NumberType),
	reflect.TypeFor[sql.NullFloat64](): typeinfo.OptionalOf(typeinfo.NumberType),
	reflect.TypeFor[sql.NullTime]():    typeinfo.OptionalOf(typeinfo.TimeType),
}

func (p *Provider) convert(t reflect.Type) *typeinfo.Type {
	if known, ok := wellKnown[t]; ok {
		return known
	}
	if t.PkgPath() == "database/sql" && strings.HasPrefix(t.Name(), "Null[") {
		return typeinfo.OptionalOf(p.typeOf(t.Field(0).Type))
	}
	if _, ok := p.enums[t]; ok {
		return typeinfo.NewEnum(t.PkgPath(), t.Name(), t)
	}

	switch t.Kind() {
	case reflect.Bool:
		return typeinfo.BoolType
	case reflect.String:
		return typeinfo.StringType
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return typeinfo.NumberType
	case reflect.Pointer:
		elem := p.typeOf(t.Elem())
		if elem.Kind == typeinfo.KindStruct {
			return elem
		}
		return typeinfo.OptionalOf(elem)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return typeinfo.StringType
		}
		return typeinfo.EnumerableOf(p.typeOf(t.Elem()))
	case reflect.Array:
		return typeinfo.ArrayOf(p.typeOf(t.Elem()))
	case reflect.Struct:
		if t.Name() == "" {
			break
		}
		name, ok := instanceName(t.Name())
		if !ok {
			break
		}
		return typeinfo.NewStruct(t.PkgPath(), name, t)
	}

	return typeinfo.NewUnsupported(t.String(), t)
}

// instanceName turns the reflect name of a generic instance into a type
// name: "Page[example.com/models.User]" is "PageUser",
// "Page[example.com/models.Wrapper[example.com/models.User]]" is
// "PageWrapperUser" and "Page[[]example.com/models.User]" is "PageUserList".
// Instances with more than one type argument, at any depth, or with an
// argument that has no name are not supported.
func instanceName(name string) (string, bool) {
	base, args, ok := strings.Cut(name, "[")
	if !ok {
		return name, true
	}
	args, ok = strings.CutSuffix(args, "]")
	if !ok || hasTopLevelComma(args) {
		return "", false
	}
	arg, ok := argName(args)
	if !ok {
		return "", false
	}

	return base + arg, true
}

// argName names one type argument as printed by reflect.
func argName(arg string) (string, bool) {
	switch {
	case strings.HasPrefix(arg, "*"):
		return argName(arg[1:])
	case strings.HasPrefix(arg, "[]"):
		elem, ok := argName(arg[2:])
		return elem + "List", ok
	case strings.HasPrefix(arg, "["):
		_, elem, ok := strings.Cut(arg, "]")
		if !ok {
			return "", false
		}
		name, ok := argName(elem)
		return name + "List", ok
	case strings.ContainsAny(arg, " {(") || strings.HasPrefix(arg, "map[") || strings.HasPrefix(arg, "chan"):
		return "", false
	}

	// drop the import path of the argument, but not of its own arguments
	head, rest := arg, ""
	if i := strings.Index(arg, "["); i >= 0 {
		head, rest = arg[:i], arg[i:]
	}
	if i := strings.LastIndex(head, "."); i >= 0 {
		head = head[i+1:]
	}
	name, ok := instanceName(head + rest)
	return naming.PascalCase(name), ok
}

func hasTopLevelComma(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

func (p *Provider) Fields(t *typeinfo.Type) ([]*typeinfo.Field, error) {
	rt, ok := t.Source.(reflect.Type)
	if !ok || rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("goreflect: %s is not a Go struct", t)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var (
		fields  []*typeinfo.Field
		blocked [][]int
	)
	for _, f := range reflect.VisibleFields(rt) {
		if hasPrefix(f.Index, blocked) {
			continue
		}

		annotations := typeinfo.ParseTag(string(f.Tag), p.structTag)
		embeddedStruct := f.Anonymous && indirect(f.Type).Kind() == reflect.Struct
		switch {
		case annotations.Ignore:
			blocked = append(blocked, f.Index)
			continue
		case embeddedStruct && annotations.OverrideName == "":
			// promoted fields follow
			continue
		case embeddedStruct:
			blocked = append(blocked, f.Index)
		}
		if !f.IsExported() {
			continue
		}

		fields = append(fields, &typeinfo.Field{
			Name:        f.Name,
			Type:        p.typeOf(f.Type),
			Annotations: annotations,
		})
	}

	return fields, nil
}

func (p *Provider) Members(t *typeinfo.Type) ([]typeinfo.Member, error) {
	rt, ok := t.Source.(reflect.Type)
	if !ok {
		return nil, fmt.Errorf("goreflect: %s is not a Go type", t)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	members, ok := p.enums[rt]
	if !ok {
		return nil, fmt.Errorf("goreflect: %s is not a registered enum", t)
	}

	return members, nil
}

func intValue(v reflect.Value) int64 {
	if v.CanInt() {
		return v.Int()
	}
	return int64(v.Uint())
}

func indirect(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

func hasPrefix(index []int, prefixes [][]int) bool {
	for _, prefix := range prefixes {
		if len(index) > len(prefix) && slices.Equal(index[:len(prefix)], prefix) {
			return true
		}
	}
	return false
}
