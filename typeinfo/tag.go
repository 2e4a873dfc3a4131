package typeinfo

import (
	"reflect"
	"strings"
)

// DefaultStructTag is the struct tag key read for field annotations.
const DefaultStructTag = "json"

// ParseTag extracts field annotations from a raw struct tag.
//
// It follows encoding/json:
//   - `json:"name"` and `json:"name,omitempty"` -> OverrideName "name"
//   - `json:"-"` -> Ignore
//   - `json:"-,"` -> OverrideName "-"
//   - `json:",omitempty"`, `json:""` and no tag -> no annotation
func ParseTag(tag, key string) Annotations {
	if tag == "" {
		return Annotations{}
	}
	value, ok := reflect.StructTag(tag).Lookup(key)
	if !ok {
		return Annotations{}
	}
	if value == "-" {
		return Annotations{Ignore: true}
	}
	name, _, _ := strings.Cut(value, ",")
	return Annotations{OverrideName: name}
}
