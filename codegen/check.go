package codegen

import (
	"fmt"

	"github.com/Yamashou/tsgenc/typeinfo"
)

// Issue is a field whose type has no TypeScript mapping. Generate renders
// such fields by name, which may refer to a declaration that does not exist.
type Issue struct {
	Owner     *typeinfo.Type
	Field     string
	FieldType *typeinfo.Type
}

func (i Issue) String() string {
	return fmt.Sprintf("%s.%s: unsupported type %s", i.Owner, i.Field, i.FieldType)
}

// Check walks the same graph as GenerateAll and reports every non-ignored
// field whose type is, or contains, an unsupported type.
func (g *Generator) Check(roots ...*typeinfo.Type) ([]Issue, error) {
	seen := make(map[*typeinfo.Type]bool)
	var issues []Issue

	var walk func(t *typeinfo.Type) error
	walk = func(t *typeinfo.Type) error {
		if seen[t] || t.Kind != typeinfo.KindStruct {
			return nil
		}
		seen[t] = true

		fields, err := g.provider.Fields(t)
		if err != nil {
			return err
		}
		for _, f := range fields {
			if f.Annotations.Ignore {
				continue
			}
			if u := g.classifier.unsupported(f.Type); u != nil {
				issues = append(issues, Issue{Owner: t, Field: f.Name, FieldType: u})
				continue
			}
			if dep := g.classifier.dependency(f.Type, g.elements); dep != nil {
				if err := walk(dep); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, root := range roots {
		if root == nil {
			continue
		}
		if err := walk(root.Unwrap()); err != nil {
			return nil, err
		}
	}

	return issues, nil
}
