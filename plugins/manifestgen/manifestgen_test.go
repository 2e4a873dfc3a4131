package manifestgen

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/Yamashou/tsgenc/codegen"
	"github.com/Yamashou/tsgenc/typeinfo"
)

func sum(s string) string {
	b := sha256.Sum256([]byte(s))
	return hex.EncodeToString(b[:])
}

func TestPlugin_Generate(t *testing.T) {
	t.Parallel()

	s := typeinfo.NewStatic()
	kind := s.Enum("Kind", typeinfo.Member{Name: "File", Value: 0})
	node := typeinfo.NewStruct("example.com/fs", "Node", nil)
	s.SetFields(node,
		typeinfo.NewField("Kind", kind),
		typeinfo.NewField("Parent", node),
	)

	result, err := codegen.New(s).Generate(node)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "nested", "manifest.json")
	if err := New(path, result, zaptest.NewLogger(t)).Generate(t.Context()); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := &Manifest{
		Units: []Entry{
			{
				Name:        "Kind.model.ts",
				Declaration: "Kind",
				Type:        "Kind",
				Kind:        "enum",
				SHA256:      sum("export enum Kind {\n  File = 0,\n}\n"),
			},
			{
				Name:        "Node.model.ts",
				Declaration: "Node",
				Type:        "example.com/fs.Node",
				Kind:        "class",
				SHA256:      sum("export class Node {\n  kind: Kind;\n  parent: Node;\n}\n"),
			},
		},
		ForwardRefs: []ForwardRef{{From: "example.com/fs.Node", To: "example.com/fs.Node", Field: "Parent"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestRead(t *testing.T) {
	t.Parallel()

	got, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil || got != nil {
		t.Errorf("Read(missing) = %v, %v; want nil, nil", got, err)
	}
}
