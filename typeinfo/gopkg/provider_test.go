package gopkg

import (
	"context"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/Yamashou/tsgenc/codegen"
	"github.com/Yamashou/tsgenc/typeinfo"
)

const uuidSrc = `package uuid

type UUID [16]byte

type NullUUID struct {
	UUID  UUID
	Valid bool
}
`

const modelsSrc = `package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Color int

const (
	Red Color = iota
	Green
	Blue Color = 10
)

const hidden Color = 99

type Status string

type ID = uuid.UUID

type Audit struct {
	CreatedAt time.Time ` + "`json:\"createdAt\"`" + `
	UpdatedAt *time.Time
}

type Tag struct {
	Label string
}

type Page[T any] struct {
	Items []T
	Total int
}

type Order struct {
	Audit
	Id       ID
	Customer *Customer
	Color    Color
	Status   Status
	Tags     []Tag
	Matrix   [3]float64
	Raw      []byte
	Score    *float64
	Note     sql.NullString
	Extra    map[string]any
	Secret   string ` + "`json:\"-\"`" + `
	Renamed  bool   ` + "`json:\"is_ok,omitempty\"`" + `
	Users    Page[Customer]
	internal int
}

type Customer struct {
	Name   string
	Orders []*Order
}
`

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) {
	return f(path)
}

func typeCheck(t *testing.T) *types.Package {
	t.Helper()

	fset := token.NewFileSet()
	std := importer.ForCompiler(fset, "source", nil)

	check := func(path, src string, imp types.Importer) *types.Package {
		f, err := parser.ParseFile(fset, path+"/src.go", src, 0)
		if err != nil {
			t.Fatalf("failed to parse %s: %v", path, err)
		}
		conf := types.Config{Importer: imp}
		pkg, err := conf.Check(path, fset, []*ast.File{f}, nil)
		if err != nil {
			t.Fatalf("failed to type check %s: %v", path, err)
		}
		return pkg
	}

	uuidPkg := check("github.com/google/uuid", uuidSrc, std)

	return check("example.com/models", modelsSrc, importerFunc(func(path string) (*types.Package, error) {
		if path == uuidPkg.Path() {
			return uuidPkg, nil
		}
		return std.Import(path)
	}))
}

func TestProvider_Fields(t *testing.T) {
	t.Parallel()

	p := New([]*types.Package{typeCheck(t)})
	order, err := p.Lookup("Order")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	fields, err := p.Fields(order)
	if err != nil {
		t.Fatalf("Fields() error = %v", err)
	}

	type field struct {
		Name     string
		Type     string
		Override string
	}
	got := make([]field, 0, len(fields))
	for _, f := range fields {
		got = append(got, field{Name: f.Name, Type: f.Type.String(), Override: f.Annotations.OverrideName})
	}

	want := []field{
		{Name: "CreatedAt", Type: "time", Override: "createdAt"},
		{Name: "UpdatedAt", Type: "?time"},
		{Name: "Id", Type: "uuid"},
		{Name: "Customer", Type: "example.com/models.Customer"},
		{Name: "Color", Type: "example.com/models.Color"},
		{Name: "Status", Type: "string"},
		{Name: "Tags", Type: "[]example.com/models.Tag"},
		{Name: "Matrix", Type: "[...]number"},
		{Name: "Raw", Type: "string"},
		{Name: "Score", Type: "?number"},
		{Name: "Note", Type: "?string"},
		{Name: "Extra", Type: "map[string]any"},
		{Name: "Renamed", Type: "bool", Override: "is_ok"},
		{Name: "Users", Type: "example.com/models.PageCustomer"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}
}

func TestProvider_Members(t *testing.T) {
	t.Parallel()

	p := New([]*types.Package{typeCheck(t)})
	color, err := p.Lookup("example.com/models.Color")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if color.Kind != typeinfo.KindEnum {
		t.Fatalf("Color kind = %v, want Enum", color.Kind)
	}

	members, err := p.Members(color)
	if err != nil {
		t.Fatalf("Members() error = %v", err)
	}
	want := []typeinfo.Member{{Name: "Red", Value: 0}, {Name: "Green", Value: 1}, {Name: "Blue", Value: 10}}
	if diff := cmp.Diff(want, members); diff != "" {
		t.Errorf("Members() mismatch (-want +got):\n%s", diff)
	}
}

func TestProvider_TypeOfIdentity(t *testing.T) {
	t.Parallel()

	p := New([]*types.Package{typeCheck(t)})
	order, _ := p.Lookup("Order")
	customer, _ := p.Lookup("Customer")

	fields, err := p.Fields(customer)
	if err != nil {
		t.Fatalf("Fields() error = %v", err)
	}
	// Customer.Orders is []*Order, whose element must be the Order handle itself.
	if got := fields[1].Type.Elem; got != order {
		t.Errorf("Customer.Orders element = %p (%v), want %p (%v)", got, got, order, order)
	}
}

func TestProvider_Lookup(t *testing.T) {
	t.Parallel()

	p := New([]*types.Package{typeCheck(t)})

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "型名のみ", in: "Customer"},
		{name: "インポートパス付き", in: "example.com/models.Customer"},
		{name: "存在しない型", in: "Missing", wantErr: true},
		{name: "パッケージが異なる", in: "example.com/other.Customer", wantErr: true},
		{name: "構造体でも列挙型でもない", in: "Status", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := p.Lookup(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("Lookup(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestProvider_Roots(t *testing.T) {
	t.Parallel()

	p := New([]*types.Package{typeCheck(t)})
	var got []string
	for _, root := range p.Roots() {
		got = append(got, root.Name)
	}

	// Page is generic and only reachable through its instances.
	want := []string{"Audit", "Color", "Customer", "Order", "Tag"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Roots() mismatch (-want +got):\n%s", diff)
	}
}

func TestProvider_Generate(t *testing.T) {
	t.Parallel()

	p := New([]*types.Package{typeCheck(t)})
	customer, _ := p.Lookup("Customer")

	g := codegen.New(p, codegen.WithElementTypes(true), codegen.WithLogger(zaptest.NewLogger(t)))
	result, err := g.Generate(customer)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	wantNames := []string{
		"Color.model.ts",
		"Tag.model.ts",
		"PageCustomer.model.ts",
		"Order.model.ts",
		"Customer.model.ts",
	}
	if diff := cmp.Diff(wantNames, result.Names()); diff != "" {
		t.Errorf("unit names mismatch (-want +got):\n%s", diff)
	}

	order, _ := p.Lookup("Order")
	unit, ok := result.Lookup(order)
	if !ok {
		t.Fatalf("Order unit not found")
	}
	want := `export class Order {
  createdAt: string;
  updatedAt: string | null;
  id: string;
  customer: Customer;
  color: Color;
  status: string;
  tags: Tag[];
  matrix: number[];
  raw: string;
  score: number | null;
  note: string | null;
  extra: Map[string]any;
  is_ok: boolean;
  users: PageCustomer;
}
`
	if diff := cmp.Diff(want, unit.Content); diff != "" {
		t.Errorf("Order content mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	p, err := Load(context.Background(), "../../testdata/models", []string{"."}, WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	user, err := p.Lookup("User")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	fields, err := p.Fields(user)
	if err != nil {
		t.Fatalf("Fields() error = %v", err)
	}
	var got []string
	for _, f := range fields {
		got = append(got, f.Name+" "+f.Type.String())
	}
	want := []string{"ID string", "Name string", "Email ?string", "Role github.com/Yamashou/tsgenc/testdata/models.Role", "CreatedAt time"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

const graphSrc = `package graph

type Tree []Tree

type Link [2]*Link

type Assignee struct {
	Name string
}

type Box[T any] struct {
	Value T
}

type Pair[K, V any] struct {
	Key   K
	Value V
}

type Forest struct {
	Children Tree
	Links    Link
	Nested   Box[Box[Assignee]]
	Listed   Box[[]Assignee]
	Bytes    Box[[]byte]
	Pairs    Box[Pair[string, int]]
}
`

func TestProvider_SelfReferentialTypes(t *testing.T) {
	t.Parallel()

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "graph/src.go", graphSrc, 0)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	pkg, err := (&types.Config{}).Check("example.com/graph", fset, []*ast.File{f}, nil)
	if err != nil {
		t.Fatalf("failed to type check: %v", err)
	}

	p := New([]*types.Package{pkg})

	var roots []string
	for _, root := range p.Roots() {
		roots = append(roots, root.Name)
	}
	if diff := cmp.Diff([]string{"Assignee", "Forest"}, roots); diff != "" {
		t.Errorf("Roots() mismatch (-want +got):\n%s", diff)
	}

	forest, err := p.Lookup("Forest")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	fields, err := p.Fields(forest)
	if err != nil {
		t.Fatalf("Fields() error = %v", err)
	}

	got := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.Name == "Pairs" {
			if f.Type.Kind != typeinfo.KindUnsupported {
				t.Errorf("Pairs kind = %v, want Unsupported", f.Type.Kind)
			}
			continue
		}
		got[f.Name] = f.Type.String()
	}
	want := map[string]string{
		"Children": "[]graph.Tree",
		"Links":    "[...]?graph.Link",
		"Nested":   "example.com/graph.BoxBoxAssignee",
		"Listed":   "example.com/graph.BoxAssigneeList",
		"Bytes":    "example.com/graph.BoxUint8List",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}

	tree := pkg.Scope().Lookup("Tree").Type()
	if p.TypeOf(tree) != p.TypeOf(tree) {
		t.Errorf("TypeOf(Tree) returned different descriptors")
	}
}
