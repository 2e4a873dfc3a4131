package goreflect

import (
	"database/sql"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/Yamashou/tsgenc/codegen"
	"github.com/Yamashou/tsgenc/typeinfo"
)

type Priority uint8

const (
	Low Priority = iota + 1
	High
)

func (p Priority) String() string {
	switch p {
	case Low:
		return "Low"
	case High:
		return "High"
	}
	return "Unknown"
}

type Base struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time
}

type hidden struct {
	Shared string
}

type Meta struct {
	Source string
}

type Box[T any] struct {
	Value T
}

type Assignee struct {
	Name string
}

type Task struct {
	Base
	hidden
	Meta       `json:"meta"`
	Title      string
	Done       bool
	Priority   Priority
	Due        *time.Time
	Estimate   time.Duration
	Assignee   *Assignee
	Subtasks   []*Task
	Scores     [2]float32
	Blob       []byte
	Comment    sql.NullString
	Reviewer   sql.Null[Assignee]
	Attributes map[string]string
	Password   string `json:"-"`
	Wrapped    Box[Assignee]
	internal   int
}

func TestProvider_Fields(t *testing.T) {
	t.Parallel()

	p := New(WithEnum(Low, High))
	task := For[Task](p)

	fields, err := p.Fields(task)
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

	pkg := reflect.TypeFor[Task]().PkgPath()
	want := []field{
		{Name: "ID", Type: "uuid", Override: "id"},
		{Name: "CreatedAt", Type: "time"},
		{Name: "Shared", Type: "string"},
		{Name: "Meta", Type: pkg + ".Meta", Override: "meta"},
		{Name: "Title", Type: "string"},
		{Name: "Done", Type: "bool"},
		{Name: "Priority", Type: pkg + ".Priority"},
		{Name: "Due", Type: "?time"},
		{Name: "Estimate", Type: "number"},
		{Name: "Assignee", Type: pkg + ".Assignee"},
		{Name: "Subtasks", Type: "[]" + pkg + ".Task"},
		{Name: "Scores", Type: "[...]number"},
		{Name: "Blob", Type: "string"},
		{Name: "Comment", Type: "?string"},
		{Name: "Reviewer", Type: "?" + pkg + ".Assignee"},
		{Name: "Attributes", Type: "map[string]string"},
		{Name: "Wrapped", Type: pkg + ".BoxAssignee"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}
}

func TestProvider_Members(t *testing.T) {
	t.Parallel()

	p := New(WithEnum(Low, High))
	priority := For[Priority](p)
	if priority.Kind != typeinfo.KindEnum {
		t.Fatalf("Priority kind = %v, want Enum", priority.Kind)
	}

	members, err := p.Members(priority)
	if err != nil {
		t.Fatalf("Members() error = %v", err)
	}
	want := []typeinfo.Member{{Name: "Low", Value: 1}, {Name: "High", Value: 2}}
	if diff := cmp.Diff(want, members); diff != "" {
		t.Errorf("Members() mismatch (-want +got):\n%s", diff)
	}

	// without registration the type is a plain number
	if got := For[Priority](New()); got != typeinfo.NumberType {
		t.Errorf("unregistered Priority = %v, want number", got)
	}
	if _, err := New().Members(priority); err == nil {
		t.Errorf("Members() of an unregistered enum expected error but got nil")
	}
}

func TestProvider_Identity(t *testing.T) {
	t.Parallel()

	p := New()
	if For[Task](p) != For[*Task](p) {
		t.Errorf("Task and *Task must share one descriptor")
	}
	if For[Task](p) == For[Task](New()) {
		t.Errorf("descriptors must not be shared between providers")
	}
}

func Test_instanceName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "User", want: "User", wantOK: true},
		{in: "Box[example.com/models.User]", want: "BoxUser", wantOK: true},
		{in: "Box[int]", want: "BoxInt", wantOK: true},
		{in: "Box[[]string]", want: "BoxStringList", wantOK: true},
		{in: "Box[[]example.com/models.User]", want: "BoxUserList", wantOK: true},
		{in: "Box[[2]*example.com/models.User]", want: "BoxUserList", wantOK: true},
		{in: "Box[*example.com/models.User]", want: "BoxUser", wantOK: true},
		{in: "Box[example.com/models.Wrapper[example.com/models.User]]", want: "BoxWrapperUser", wantOK: true},
		{in: "Box[example.com/models.Wrapper[[]uint8]]", want: "BoxWrapperUint8List", wantOK: true},
		{in: "Box[example.com/models.Pair[int,string]]", wantOK: false},
		{in: "Box[map[string]int]", wantOK: false},
		{in: "Box[interface {}]", wantOK: false},
		{in: "Pair[int,string]", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := instanceName(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("instanceName(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestProvider_Generate(t *testing.T) {
	t.Parallel()

	p := New(WithEnum(Low, High))
	result, err := codegen.New(p).Generate(For[Task](p))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	wantNames := []string{
		"Meta.model.ts",
		"Priority.model.ts",
		"Assignee.model.ts",
		"BoxAssignee.model.ts",
		"Task.model.ts",
	}
	if diff := cmp.Diff(wantNames, result.Names()); diff != "" {
		t.Errorf("unit names mismatch (-want +got):\n%s", diff)
	}

	unit, _ := result.Lookup(For[Priority](p))
	want := "export enum Priority {\n  Low = 1,\n  High = 2,\n}\n"
	if diff := cmp.Diff(want, unit.Content); diff != "" {
		t.Errorf("Priority content mismatch (-want +got):\n%s", diff)
	}
}

type Tree []Tree

type Link [2]*Link

type Forest struct {
	Children Tree
	Links    Link
	Nested   Box[Box[Assignee]]
	Listed   Box[[]Assignee]
	Single   Box[Assignee]
}

func TestProvider_SelfReferentialTypes(t *testing.T) {
	t.Parallel()

	p := New()
	forest := For[Forest](p)
	fields, err := p.Fields(forest)
	if err != nil {
		t.Fatalf("Fields() error = %v", err)
	}

	pkg := reflect.TypeFor[Forest]().PkgPath()
	got := make(map[string]string, len(fields))
	for _, f := range fields {
		got[f.Name] = f.Type.String()
	}
	want := map[string]string{
		"Children": "[]goreflect.Tree",
		"Links":    "[...]?goreflect.Link",
		"Nested":   pkg + ".BoxBoxAssignee",
		"Listed":   pkg + ".BoxAssigneeList",
		"Single":   pkg + ".BoxAssignee",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}

	if For[Tree](p) != For[Tree](p) {
		t.Errorf("For[Tree] returned different descriptors")
	}

	result, err := codegen.New(p).Generate(forest)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	wantNames := []string{
		"Assignee.model.ts",
		"BoxAssignee.model.ts",
		"BoxBoxAssignee.model.ts",
		"BoxAssigneeList.model.ts",
		"Forest.model.ts",
	}
	if diff := cmp.Diff(wantNames, result.Names()); diff != "" {
		t.Errorf("unit names mismatch (-want +got):\n%s", diff)
	}
}
