package typeinfo

import (
	"fmt"
	"sync"
)

// Static is a Provider whose metadata is registered by hand.
type Static struct {
	mu      sync.RWMutex
	fields  map[*Type][]*Field
	members map[*Type][]Member
}

var _ Provider = (*Static)(nil)

func NewStatic() *Static {
	return &Static{
		fields:  make(map[*Type][]*Field),
		members: make(map[*Type][]Member),
	}
}

// Struct registers a struct type with its fields and returns it.
func (s *Static) Struct(name string, fields ...*Field) *Type {
	t := NewStruct("", name, nil)
	s.SetFields(t, fields...)
	return t
}

// Enum registers an enum type with its members and returns it.
func (s *Static) Enum(name string, members ...Member) *Type {
	t := NewEnum("", name, nil)
	s.SetMembers(t, members...)
	return t
}

// SetFields replaces the fields of t. It may be called after t is referenced
// by other fields, which is how self-referencing types are described.
func (s *Static) SetFields(t *Type, fields ...*Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[t] = fields
}

func (s *Static) SetMembers(t *Type, members ...Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[t] = members
}

func (s *Static) Fields(t *Type) ([]*Field, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, ok := s.fields[t]
	if !ok {
		return nil, fmt.Errorf("typeinfo: no fields registered for %s", t)
	}
	return fields, nil
}

func (s *Static) Members(t *Type) ([]Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members, ok := s.members[t]
	if !ok {
		return nil, fmt.Errorf("typeinfo: no members registered for %s", t)
	}
	return members, nil
}

// NewField is a shorthand for a field without annotations.
func NewField(name string, t *Type) *Field {
	return &Field{Name: name, Type: t}
}
