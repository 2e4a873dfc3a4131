package codegen

import (
	"fmt"
	"strings"

	"github.com/Yamashou/tsgenc/typeinfo"
)

// CyclePolicy decides what happens when a field refers to a type that is
// still being processed.
type CyclePolicy int

const (
	// AllowCycles renders the reference anyway and records a ForwardRef.
	AllowCycles CyclePolicy = iota
	// RejectCycles aborts generation with a *CycleError.
	RejectCycles
)

func (p CyclePolicy) String() string {
	if p == RejectCycles {
		return "error"
	}
	return "allow"
}

// ParseCyclePolicy parses the configuration value of a CyclePolicy.
func ParseCyclePolicy(s string) (CyclePolicy, error) {
	switch s {
	case "", "allow":
		return AllowCycles, nil
	case "error":
		return RejectCycles, nil
	}
	return AllowCycles, fmt.Errorf("unknown cycle policy %q (want allow or error)", s)
}

// CycleError is returned under RejectCycles when the type graph has a cycle.
type CycleError struct {
	// Path starts and ends with the same type.
	Path  []*typeinfo.Type
	Field string
}

func (e *CycleError) Error() string {
	names := make([]string, 0, len(e.Path))
	for _, t := range e.Path {
		names = append(names, t.String())
	}
	return fmt.Sprintf("cyclic type reference via field %q: %s", e.Field, strings.Join(names, " -> "))
}

// CollisionError is returned when two distinct types render to the same unit name.
type CollisionError struct {
	Name   string
	First  *typeinfo.Type
	Second *typeinfo.Type
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("unit name %q is generated by both %s and %s", e.Name, e.First, e.Second)
}
