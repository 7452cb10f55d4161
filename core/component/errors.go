package component

import (
	"fmt"
	"sort"
	"strings"
)

// InvalidNameError reports a component, registry, or property name that
// is empty, reserved, or not identifier-formatted.
type InvalidNameError struct {
	Name   string
	Reason string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Name, e.Reason)
}

// KindMismatchError reports a property accessed as the wrong kind, such
// as requesting an attribute accessor on a method.
type KindMismatchError struct {
	Property string
	Want     PropertyKind
	Got      PropertyKind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("property %q is a %s, not a %s", e.Property, e.Got, e.Want)
}

// DuplicateRegistrationError reports a component that cannot be
// registered: its name is taken, it is already owned, or it is not a
// class.
type DuplicateRegistrationError struct {
	Component string
	Registry  string
	Reason    string
}

func (e *DuplicateRegistrationError) Error() string {
	if e.Registry != "" {
		return fmt.Sprintf("cannot register component %q in registry %q: %s", e.Component, e.Registry, e.Reason)
	}
	return fmt.Sprintf("cannot register component %q: %s", e.Component, e.Reason)
}

// TypeRedeclarationError reports an attempt to change a field's
// declared type after its first declaration.
type TypeRedeclarationError struct {
	Field     string
	Declared  string
	Requested string
}

func (e *TypeRedeclarationError) Error() string {
	return fmt.Sprintf("field %q is declared as %s and cannot be redeclared as %s", e.Field, e.Declared, e.Requested)
}

// UnknownPropertyError reports a property lookup miss.
type UnknownPropertyError struct {
	Component string
	Property  string
}

func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("component %q has no property %q", e.Component, e.Property)
}

// UnknownComponentError reports a registry lookup miss.
type UnknownComponentError struct {
	Registry  string
	Component string
}

func (e *UnknownComponentError) Error() string {
	if e.Registry != "" {
		return fmt.Sprintf("registry %q has no component %q", e.Registry, e.Component)
	}
	return fmt.Sprintf("unknown component %q", e.Component)
}

// ValidationError carries aggregated validator failures keyed by field
// path.
type ValidationError struct {
	Failures map[string][]string
}

func (e *ValidationError) Error() string {
	paths := make([]string, 0, len(e.Failures))
	for path := range e.Failures {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	var parts []string
	for _, path := range paths {
		parts = append(parts, fmt.Sprintf("%s (%s)", path, strings.Join(e.Failures[path], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// TypeMismatchError reports a value of the wrong kind where a component
// or mapping was expected.
type TypeMismatchError struct {
	Expected string
	Got      any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("expected %s, got %T", e.Expected, e.Got)
}

// VersionMismatchError reports a remote protocol version that does not
// equal the serving version.
type VersionMismatchError struct {
	Client int
	Server int
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("protocol version mismatch: client version %d does not match server version %d", e.Client, e.Server)
}
