package component

import (
	"strings"

	"github.com/pokkur/layr/core/validation"
)

// FieldType is a field's declared value type. Name is the scalar type
// tag used for cycle detection during field mask construction; tags
// outside the scalar set reference component classes by name.
type FieldType struct {
	Name    string
	IsArray bool
}

var scalarTypeNames = map[string]bool{
	"string":  true,
	"number":  true,
	"boolean": true,
	"object":  true,
}

// IsComponent reports whether the type references a component class.
func (t FieldType) IsComponent() bool {
	return t.Name != "" && !scalarTypeNames[t.Name]
}

// String returns the declared form of the type, such as "Director[]".
func (t FieldType) String() string {
	if t.IsArray {
		return t.Name + "[]"
	}
	return t.Name
}

// ParseFieldType parses a declared type string such as "string" or
// "Director[]".
func ParseFieldType(s string) FieldType {
	if name, ok := strings.CutSuffix(s, "[]"); ok {
		return FieldType{Name: name, IsArray: true}
	}
	return FieldType{Name: s}
}

// FieldOptions configure a field declaration.
type FieldOptions struct {
	// Type is the declared value type. It is required on the first
	// declaration and immutable afterwards.
	Type FieldType

	// Default computes the field's default value for new instances.
	Default func() any

	// Validators run against the field value during validation. Array
	// fields validate element-wise.
	Validators []validation.Validator

	// Exposure grants remote access to the field. Nil leaves the
	// current exposure untouched.
	Exposure *Exposure
}

// AttributeOptions configure an attribute declaration. On class-level
// attributes Value sets the live value slot; on instance-level
// attributes it is shorthand for a constant default, since values are
// per-instance.
type AttributeOptions struct {
	Value    any
	Default  func() any
	Exposure *Exposure
}

// MethodOptions configure a method declaration. Declarations without a
// handler are introspectable but not callable.
type MethodOptions struct {
	Handler  MethodFunc
	Exposure *Exposure
}

// Constant returns a default generator producing a fixed value.
func Constant(v any) func() any {
	return func() any { return v }
}
