// Package definition parses declarative YAML component definitions and
// builds them into a registry through the core component API. A
// definition document names a registry and lists component classes with
// their class attributes, fields, and methods; building happens before
// the classes are instantiated or handed out, so the declared shape is
// complete by the time instances exist.
package definition

import "github.com/pokkur/layr/core/component"

// Definition is the root of one YAML definition document.
type Definition struct {
	// Registry names the registry the components are registered in.
	// Documents merged into one build must agree on the name; empty
	// defers to the other documents.
	Registry string `yaml:"registry,omitempty"`

	// Components lists the component classes in declaration order.
	Components []Component `yaml:"components"`
}

// Component declares one component class.
type Component struct {
	// Name is the class name, upper camel case by convention.
	Name string `yaml:"name"`

	// Attributes declares class-level attributes with value snapshots.
	Attributes map[string]Attribute `yaml:"attributes,omitempty"`

	// Fields declares the instance-level typed fields.
	Fields map[string]Field `yaml:"fields,omitempty"`

	// Methods declares method surfaces. YAML carries no behavior, so a
	// declared method has its exposure and an optional static marker;
	// handlers are attached in code after the build.
	Methods map[string]Method `yaml:"methods,omitempty"`
}

// Attribute declares a class-level attribute.
type Attribute struct {
	// Value is the attribute's value snapshot.
	Value any `yaml:"value,omitempty"`

	// Default declares a constant default evaluated on access when no
	// value was set.
	Default any `yaml:"default,omitempty"`

	// Expose grants remote access. Absent means private.
	Expose *component.Exposure `yaml:"expose,omitempty"`
}

// Field declares an instance-level field.
type Field struct {
	// Type is the field's declared type: a scalar tag (string, number,
	// boolean, object) or a component class name, with an optional []
	// suffix for arrays.
	Type string `yaml:"type"`

	// Default declares a constant default for the field.
	Default any `yaml:"default,omitempty"`

	// Expose grants remote access. Absent means private.
	Expose *component.Exposure `yaml:"expose,omitempty"`

	// Validators lists the field's validation rules.
	Validators []Validator `yaml:"validators,omitempty"`
}

// Method declares a method surface.
type Method struct {
	// Static declares the method at the class level instead of the
	// instance level.
	Static bool `yaml:"static,omitempty"`

	// Expose grants remote access. Absent means private.
	Expose *component.Exposure `yaml:"expose,omitempty"`
}

// Validator declares one validation rule for a field.
type Validator struct {
	// Type is the rule type (not_empty, min_length, max_length, min,
	// max, pattern, one_of).
	Type ValidatorType `yaml:"type"`

	// Value is the rule parameter (number, regex pattern, value list).
	Value any `yaml:"value,omitempty"`
}

// ValidatorType identifies a validation rule.
type ValidatorType string

const (
	ValidatorNotEmpty  ValidatorType = "not_empty"
	ValidatorMinLength ValidatorType = "min_length"
	ValidatorMaxLength ValidatorType = "max_length"
	ValidatorMin       ValidatorType = "min"
	ValidatorMax       ValidatorType = "max"
	ValidatorPattern   ValidatorType = "pattern"
	ValidatorOneOf     ValidatorType = "one_of"
)
